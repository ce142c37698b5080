package zxcore

import "testing"

func rom(fill byte) []byte {
	r := make([]byte, bankSize)
	for i := range r {
		r[i] = fill
	}
	return r
}

func newTest48K(t *testing.T) *AddressSpace {
	t.Helper()
	a, err := NewAddressSpace(Model48K, [][]byte{rom(0xFF)})
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}
	return a
}

func TestAddressSpaceROMWritesAreNoOps(t *testing.T) {
	a := newTest48K(t)
	before := a.Read8(0x0000)
	a.Write8(0x0000, 0x42)
	if a.Read8(0x0000) != before {
		t.Fatalf("ROM slot accepted a write")
	}
}

func TestAddressSpaceWriteToDisplayedScreenSetsDirty(t *testing.T) {
	a := newTest48K(t)
	a.VideoRAMChanged() // clear the reset-forced flag

	a.Write8(0x4000, 0xAA)
	if !a.VideoRAMChanged() {
		t.Fatalf("expected screen-dirty flag after write to displayed screen region")
	}
}

func TestAddressSpaceWriteOutsideScreenWindowDoesNotDirty(t *testing.T) {
	a := newTest48K(t)
	a.VideoRAMChanged()

	a.Write8(0x8000, 0xAA) // slot 2, outside [0x4000,0x5B00)
	if a.VideoRAMChanged() {
		t.Fatalf("expected no screen-dirty flag for a write outside the display window")
	}
}

func TestPagingLockLatchesAndIgnoresFurtherWrites(t *testing.T) {
	a, err := NewAddressSpace(Model128K, [][]byte{rom(0), rom(1)})
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}

	a.SetPaging(0x20 | 0x03) // lock bit + RAM bank 3 for slot 3
	if a.slotBank[3] != 3 {
		t.Fatalf("slotBank[3] = %d, want 3", a.slotBank[3])
	}

	a.SetPaging(0x05) // should be ignored now that paging is locked
	if a.slotBank[3] != 3 {
		t.Fatalf("paging write accepted after lock: slotBank[3] = %d", a.slotBank[3])
	}
}

func TestShadowDisplayBankSelection(t *testing.T) {
	a, err := NewAddressSpace(Model128K, [][]byte{rom(0), rom(1)})
	if err != nil {
		t.Fatalf("NewAddressSpace: %v", err)
	}
	if a.displayBank() != 5 {
		t.Fatalf("default display bank = %d, want 5", a.displayBank())
	}
	a.SetPaging(0x08) // bit 3: shadow display
	if a.displayBank() != 7 {
		t.Fatalf("shadow display bank = %d, want 7", a.displayBank())
	}
}

func TestResetClearsRAMAndForcesRedraw(t *testing.T) {
	a := newTest48K(t)
	a.Write8(0x8000, 0x55)
	a.Reset()
	if a.Read8(0x8000) != 0 {
		t.Fatalf("expected RAM cleared after Reset")
	}
	if !a.VideoRAMChanged() {
		t.Fatalf("expected Reset to force a screen redraw")
	}
}
