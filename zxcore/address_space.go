// Address space: a 64 KiB logical view over four 16 KiB slots backed by
// ROM and RAM banks. Mediates every CPU read/write and raises the
// screen-dirty flag the screen engine consumes each frame.
package zxcore

// Model selects the machine variant, which determines ROM/RAM bank
// counts and whether the 128K paging port is installed.
type Model int

const (
	Model48K Model = iota
	Model128K
)

const (
	bankSize   = 0x4000 // 16 KiB
	numSlots   = 4
	romBanks48 = 1
	ramBanks48 = 3
	romBanks128 = 2
	ramBanks128 = 8

	// displayWindowStart/End bound the screen image region within a
	// slot 1 RAM bank: writes here set the screen-dirty flag.
	displayWindowStart = 0x4000
	displayWindowEnd   = 0x5B00
)

// AddressSpace implements the four-slot 64 KiB logical memory map.
type AddressSpace struct {
	model Model

	romBanks [][bankSize]byte
	ramBanks [][bankSize]byte

	// slot[i] indexes either romBanks or ramBanks depending on
	// slotIsROM[i]; slot 1 and slot 2 are fixed for 128K, slot 0 and
	// slot 3 vary with the 0x7FFD paging register.
	slotBank [numSlots]int
	slotROM  [numSlots]bool

	pagingLocked bool
	lastPaging   uint8
	shadowBank   int // RAM bank used for slot 1 when the shadow display is selected

	videoRAMChanged bool
}

// NewAddressSpace builds an address space for the given model. romImages
// must contain exactly 1 bank (48K) or 2 banks (128K), each bankSize
// bytes.
func NewAddressSpace(model Model, romImages [][]byte) (*AddressSpace, error) {
	a := &AddressSpace{model: model}

	wantROM := romBanks48
	wantRAM := ramBanks48
	a.shadowBank = 7
	if model == Model128K {
		wantROM = romBanks128
		wantRAM = ramBanks128
	}
	if len(romImages) != wantROM {
		return nil, errBadFileF("expected %d ROM image(s), got %d", wantROM, len(romImages))
	}

	a.romBanks = make([][bankSize]byte, wantROM)
	for i, img := range romImages {
		if len(img) != bankSize {
			return nil, errBadFileF("ROM bank %d: expected %d bytes, got %d", i, bankSize, len(img))
		}
		copy(a.romBanks[i][:], img)
	}
	a.ramBanks = make([][bankSize]byte, wantRAM)

	a.reset()
	return a, nil
}

// reset restores the boot slot configuration: slot 0 = ROM bank 0,
// slot 1 = RAM bank 5, slot 2 = RAM bank 2, slot 3 = RAM bank 0 (48K has
// exactly three RAM banks, numbered 0/1/2 mapped to the fixed slots);
// unlocks paging and forces a screen redraw.
func (a *AddressSpace) reset() {
	a.pagingLocked = false
	a.lastPaging = 0

	a.slotROM[0] = true
	a.slotBank[0] = 0

	if a.model == Model128K {
		a.slotBank[1] = 5
		a.slotBank[2] = 2
		a.slotBank[3] = 0
	} else {
		// 48K fixed RAM bank IDs: slot1=bank0 (screen+lower), slot2=bank1,
		// slot3=bank2 — three contiguous 16K RAM banks above the single ROM.
		a.slotBank[1] = 0
		a.slotBank[2] = 1
		a.slotBank[3] = 2
	}
	a.slotROM[1] = false
	a.slotROM[2] = false
	a.slotROM[3] = false

	a.videoRAMChanged = true
}

// Reset restores the boot configuration, unlocks paging, clears RAM
// banks to zero, and forces a screen redraw.
func (a *AddressSpace) Reset() {
	for i := range a.ramBanks {
		a.ramBanks[i] = [bankSize]byte{}
	}
	a.reset()
}

// displayBank returns the RAM bank currently driving the visible
// screen: bank 5 normally, bank 7 when the 128K shadow display bit is
// set. On 48K this is always the fixed screen-owning bank (slot 1's
// bank, i.e. bank 0).
func (a *AddressSpace) displayBank() int {
	if a.model != Model128K {
		return a.slotBank[1]
	}
	if a.lastPaging&0x08 != 0 {
		return a.shadowBank
	}
	return 5
}

func (a *AddressSpace) Read8(addr uint16) byte {
	slot := addr >> 14
	offset := addr & 0x3FFF
	if a.slotROM[slot] {
		return a.romBanks[a.slotBank[slot]][offset]
	}
	return a.ramBanks[a.slotBank[slot]][offset]
}

func (a *AddressSpace) Write8(addr uint16, v byte) {
	slot := addr >> 14
	if a.slotROM[slot] {
		return // ROM slots reject writes silently
	}
	offset := addr & 0x3FFF
	bank := a.slotBank[slot]
	a.ramBanks[bank][offset] = v

	if bank == a.displayBank() && addr >= displayWindowStart && addr < displayWindowEnd {
		a.videoRAMChanged = true
	}
}

func (a *AddressSpace) Read16(addr uint16) uint16 {
	lo := a.Read8(addr)
	hi := a.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (a *AddressSpace) Write16(addr uint16, v uint16) {
	a.Write8(addr, byte(v))
	a.Write8(addr+1, byte(v>>8))
}

// SetPaging applies 0x7FFD semantics. Ignored (except that the lock
// stays latched) once paging has been locked.
func (a *AddressSpace) SetPaging(v uint8) {
	if a.model != Model128K || a.pagingLocked {
		if v&0x20 != 0 {
			a.pagingLocked = true
		}
		return
	}

	a.slotBank[3] = int(v & 0x07)
	a.slotBank[0] = int((v >> 4) & 0x01)
	a.lastPaging = v
	if v&0x20 != 0 {
		a.pagingLocked = true
	}
}

// LastPaging returns the last value written to 0x7FFD, for port reads.
func (a *AddressSpace) LastPaging() uint8 { return a.lastPaging }

// SelectROM replaces slot 0's ROM bank directly, bypassing 0x7FFD (used
// for ROM swap from the menu).
func (a *AddressSpace) SelectROM(which int) {
	a.slotROM[0] = true
	a.slotBank[0] = which
	a.videoRAMChanged = true
}

// VideoRAMChanged reports and clears the screen-dirty flag.
func (a *AddressSpace) VideoRAMChanged() bool {
	v := a.videoRAMChanged
	a.videoRAMChanged = false
	return v
}

// ForceVideoRAMChanged sets the screen-dirty flag without a memory
// write, used on reset, ROM swap, and menu teardown.
func (a *AddressSpace) ForceVideoRAMChanged() {
	a.videoRAMChanged = true
}

// loadSlotRAM overwrites the RAM bank currently occupying the given 48K
// slot (1-3) with data, used when restoring a v1 .z80 snapshot. len(data)
// must be bankSize.
func (a *AddressSpace) loadSlotRAM(slot int, data []byte) {
	if slot < 1 || slot > 3 {
		return
	}
	bank := a.slotBank[slot]
	copy(a.ramBanks[bank][:], data)
	a.videoRAMChanged = true
}

// loadRAMBank overwrites a 128K RAM bank (0-7) directly by bank number,
// used when restoring a v2/v3 .z80 snapshot's page stream.
func (a *AddressSpace) loadRAMBank(bank int, data []byte) {
	if bank < 0 || bank >= len(a.ramBanks) {
		return
	}
	copy(a.ramBanks[bank][:], data)
	a.videoRAMChanged = true
}

// ScreenImage copies the logical 6912-byte pixel+attribute region out of
// whichever RAM bank currently drives the display, regardless of which
// slot maps it.
func (a *AddressSpace) ScreenImage(out *[ScreenBytes]byte) {
	bank := a.displayBank()
	copy(out[:], a.ramBanks[bank][0:ScreenBytes])
}
