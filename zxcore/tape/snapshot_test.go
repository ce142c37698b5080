package tape

import (
	"bytes"
	"testing"
)

func buildV1Header(pc uint16, compressed bool) []byte {
	h := make([]byte, 30)
	h[0] = 0x01 // A
	h[1] = 0x02 // F
	h[6] = byte(pc)
	h[7] = byte(pc >> 8)
	flags := byte(0)
	if compressed {
		flags |= 0x20
	}
	h[12] = flags
	return h
}

func TestLoadZ80V1Uncompressed(t *testing.T) {
	header := buildV1Header(0x8000, false)
	mem := bytes.Repeat([]byte{0x00}, 3*pageSize)

	var buf bytes.Buffer
	buf.Write(header)
	buf.Write(mem)

	snap, err := LoadZ80(&buf)
	if err != nil {
		t.Fatalf("LoadZ80: %v", err)
	}
	if snap.Regs.PC != 0x8000 {
		t.Fatalf("PC = %#x, want 0x8000", snap.Regs.PC)
	}
	if snap.Regs.A != 0x01 {
		t.Fatalf("A = %#x, want 0x01", snap.Regs.A)
	}
	if len(snap.Pages) != 3 {
		t.Fatalf("expected 3 pages for a v1 48K snapshot, got %d", len(snap.Pages))
	}
}

func TestDecompressRLEExpandsEscapeSequence(t *testing.T) {
	// ED ED 03 7F -> three 0x7F bytes; a trailing lone ED passes through.
	in := []byte{0x01, 0xED, 0xED, 0x03, 0x7F, 0x02, 0xED}
	out := decompressRLE(in)
	want := []byte{0x01, 0x7F, 0x7F, 0x7F, 0x02, 0xED}
	if !bytes.Equal(out, want) {
		t.Fatalf("decompressRLE() = %v, want %v", out, want)
	}
}

func TestDecompressRLEPassesThroughIsolatedED(t *testing.T) {
	// ED followed by a non-ED byte is not an escape sequence.
	in := []byte{0xED, 0x10, 0xED, 0xED, 0x02, 0x55}
	out := decompressRLE(in)
	want := []byte{0xED, 0x10, 0x55, 0x55}
	if !bytes.Equal(out, want) {
		t.Fatalf("decompressRLE() = %v, want %v", out, want)
	}
}

func TestPage48KSlotMapping(t *testing.T) {
	cases := map[int]int{4: 1, 5: 3, 8: 2}
	for id, wantSlot := range cases {
		slot, ok := page48KSlot(id)
		if !ok || slot != wantSlot {
			t.Fatalf("page48KSlot(%d) = (%d,%v), want (%d,true)", id, slot, ok, wantSlot)
		}
	}
	if _, ok := page48KSlot(99); ok {
		t.Fatalf("expected unknown page id to be rejected")
	}
}

func TestPage128KBankMapping(t *testing.T) {
	for id := 3; id <= 10; id++ {
		bank, ok := page128KBank(id)
		if !ok || bank != id-3 {
			t.Fatalf("page128KBank(%d) = (%d,%v), want (%d,true)", id, bank, ok, id-3)
		}
	}
}

func TestSaveZ80V1RoundTrip(t *testing.T) {
	header := buildV1Header(0x8000, false)
	header[0], header[1] = 0x42, 0x01 // A, F
	header[10] = 0x3F                 // I
	var mem []byte
	mem = append(mem, bytes.Repeat([]byte{0x11}, pageSize)...)
	mem = append(mem, bytes.Repeat([]byte{0x22}, pageSize)...)
	mem = append(mem, bytes.Repeat([]byte{0x33}, pageSize)...)

	var in bytes.Buffer
	in.Write(header)
	in.Write(mem)
	original := append([]byte(nil), in.Bytes()...)

	snap, err := LoadZ80(&in)
	if err != nil {
		t.Fatalf("LoadZ80: %v", err)
	}
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1", snap.Version)
	}

	var out bytes.Buffer
	if err := SaveZ80(&out, snap); err != nil {
		t.Fatalf("SaveZ80: %v", err)
	}
	if !bytes.Equal(out.Bytes(), original) {
		t.Fatalf("round trip not byte-identical:\n got  %v\n want %v", out.Bytes(), original)
	}
}

// buildV2V3Bytes assembles a minimal v2 (extLen 23) or v3 (extLen 54)
// snapshot with a single uncompressed page record.
func buildV2V3Bytes(extLen uint16, hwMode byte, pc uint16, pageID byte, fill byte) []byte {
	header := make([]byte, 30)
	header[0] = 0x07 // A
	var buf bytes.Buffer
	buf.Write(header)
	buf.Write([]byte{byte(extLen), byte(extLen >> 8)})
	ext := make([]byte, extLen)
	ext[0], ext[1] = byte(pc), byte(pc>>8)
	ext[2] = hwMode
	buf.Write(ext)
	buf.Write([]byte{0xFF, 0xFF, pageID})
	buf.Write(bytes.Repeat([]byte{fill}, pageSize))
	return buf.Bytes()
}

func TestSaveZ80V3RoundTrip(t *testing.T) {
	raw := buildV2V3Bytes(54, 4, 0x9000, 4, 0x99)

	snap, err := LoadZ80(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadZ80: %v", err)
	}
	if snap.Version != 3 {
		t.Fatalf("Version = %d, want 3", snap.Version)
	}
	if !snap.Is128K {
		t.Fatalf("expected hwMode 4 to report Is128K")
	}

	var out bytes.Buffer
	if err := SaveZ80(&out, snap); err != nil {
		t.Fatalf("SaveZ80: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("round trip not byte-identical:\n got  %v\n want %v", out.Bytes(), raw)
	}

	reloaded, err := LoadZ80(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("reload LoadZ80: %v", err)
	}
	if reloaded.Regs.PC != snap.Regs.PC || reloaded.Is128K != snap.Is128K {
		t.Fatalf("reloaded snapshot fields diverge from the original")
	}
	if !bytes.Equal(reloaded.Pages[4], snap.Pages[4]) {
		t.Fatalf("reloaded page content diverges from the original")
	}
}
