package zxcore

import "testing"

func TestAYChipSelectAndReadWriteRegister(t *testing.T) {
	c := NewAYChip()
	c.SelectRegister(8) // channel A volume
	c.WriteSelected(0x0F)

	c.SelectRegister(8)
	if c.ReadSelected() != 0x0F {
		t.Fatalf("ReadSelected() = %#x, want 0x0F", c.ReadSelected())
	}
}

func TestAYChipSelectMasksToFourBits(t *testing.T) {
	c := NewAYChip()
	c.SelectRegister(0xFF)
	if c.regSel != 0x0F {
		t.Fatalf("regSel = %#x, want masked to 0x0F", c.regSel)
	}
}

func TestAYChipToneGeneratorTogglesSquareWave(t *testing.T) {
	c := NewAYChip()
	c.SelectRegister(0) // channel A tone period fine
	c.WriteSelected(5) // odd toggle count over the 128 AY clocks below
	c.SelectRegister(1) // coarse
	c.WriteSelected(0)
	c.SelectRegister(7) // mixer: enable tone A, disable everything else
	c.WriteSelected(0b111110)
	c.SelectRegister(8)
	c.WriteSelected(0x0F) // full volume, no envelope

	initial := c.toneState[0]
	for i := 0; i < 64; i++ {
		c.Step(4)
	}
	if c.toneState[0] == initial {
		t.Fatalf("expected channel A square wave to have toggled after many AY clocks")
	}
}

func TestAYChipEnvelopeAttackReachesFullLevel(t *testing.T) {
	c := NewAYChip()
	c.SelectRegister(11)
	c.WriteSelected(1) // short envelope period
	c.SelectRegister(12)
	c.WriteSelected(0)
	c.SelectRegister(13)
	c.WriteSelected(0b1100) // continue+attack, no alternate/hold: ramps 0->15 then repeats

	// Envelope period 1: one level step per AY clock.
	for i := 0; i < 15; i++ {
		c.tick()
	}
	if c.envLevel != 15 {
		t.Fatalf("envLevel after 15 AY clocks = %d, want 15", c.envLevel)
	}

	for i := 0; i < 10000; i++ {
		c.Step(4)
	}
	if c.envLevel < 0 || c.envLevel > 15 {
		t.Fatalf("envLevel out of range: %d", c.envLevel)
	}
}
