package zxcore

import "github.com/steccy-go/steccy/zxcore/tape"

// LDBytesEntry48K and LDBytesEntry128K are the well-known entry points
// of the ROM's LD-BYTES routine for the two ROM variants. Both 48K and
// 128K editor ROMs place it at the same address.
const (
	LDBytesEntry48K  = 0x0556
	LDBytesEntry128K = 0x0556
)

// TapeHook intercepts the ROM's LD-BYTES routine when the CPU is about
// to execute its entry address, substituting a byte stream from the
// loaded tape for the analogue-timing load loop the ROM would otherwise
// run.
type TapeHook struct {
	enabled bool
	entry   uint16
	tp      *tape.Tape
}

// NewTapeHook returns a disabled hook watching the given ROM entry
// address.
func NewTapeHook(entry uint16) *TapeHook {
	return &TapeHook{entry: entry}
}

// SetEnabled toggles whether the hook fires at all.
func (h *TapeHook) SetEnabled(v bool) { h.enabled = v }

// Enabled reports whether the hook is armed.
func (h *TapeHook) Enabled() bool { return h.enabled }

// LoadTape attaches a parsed tape for the hook to stream from,
// discarding any previous one.
func (h *TapeHook) LoadTape(t *tape.Tape) { h.tp = t }

// TryIntercept fires the hook if cpu.PC is exactly the watched entry
// address, the hook is enabled, and a tape is loaded. It returns true
// when it handled the call (the CPU should not fetch/execute normally
// this step); false means every precondition should fall through to
// normal execution with no state mutated.
//
// The incoming carry flag selects the routine's two modes, per the ROM
// convention the caller already set up: CF=1 is LOAD (bytes are copied
// into the destination buffer), CF=0 is VERIFY (bytes are compared
// against the buffer's current contents and never written).
func (h *TapeHook) TryIntercept(cpu *CPU) bool {
	if !h.enabled || h.tp == nil || cpu.PC != h.entry {
		return false
	}

	block, ok := h.tp.Peek()
	if !ok {
		// Tape exhausted: behave as if the analogue load timed out.
		h.finish(cpu, false)
		return true
	}

	verify := cpu.F&z80FlagC == 0
	expectedType := cpu.A2
	destAddr := cpu.IX
	count := cpu.DE()

	if len(block.Payload) == 0 {
		return false
	}
	if block.Payload[0] != expectedType {
		h.tp.Next() // consume the mismatched block; the guest gets CF=0
		h.finish(cpu, false)
		return true
	}

	// The type byte is checked and checksummed but never stored; the
	// destination receives the bytes that follow it.
	data := block.Payload[1:]
	n := count
	if int(n) > len(data) {
		n = uint16(len(data))
	}

	checksum := block.Payload[0]
	mismatch := false
	for i := uint16(0); i < n; i++ {
		v := data[i]
		checksum ^= v
		if verify {
			if cpu.read(destAddr+i) != v {
				mismatch = true
			}
		} else {
			cpu.write(destAddr+i, v)
		}
	}
	// XOR in every remaining payload byte (including the trailing
	// checksum byte) even if it didn't fit in the destination buffer,
	// matching the real ROM's behaviour of always consuming the full
	// block regardless of DE.
	for i := n; i < uint16(len(data)); i++ {
		checksum ^= data[i]
	}

	h.tp.Next()

	success := n == count && checksum == 0 && !mismatch
	h.finish(cpu, success)
	return true
}

// finish pops the caller's return address, jumps to it, and sets the
// carry flag per the ROM routine's documented success/failure contract.
func (h *TapeHook) finish(cpu *CPU, success bool) {
	cpu.PC = cpu.popWord()
	if success {
		cpu.F |= z80FlagC
	} else {
		cpu.F &^= z80FlagC
	}
}
