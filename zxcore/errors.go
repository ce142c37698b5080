package zxcore

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Only ErrBadFile and ErrBadBlock cross the core
// boundary as Go errors; ErrTapeMismatch and ErrTapeChecksum are
// surfaced to the running guest as CF=0 (see TapeHook), never returned
// to the caller, and ErrMenuCancelled is returned only by the menu
// controller's selection calls.
var (
	ErrBadFile       = errors.New("zxcore: bad file")
	ErrBadBlock      = errors.New("zxcore: bad tape block")
	ErrTapeMismatch  = errors.New("zxcore: tape block type mismatch")
	ErrTapeChecksum  = errors.New("zxcore: tape block checksum mismatch")
	ErrUnsupported   = errors.New("zxcore: unsupported")
	ErrMenuCancelled = errors.New("zxcore: menu selection cancelled")
)

func errBadFileF(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrBadFile}, args...)...)
}

func errBadBlockF(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrBadBlock}, args...)...)
}

func errUnsupportedF(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnsupported}, args...)...)
}
