package zxcore

import "io"

// DisplayDriver is the boundary contract a host display backend
// implements. The core never assumes a particular chip or framebuffer
// layout; Screen drives it with zoomed pixel coordinates and RGB565
// colours.
type DisplayDriver interface {
	SetWindow(x0, y0, x1, y1 int)
	WritePixel(rgb565 uint16)
	FillRect(x0, y0, x1, y1 int, rgb565 uint16)
}

// TapeSource is the minimal contract the tape engine needs from a host
// file or in-memory buffer.
type TapeSource interface {
	io.Reader
	io.Seeker
}

// KeyEvent carries one host keyboard transition.
type KeyEvent struct {
	Scancode uint16
	Released bool
}

// JoystickEvent carries one host joystick reading, thresholded and
// mapped to the matrix or Kempston register by Keyboard.JoystickEvent.
type JoystickEvent struct {
	LX, LY, RX, RY float32
	Buttons        uint16
}
