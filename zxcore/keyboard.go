// Keyboard matrix and joystick mapping: routes host key/joystick events
// to the 8x5 ZX Spectrum matrix and the 5-bit Kempston register.
package zxcore

// Scancode values the core understands. A host driver translates its own
// key events (e.g. ebiten key codes) into these before calling
// Keyboard.KeyEvent; the core never depends on a particular windowing
// toolkit's key constants.
const (
	KeyCapsShift uint16 = iota
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	Key1
	Key2
	Key3
	Key4
	Key5
	Key0
	Key9
	Key8
	Key7
	Key6
	KeyP
	KeyO
	KeyI
	KeyU
	KeyY
	KeyEnter
	KeyL
	KeyK
	KeyJ
	KeyH
	KeySpace
	KeySymShift
	KeyM
	KeyN
	KeyB
)

// matrixPos maps each scancode above to (row, column), following the
// physical ZX Spectrum keyboard layout.
var matrixPos = [40][2]int{
	KeyCapsShift: {0, 0}, KeyZ: {0, 1}, KeyX: {0, 2}, KeyC: {0, 3}, KeyV: {0, 4},
	KeyA: {1, 0}, KeyS: {1, 1}, KeyD: {1, 2}, KeyF: {1, 3}, KeyG: {1, 4},
	KeyQ: {2, 0}, KeyW: {2, 1}, KeyE: {2, 2}, KeyR: {2, 3}, KeyT: {2, 4},
	Key1: {3, 0}, Key2: {3, 1}, Key3: {3, 2}, Key4: {3, 3}, Key5: {3, 4},
	Key0: {4, 0}, Key9: {4, 1}, Key8: {4, 2}, Key7: {4, 3}, Key6: {4, 4},
	KeyP: {5, 0}, KeyO: {5, 1}, KeyI: {5, 2}, KeyU: {5, 3}, KeyY: {5, 4},
	KeyEnter: {6, 0}, KeyL: {6, 1}, KeyK: {6, 2}, KeyJ: {6, 3}, KeyH: {6, 4},
	KeySpace: {7, 0}, KeySymShift: {7, 1}, KeyM: {7, 2}, KeyN: {7, 3}, KeyB: {7, 4},
}

// JoystickScheme selects how joystick axes/fire map onto the matrix or
// the Kempston register.
type JoystickScheme int

const (
	JoystickCursor JoystickScheme = iota
	JoystickSinclairP1
	JoystickSinclairP2
	JoystickKempston
)

// joystickMatrixKey gives the scancode each non-Kempston scheme maps a
// direction/fire to, taken directly from the numeric-key convention of
// the Cursor/Sinclair joystick interfaces (digits 0-9 on the matrix).
var joystickMatrixKey = map[JoystickScheme][5]uint16{
	JoystickCursor:      {Key5, Key8, Key7, Key6, Key0},
	JoystickSinclairP1:  {Key6, Key7, Key9, Key8, Key0},
	JoystickSinclairP2:  {Key1, Key2, Key4, Key3, Key5},
}

const (
	jsLeft = iota
	jsRight
	jsUp
	jsDown
	jsFire
)

// Kempston bit positions, active-high.
const (
	kempstonRight = 1 << 0
	kempstonLeft  = 1 << 1
	kempstonDown  = 1 << 2
	kempstonUp    = 1 << 3
	kempstonFire  = 1 << 4
)

// Keyboard holds the 8-row ZX matrix (active-low) and the Kempston
// register (active-high), plus the currently selected joystick scheme.
type Keyboard struct {
	matrix   [8]uint8 // bit N = 0 means column N pressed
	kempston uint8

	scheme JoystickScheme
}

// NewKeyboard returns a keyboard with every row idle (all bits set) and
// the Cursor joystick scheme selected.
func NewKeyboard() *Keyboard {
	k := &Keyboard{scheme: JoystickCursor}
	for i := range k.matrix {
		k.matrix[i] = 0xFF
	}
	return k
}

// SetScheme changes the active joystick mapping scheme.
func (k *Keyboard) SetScheme(s JoystickScheme) { k.scheme = s }

// KeyEvent applies a host key press/release to the matrix. Scancodes
// outside the known table are ignored.
func (k *Keyboard) KeyEvent(ev KeyEvent) {
	if int(ev.Scancode) >= len(matrixPos) {
		return
	}
	pos := matrixPos[ev.Scancode]
	row, col := pos[0], pos[1]
	if ev.Released {
		k.matrix[row] |= 1 << col
	} else {
		k.matrix[row] &^= 1 << col
	}
}

// MatrixRow returns the active-low state of matrix row i (bit N = 0
// means the key in column N is held).
func (k *Keyboard) MatrixRow(i int) uint8 { return k.matrix[i] }

// Kempston returns the active-high 5-bit Kempston register.
func (k *Keyboard) Kempston() uint8 { return k.kempston }

// JoystickEvent applies a thresholded joystick reading according to the
// active scheme, routing it either to the Kempston register or to the
// matrix cells the scheme's digit keys occupy.
func (k *Keyboard) JoystickEvent(ev JoystickEvent) {
	const threshold = 0.5

	left := ev.LX < -threshold
	right := ev.LX > threshold
	up := ev.LY > threshold
	down := ev.LY < -threshold
	fire := ev.Buttons != 0

	if k.scheme == JoystickKempston {
		var v uint8
		if left {
			v |= kempstonLeft
		}
		if right {
			v |= kempstonRight
		}
		if up {
			v |= kempstonUp
		}
		if down {
			v |= kempstonDown
		}
		if fire {
			v |= kempstonFire
		}
		k.kempston = v
		return
	}

	keys := joystickMatrixKey[k.scheme]
	k.setDirection(keys[jsLeft], left)
	k.setDirection(keys[jsRight], right)
	k.setDirection(keys[jsUp], up)
	k.setDirection(keys[jsDown], down)
	k.setDirection(keys[jsFire], fire)
}

func (k *Keyboard) setDirection(scancode uint16, pressed bool) {
	k.KeyEvent(KeyEvent{Scancode: scancode, Released: !pressed})
}
