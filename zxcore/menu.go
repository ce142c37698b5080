// Menu state machine: the small interactive TUI for load/save/poke/
// snapshot/autostart, driven by the same KeyEvent stream as the
// emulated keyboard. Entering the menu suspends the CPU loop; leaving it
// resumes the loop and forces a full screen redraw.
package zxcore

// MenuState identifies the current top-level or transient menu screen.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuMain
	MenuJoystick
	MenuLoad
	MenuPoke
	MenuSave
	MenuSnapshot
	MenuAutostart
	MenuFileChooser
	MenuFilenameInput
)

// Menu tracks the top-level entry, any transient sub-state, and the
// SAVE recording toggle. It does not itself draw anything; a host
// driver renders MenuState plus Menu's exported fields into the display
// region or a side panel.
type Menu struct {
	state           MenuState
	recordingActive bool
	selected        int
	filename        string
}

// NewMenu returns a menu in the closed (idle) state.
func NewMenu() *Menu { return &Menu{state: MenuClosed} }

// State returns the current menu state.
func (m *Menu) State() MenuState { return m.state }

// IsOpen reports whether the menu currently suspends the CPU loop.
func (m *Menu) IsOpen() bool { return m.state != MenuClosed }

// Open transitions from idle to the main menu.
func (m *Menu) Open() { m.state = MenuMain }

// Enter moves from the main menu into one of its top-level entries.
func (m *Menu) Enter(entry MenuState) {
	if m.state != MenuMain {
		return
	}
	switch entry {
	case MenuJoystick, MenuLoad, MenuPoke, MenuSave, MenuSnapshot, MenuAutostart:
		m.state = entry
	}
}

// ToggleRecording flips SAVE between START and STOP. Only meaningful
// while in the SAVE sub-state.
func (m *Menu) ToggleRecording() {
	if m.state == MenuSave {
		m.recordingActive = !m.recordingActive
	}
}

// RecordingActive reports the SAVE START/STOP gate.
func (m *Menu) RecordingActive() bool { return m.recordingActive }

// Back returns from a top-level entry to the main menu, or from the main
// menu to closed.
func (m *Menu) Back() {
	switch m.state {
	case MenuMain:
		m.state = MenuClosed
	case MenuFileChooser, MenuFilenameInput:
		m.state = MenuLoad
	default:
		if m.state != MenuClosed {
			m.state = MenuMain
		}
	}
}

// Cancel implements ESC: returns to the CPU loop with state unchanged,
// reporting ErrMenuCancelled so the caller knows no selection was made.
func (m *Menu) Cancel() error {
	m.state = MenuClosed
	return ErrMenuCancelled
}
