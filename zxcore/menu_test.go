package zxcore

import "testing"

func TestMenuOpenCloseRoundTrip(t *testing.T) {
	m := NewMenu()
	if m.IsOpen() {
		t.Fatalf("new menu should start closed")
	}
	m.Open()
	if !m.IsOpen() || m.State() != MenuMain {
		t.Fatalf("Open: state = %v, want MenuMain", m.State())
	}
	m.Back()
	if m.IsOpen() {
		t.Fatalf("Back from main menu should close it")
	}
}

func TestMenuEnterOnlyFromMain(t *testing.T) {
	m := NewMenu()
	m.Enter(MenuLoad) // not open yet, must be ignored
	if m.State() != MenuClosed {
		t.Fatalf("Enter before Open changed state to %v", m.State())
	}

	m.Open()
	m.Enter(MenuLoad)
	if m.State() != MenuLoad {
		t.Fatalf("Enter(MenuLoad): state = %v, want MenuLoad", m.State())
	}
}

func TestMenuBackFromSubEntryReturnsToMain(t *testing.T) {
	m := NewMenu()
	m.Open()
	m.Enter(MenuSnapshot)
	m.Back()
	if m.State() != MenuMain {
		t.Fatalf("Back from sub-entry: state = %v, want MenuMain", m.State())
	}
}

func TestMenuFileChooserBacksToLoad(t *testing.T) {
	m := NewMenu()
	m.Open()
	m.Enter(MenuLoad)
	m.state = MenuFileChooser // driver-reached sub-state, not entered via Enter
	m.Back()
	if m.State() != MenuLoad {
		t.Fatalf("Back from file chooser: state = %v, want MenuLoad", m.State())
	}
}

func TestMenuToggleRecordingOnlyInSave(t *testing.T) {
	m := NewMenu()
	m.ToggleRecording()
	if m.RecordingActive() {
		t.Fatalf("ToggleRecording outside SAVE state should be a no-op")
	}

	m.Open()
	m.Enter(MenuSave)
	m.ToggleRecording()
	if !m.RecordingActive() {
		t.Fatalf("expected recording active after toggle in SAVE state")
	}
	m.ToggleRecording()
	if m.RecordingActive() {
		t.Fatalf("expected recording inactive after second toggle")
	}
}

func TestMenuCancelReturnsErrAndCloses(t *testing.T) {
	m := NewMenu()
	m.Open()
	m.Enter(MenuPoke)
	err := m.Cancel()
	if err != ErrMenuCancelled {
		t.Fatalf("Cancel error = %v, want ErrMenuCancelled", err)
	}
	if m.IsOpen() {
		t.Fatalf("Cancel should close the menu")
	}
}
