package zxcore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/steccy-go/steccy/zxcore/tape"
)

// KeyMenuToggle is a host-assigned scancode outside the matrix table
// (0x0000-0x0027) reserved for opening/closing the on-screen menu. It is
// never looked up in matrixPos; Machine intercepts it before the event
// reaches the keyboard.
const KeyMenuToggle uint16 = 0xFFFF

// T-state counts for one 50 Hz video frame, used to pace the interrupt
// and screen-update cadence. 128K machines run a handful of extra
// T-states per line to accommodate the extra contended memory cycle.
const (
	tstatesPerFrame48K  = 69888
	tstatesPerFrame128K = 70908
)

// Config describes everything NewMachine needs to assemble a runnable
// machine. It is a plain value, loaded by the caller (flags, env, a
// config file); the core package itself never reads the environment.
type Config struct {
	Model          Model
	ROMPaths       []string
	Joystick       JoystickScheme
	ROMHookEnable  bool
	EventQueueSize int
	Driver         DisplayDriver
	Logger         *slog.Logger
}

func (c *Config) romSize() int {
	if c.Model == Model128K {
		return 2 * bankSize
	}
	return bankSize
}

func (c *Config) ldBytesEntry() uint16 {
	if c.Model == Model128K {
		return LDBytesEntry128K
	}
	return LDBytesEntry48K
}

// busAdapter satisfies Z80Bus by routing memory accesses to the address
// space and port accesses to the I/O fabric, keeping the CPU ignorant of
// either's internals.
type busAdapter struct {
	addr *AddressSpace
	io   *IOFabric
}

func (b *busAdapter) Read(addr uint16) byte     { return b.addr.Read8(addr) }
func (b *busAdapter) Write(addr uint16, v byte) { b.addr.Write8(addr, v) }
func (b *busAdapter) In(port uint16) byte       { return b.io.In(port) }
func (b *busAdapter) Out(port uint16, v byte)   { b.io.Out(port, v) }
func (b *busAdapter) Tick(cycles int)           {}

// Machine wires the address space, I/O fabric, CPU, tape hook, screen
// engine, input/menu controller and (on 128K) the AY chip into one
// cooperative run loop.
type Machine struct {
	cfg Config
	log *slog.Logger

	addr   *AddressSpace
	kbd    *Keyboard
	io     *IOFabric
	bus    *busAdapter
	cpu    *CPU
	hook   *TapeHook
	screen *Screen
	menu   *Menu
	ay     *AYChip

	tstatesPerFrame int
	frameAccum      int

	// queueMu guards keyQueue/joyQueue: a host driver typically queues
	// events from its own input-polling goroutine while Run steps the
	// machine on another, the same producer/consumer split the teacher
	// guards with EbitenOutput's bufferMutex.
	queueMu  sync.Mutex
	keyQueue []KeyEvent
	joyQueue []JoystickEvent
}

// NewMachine validates cfg, loads the ROM image(s), and returns a
// ready-to-step machine. ROM paths must exist and together supply exactly
// one 16 KiB bank (48K) or two (128K), as separate files or concatenated.
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if cfg.Driver == nil {
		return nil, fmt.Errorf("%w: Config.Driver is required", ErrUnsupported)
	}

	romImages, err := loadROMImages(&cfg)
	if err != nil {
		return nil, err
	}

	addrSpace, err := NewAddressSpace(cfg.Model, romImages)
	if err != nil {
		return nil, err
	}

	kbd := NewKeyboard()
	kbd.SetScheme(cfg.Joystick)

	var ay *AYChip
	if cfg.Model == Model128K {
		ay = NewAYChip()
	}

	io := NewIOFabric(addrSpace, kbd, ay)
	bus := &busAdapter{addr: addrSpace, io: io}
	cpu := NewCPU(bus)

	hook := NewTapeHook(cfg.ldBytesEntry())
	hook.SetEnabled(cfg.ROMHookEnable)

	queueSize := cfg.EventQueueSize
	if queueSize <= 0 {
		queueSize = 16
	}

	tpf := tstatesPerFrame48K
	if cfg.Model == Model128K {
		tpf = tstatesPerFrame128K
	}

	m := &Machine{
		cfg:             cfg,
		log:             cfg.Logger,
		addr:            addrSpace,
		kbd:             kbd,
		io:              io,
		bus:             bus,
		cpu:             cpu,
		hook:            hook,
		screen:          NewScreen(cfg.Driver, 1),
		menu:            NewMenu(),
		ay:              ay,
		tstatesPerFrame: tpf,
		keyQueue:        make([]KeyEvent, 0, queueSize),
		joyQueue:        make([]JoystickEvent, 0, queueSize),
	}
	m.screen.ForceRedraw()
	return m, nil
}

// loadROMImages reads every configured ROM path, each of which must be
// either exactly one 16 KiB bank or a multiple of bankSize (a single
// file carrying every bank concatenated), and returns one []byte per
// bank in load order. The total across all paths must equal the
// model's ROM size.
func loadROMImages(cfg *Config) ([][]byte, error) {
	if len(cfg.ROMPaths) == 0 {
		return nil, fmt.Errorf("%w: no ROM paths configured", ErrBadFile)
	}
	var banks [][]byte
	for _, path := range cfg.ROMPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading ROM %q: %v", ErrBadFile, path, err)
		}
		if len(data) == 0 || len(data)%bankSize != 0 {
			return nil, fmt.Errorf("%w: ROM %q is %d bytes, not a multiple of %d", ErrBadFile, path, len(data), bankSize)
		}
		for off := 0; off < len(data); off += bankSize {
			banks = append(banks, data[off:off+bankSize])
		}
	}
	want := cfg.romSize() / bankSize
	if len(banks) != want {
		return nil, fmt.Errorf("%w: ROM paths supplied %d bank(s), want %d", ErrBadFile, len(banks), want)
	}
	return banks, nil
}

// QueueKeyEvent enqueues a keyboard/menu event for the next Step call to
// drain. Safe to call concurrently with Run/Step from another goroutine
// (e.g. a display driver's own input-polling callback).
func (m *Machine) QueueKeyEvent(ev KeyEvent) {
	m.queueMu.Lock()
	m.keyQueue = append(m.keyQueue, ev)
	m.queueMu.Unlock()
}

// QueueJoystickEvent enqueues an analogue/digital joystick update. Safe
// to call concurrently with Run/Step.
func (m *Machine) QueueJoystickEvent(ev JoystickEvent) {
	m.queueMu.Lock()
	m.joyQueue = append(m.joyQueue, ev)
	m.queueMu.Unlock()
}

func (m *Machine) drainEvents() {
	m.queueMu.Lock()
	keys := m.keyQueue
	m.keyQueue = nil
	joys := m.joyQueue
	m.joyQueue = nil
	m.queueMu.Unlock()

	for _, ev := range keys {
		if ev.Scancode == KeyMenuToggle && !ev.Released {
			wasOpen := m.menu.IsOpen()
			if wasOpen {
				m.menu.Back()
			} else {
				m.menu.Open()
			}
			if wasOpen && !m.menu.IsOpen() {
				m.screen.ForceRedraw()
			}
			continue
		}
		if m.menu.IsOpen() {
			continue
		}
		m.kbd.KeyEvent(ev)
	}

	for _, ev := range joys {
		m.kbd.JoystickEvent(ev)
	}
}

// LoadTape parses r as a .tap or .tzx stream and arms the ROM hook with
// it. Any previously loaded tape is discarded.
func (m *Machine) LoadTape(r tape.Source) error {
	t, err := tape.Load(r)
	if err != nil {
		return err
	}
	m.hook.LoadTape(t)
	return nil
}

// LoadSnapshot parses r as a .z80 snapshot, restores every register and
// copies each decompressed page into its target slot/bank, and resumes
// execution at the snapshot's saved PC.
func (m *Machine) LoadSnapshot(r io.Reader) error {
	snap, err := tape.LoadZ80(r)
	if err != nil {
		return err
	}

	regs := snap.Regs
	c := m.cpu
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = regs.A, regs.F, regs.B, regs.C, regs.D, regs.E, regs.H, regs.L
	c.A2, c.F2, c.B2, c.C2, c.D2, c.E2, c.H2, c.L2 = regs.A2, regs.F2, regs.B2, regs.C2, regs.D2, regs.E2, regs.H2, regs.L2
	c.IX, c.IY = regs.IX, regs.IY
	c.I, c.R = regs.I, regs.R
	c.IFF1, c.IFF2 = regs.IFF1, regs.IFF2
	c.IM = regs.IM
	c.PC, c.SP = regs.PC, regs.SP

	for id, data := range snap.Pages {
		slot, bank, is128K, ok := snap.PageTarget(id)
		if !ok {
			continue
		}
		if is128K {
			m.addr.loadRAMBank(bank, data)
		} else {
			m.addr.loadSlotRAM(slot, data)
		}
	}

	m.io.SetBorder(regs.Border)
	m.screen.ForceRedraw()
	return nil
}

// Step advances the machine by exactly one Z80 instruction (or one
// ROM-hook fast-path block transfer), draining any queued input first.
// It returns the number of T-states the step consumed.
func (m *Machine) Step() (int, error) {
	m.drainEvents()

	if m.menu.IsOpen() {
		return 0, nil
	}

	before := m.cpu.Cycles
	if !m.hook.TryIntercept(m.cpu) {
		m.cpu.Step()
	}
	tstates := int(m.cpu.Cycles - before)

	if m.ay != nil {
		m.ay.Step(tstates)
	}

	m.frameAccum += tstates
	if m.frameAccum >= m.tstatesPerFrame {
		m.frameAccum -= m.tstatesPerFrame
		m.endFrame()
	}

	return tstates, nil
}

// endFrame asserts the 50 Hz maskable interrupt for one instruction's
// worth of gating and repaints the screen from the current VRAM image.
func (m *Machine) endFrame() {
	before := m.cpu.Cycles
	m.cpu.SetIRQLine(true)
	m.cpu.Step()
	m.cpu.SetIRQLine(false)
	m.frameAccum += int(m.cpu.Cycles - before)

	flipped := m.screen.Tick()
	changed := m.addr.VideoRAMChanged() || flipped
	var img [ScreenBytes]byte
	m.addr.ScreenImage(&img)
	m.screen.Update(&img, m.io.Border(), changed)
}

// Run steps the machine until ctx is cancelled. Cancellation is the only
// suspension point: nothing else pauses the cooperative loop.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := m.Step(); err != nil {
			return err
		}
	}
}

// CPU exposes the underlying Z80 core for debugging/inspection tools.
func (m *Machine) CPU() *CPU { return m.cpu }

// Menu exposes the menu state machine so a host UI can render it.
func (m *Machine) Menu() *Menu { return m.menu }

// AudioSample returns the AY chip's most recently mixed output sample,
// or 0 on a 48K machine where no AY chip exists.
func (m *Machine) AudioSample() int16 {
	if m.ay == nil {
		return 0
	}
	return m.ay.Sample()
}
