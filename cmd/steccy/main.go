// cmd/steccy is the optional desktop driver: it wires an ebiten window
// and an oto audio sink to the zxcore emulation core and loads a
// .tap/.tzx/.z80 file given on the command line. The core package itself
// has no dependency on either library; both are glue code that lives
// here, same as the teacher keeps its GUI/audio backends out of its CPU
// and bus packages.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/steccy-go/steccy/zxcore"
)

func boilerPlate() {
	fmt.Println("steccy - a ZX Spectrum 48K/128K emulation core")
	fmt.Println("Usage: steccy [-128k] [-rom path[,path]] <tape-or-snapshot>")
}

func main() {
	if len(os.Args) < 2 {
		boilerPlate()
		os.Exit(1)
	}

	model := zxcore.Model48K
	romPaths := []string{"48.rom"}
	var mediaPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-128k":
			model = zxcore.Model128K
			romPaths = []string{"128-0.rom", "128-1.rom"}
		case "-rom":
			i++
			if i >= len(args) {
				fmt.Println("Error: -rom requires a path argument")
				os.Exit(1)
			}
			romPaths = splitCommaList(args[i])
		default:
			mediaPath = args[i]
		}
	}

	if mediaPath == "" {
		boilerPlate()
		os.Exit(1)
	}

	driver := newEbitenDriver()

	cfg := zxcore.Config{
		Model:         model,
		ROMPaths:      romPaths,
		Joystick:      zxcore.JoystickKempston,
		ROMHookEnable: true,
		Driver:        driver,
		Logger:        slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	machine, err := zxcore.NewMachine(cfg)
	if err != nil {
		fmt.Printf("Failed to initialise machine: %v\n", err)
		os.Exit(1)
	}

	if err := loadMedia(machine, mediaPath); err != nil {
		fmt.Printf("Failed to load %q: %v\n", mediaPath, err)
		os.Exit(1)
	}

	sink, err := newOtoSink(machine)
	if err != nil {
		fmt.Printf("Failed to initialise audio: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()
	sink.Start()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := machine.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Printf("Machine run loop stopped: %v\n", err)
		}
	}()
	defer cancel()

	driver.keyHandler = func(ev zxcore.KeyEvent) { machine.QueueKeyEvent(ev) }

	ebiten.SetWindowSize(driver.width*driver.scale, driver.height*driver.scale)
	ebiten.SetWindowTitle("steccy")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(driver); err != nil && err != errWindowClosed {
		fmt.Printf("Display error: %v\n", err)
		os.Exit(1)
	}
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func loadMedia(m *zxcore.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if isZ80Snapshot(path) {
		return m.LoadSnapshot(f)
	}
	return m.LoadTape(f)
}

func isZ80Snapshot(path string) bool {
	n := len(path)
	return n >= 4 && (path[n-4:] == ".z80" || path[n-4:] == ".Z80")
}

// newOtoSink opens the default audio device at a fixed sample rate and
// streams AYChip.Sample() into it, matching the teacher's OtoPlayer
// setup in audio_backend_oto.go (mono, float32 PCM, small buffer).
func newOtoSink(m *zxcore.Machine) (*otoSink, error) {
	const sampleRate = 44100
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	s := &otoSink{machine: m}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

type otoSink struct {
	machine *zxcore.Machine
	player  *oto.Player
}

// Read implements io.Reader for oto.Player: each call fills p with the
// AY chip's current mixed sample, repeated to fill the requested buffer.
// The chip is only present on 128K machines; on 48K this streams silence,
// since Machine.AudioSample returns 0 when no AY chip exists.
func (s *otoSink) Read(p []byte) (int, error) {
	sample := float32(s.machine.AudioSample()) / 32768.0
	bits := math.Float32bits(sample)
	for i := 0; i+4 <= len(p); i += 4 {
		binary.LittleEndian.PutUint32(p[i:i+4], bits)
	}
	return len(p), nil
}

func (s *otoSink) Start() { s.player.Play() }
func (s *otoSink) Close() { s.player.Close() }

var errWindowClosed = fmt.Errorf("window closed")

// ebitenDriver implements zxcore.DisplayDriver by rasterizing into an
// RGBA framebuffer that Draw blits once per ebiten frame, following the
// teacher's EbitenOutput buffer-and-blit pattern in
// video_backend_ebiten.go.
type ebitenDriver struct {
	width, height int
	scale         int
	fb            []byte
	window        *ebiten.Image

	winX0, winY0, winX1, winY1 int
	cursor                     int

	keyHandler func(zxcore.KeyEvent)

	// bufferMutex guards fb: Screen.Update calls SetWindow/WritePixel/
	// FillRect from the Machine.Run goroutine while Draw reads fb on
	// ebiten's own goroutine, same split the teacher guards in
	// EbitenOutput's bufferMutex.
	bufferMutex sync.RWMutex
}

func newEbitenDriver() *ebitenDriver {
	const w, h = zxcore.FrameWidth, zxcore.FrameHeight
	return &ebitenDriver{
		width:  w,
		height: h,
		scale:  2,
		fb:     make([]byte, w*h*4),
	}
}

func (d *ebitenDriver) SetWindow(x0, y0, x1, y1 int) {
	d.bufferMutex.Lock()
	defer d.bufferMutex.Unlock()
	d.winX0, d.winY0, d.winX1, d.winY1 = x0, y0, x1, y1
	d.cursor = y0*d.width + x0
}

func (d *ebitenDriver) WritePixel(rgb565 uint16) {
	d.bufferMutex.Lock()
	defer d.bufferMutex.Unlock()
	x := d.cursor % d.width
	y := d.cursor / d.width
	if x > d.winX1 {
		x = d.winX0
		y++
	}
	d.putPixel(x, y, rgb565)
	d.cursor = y*d.width + x + 1
}

func (d *ebitenDriver) FillRect(x0, y0, x1, y1 int, rgb565 uint16) {
	d.bufferMutex.Lock()
	defer d.bufferMutex.Unlock()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d.putPixel(x, y, rgb565)
		}
	}
}

// putPixel assumes bufferMutex is already held by the caller.
func (d *ebitenDriver) putPixel(x, y int, rgb565 uint16) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	r := byte((rgb565>>11)&0x1F) << 3
	g := byte((rgb565>>5)&0x3F) << 2
	b := byte(rgb565&0x1F) << 3
	off := (y*d.width + x) * 4
	d.fb[off], d.fb[off+1], d.fb[off+2], d.fb[off+3] = r, g, b, 0xFF
}

func (d *ebitenDriver) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return errWindowClosed
	}
	for _, code := range scancodeTable {
		if inpututil.IsKeyJustPressed(code.key) && d.keyHandler != nil {
			d.keyHandler(zxcore.KeyEvent{Scancode: code.scancode})
		}
		if inpututil.IsKeyJustReleased(code.key) && d.keyHandler != nil {
			d.keyHandler(zxcore.KeyEvent{Scancode: code.scancode, Released: true})
		}
	}
	return nil
}

func (d *ebitenDriver) Draw(screen *ebiten.Image) {
	if d.window == nil {
		d.window = ebiten.NewImage(d.width, d.height)
	}
	d.bufferMutex.RLock()
	d.window.WritePixels(d.fb)
	d.bufferMutex.RUnlock()
	screen.DrawImage(d.window, nil)
}

func (d *ebitenDriver) Layout(_, _ int) (int, int) { return d.width, d.height }

// scancodeTable maps a handful of host keys to zxcore scancodes; a full
// desktop driver would cover the whole matrix, but this demonstrates the
// wiring contract end to end.
var scancodeTable = []struct {
	key      ebiten.Key
	scancode uint16
}{
	{ebiten.KeyA, zxcore.KeyA}, {ebiten.KeyS, zxcore.KeyS}, {ebiten.KeyD, zxcore.KeyD},
	{ebiten.KeyQ, zxcore.KeyQ}, {ebiten.KeyW, zxcore.KeyW}, {ebiten.KeyE, zxcore.KeyE},
	{ebiten.KeyEnter, zxcore.KeyEnter}, {ebiten.KeySpace, zxcore.KeySpace},
	{ebiten.KeyShift, zxcore.KeyCapsShift},
	{ebiten.KeyEscape, zxcore.KeyMenuToggle},
}
