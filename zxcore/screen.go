// Screen engine: translates the 6912-byte pixel/attribute region into a
// 256x192 framebuffer and emits only the cells that changed since the
// previous frame. Address geometry and colour table are grounded on the
// non-linear ZX Spectrum bitmap addressing scheme.
package zxcore

// Screen image geometry, unchanged from the real ZX Spectrum ULA.
const (
	ScreenWidth  = 256
	ScreenHeight = 192
	ScreenCellsX = 32
	ScreenCellsY = 24

	bitmapSize = 6144
	attrOffset = 0x1800
	attrSize   = 768

	// ScreenBytes is the size of the logical pixel+attribute region that
	// the screen engine reads each frame, regardless of which physical
	// RAM bank currently hosts it.
	ScreenBytes = bitmapSize + attrSize

	// flashFrames is the number of 50 Hz frames between FLASH phase
	// toggles.
	flashFrames = 16

	// Border geometry, unchanged from the real ZX Spectrum ULA: 32
	// pixels of border on each side of the 256x192 display area.
	BorderWidth  = 32
	FrameWidth   = ScreenWidth + 2*BorderWidth
	FrameHeight  = ScreenHeight + 2*BorderWidth
)

// paletteRGB565 holds the 16-colour palette (0-7 normal, 8-15 bright) in
// the RGB565 format DisplayDriver consumes.
var paletteRGB565 = [16]uint16{
	rgb565(0, 0, 0), rgb565(0, 0, 205), rgb565(205, 0, 0), rgb565(205, 0, 205),
	rgb565(0, 205, 0), rgb565(0, 205, 205), rgb565(205, 205, 0), rgb565(205, 205, 205),
	rgb565(0, 0, 0), rgb565(0, 0, 255), rgb565(255, 0, 0), rgb565(255, 0, 255),
	rgb565(0, 255, 0), rgb565(0, 255, 255), rgb565(255, 255, 0), rgb565(255, 255, 255),
}

func rgb565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}

// cellAddr precomputes, for each (row, column-byte) pair, the bitmap
// offset into the 6144-byte pixel region using the Spectrum's
// non-linear Y addressing: offset = ((y&0xC0)<<5) + ((y&0x07)<<8) + ((y&0x38)<<2) + x.
func cellAddr(row, colByte int) int {
	highY := (row & 0xC0) << 5
	lowY := (row & 0x07) << 8
	midY := (row & 0x38) << 2
	return highY + lowY + midY + colByte
}

// Screen holds the differential rendering state: the shadow copies of the
// pixel and attribute bytes from the previous frame, plus FLASH phase and
// border tracking.
type Screen struct {
	driver DisplayDriver
	zoom   int

	rowOffset [ScreenHeight]int // precomputed cellAddr(row, 0) per display row

	shadowPixels [bitmapSize]byte
	shadowAttrs  [attrSize]byte

	flashPhase    bool
	flashCounter  int
	flashJustFlip bool

	border     uint8
	haveBorder bool

	forceRedraw bool
}

// NewScreen builds a screen engine that renders through driver, zoomed by
// the given integer factor (1 = 1:1 pixel mapping).
func NewScreen(driver DisplayDriver, zoom int) *Screen {
	if zoom < 1 {
		zoom = 1
	}
	s := &Screen{driver: driver, zoom: zoom, forceRedraw: true}
	for row := 0; row < ScreenHeight; row++ {
		s.rowOffset[row] = cellAddr(row, 0)
	}
	return s
}

// ForceRedraw marks every cell and the border as needing a repaint on the
// next Update call, regardless of shadow state. Used on reset and on
// menu exit.
func (s *Screen) ForceRedraw() {
	s.forceRedraw = true
}

// Tick advances the 50 Hz frame counter by one frame, toggling the FLASH
// phase every 16 frames. Returns true if the phase just flipped.
func (s *Screen) Tick() bool {
	s.flashCounter++
	if s.flashCounter >= flashFrames {
		s.flashCounter = 0
		s.flashPhase = !s.flashPhase
		s.flashJustFlip = true
		return true
	}
	s.flashJustFlip = false
	return false
}

// Update runs the differential diff algorithm over vram (6912 bytes:
// pixel area then attribute area), redrawing only cells whose pixel byte
// or FLASH-relevant attribute changed since the last call, plus the
// border when its colour changed. changed is the address space's
// screen-dirty flag, cleared by the caller after this call returns.
func (s *Screen) Update(vram *[ScreenBytes]byte, border uint8, changed bool) {
	borderChanged := s.forceRedraw || !s.haveBorder || border != s.border
	if borderChanged {
		s.paintBorder(border)
		s.border = border
		s.haveBorder = true
	}

	if !changed && !s.flashJustFlip && !s.forceRedraw {
		return
	}

	pixels := vram[:bitmapSize]
	attrs := vram[bitmapSize:ScreenBytes]

	for row := 0; row < ScreenHeight; row++ {
		rowBase := s.rowOffset[row]
		cellY := row >> 3
		attrRowBase := cellY * ScreenCellsX
		y := (BorderWidth + row) * s.zoom

		for cellX := 0; cellX < ScreenCellsX; cellX++ {
			pixAddr := rowBase + cellX
			attrAddr := attrRowBase + cellX

			pix := pixels[pixAddr]
			attr := attrs[attrAddr]

			flash := attr&0x80 != 0
			sameShadow := pix == s.shadowPixels[pixAddr] && attr == s.shadowAttrs[attrAddr]
			if !s.forceRedraw && sameShadow && (!s.flashJustFlip || !flash) {
				s.shadowPixels[pixAddr] = pix
				continue
			}

			ink := attr & 0x07
			paper := (attr >> 3) & 0x07
			if flash && s.flashPhase {
				ink, paper = paper, ink
			}
			if attr&0x40 != 0 {
				ink += 8
				paper += 8
			}

			x := (BorderWidth + cellX*8) * s.zoom
			s.emitCell(x, y, pix, paletteRGB565[ink], paletteRGB565[paper])
			s.shadowPixels[pixAddr] = pix
		}
	}

	copy(s.shadowAttrs[:], attrs)
	s.forceRedraw = false
}

// paintBorder redraws the four border strips around the display area.
func (s *Screen) paintBorder(border uint8) {
	col := paletteRGB565[border&0x07]
	z := s.zoom
	fw, fh := FrameWidth*z, FrameHeight*z
	top := BorderWidth * z
	left := BorderWidth * z
	right := (BorderWidth + ScreenWidth) * z
	bottom := (BorderWidth + ScreenHeight) * z

	s.driver.FillRect(0, 0, fw-1, top-1, col)            // top strip
	s.driver.FillRect(0, bottom, fw-1, fh-1, col)         // bottom strip
	s.driver.FillRect(0, top, left-1, bottom-1, col)      // left strip
	s.driver.FillRect(right, top, fw-1, bottom-1, col)    // right strip
}

// emitCell draws one 8-pixel cell at (x,y), zoomed. A solid 0x00 or 0xFF
// byte short-circuits to a single filled rectangle.
func (s *Screen) emitCell(x, y int, pix byte, ink, paper uint16) {
	if pix == 0x00 {
		s.driver.FillRect(x, y, x+8*s.zoom-1, y+s.zoom-1, paper)
		return
	}
	if pix == 0xFF {
		s.driver.FillRect(x, y, x+8*s.zoom-1, y+s.zoom-1, ink)
		return
	}

	s.driver.SetWindow(x, y, x+8*s.zoom-1, y+s.zoom-1)
	for bit := 7; bit >= 0; bit-- {
		col := ink
		if (pix>>bit)&1 == 0 {
			col = paper
		}
		for zx := 0; zx < s.zoom; zx++ {
			for zy := 0; zy < s.zoom; zy++ {
				s.driver.WritePixel(col)
			}
		}
	}
}
