// Package term implements the console's scroll-buffer and line-wrap
// engine: it decides where each incoming byte is drawn, when to wrap or
// scroll, and how orientation and font changes reflow the addressable
// text region.
package term

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"periscope/hal"
)

// Orientation selects the panel rotation and with it the scroll
// strategy: Portrait has the controller's vertical-scroll addressing,
// Landscape falls back to a software-assisted shift.
type Orientation uint8

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) Rotation() drivers.Rotation {
	if o == Landscape {
		return drivers.Rotation90
	}
	return drivers.Rotation0
}

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// Native panel dimensions (portrait addressing).
const (
	PanelWidth  = 320
	PanelHeight = 480
)

// DisplayMode is the addressable text window for an orientation.
type DisplayMode struct {
	Orientation Orientation
	Width       int16
	Height      int16
}

// ModeFor returns the window dimensions for an orientation.
func ModeFor(o Orientation) DisplayMode {
	if o == Landscape {
		return DisplayMode{Orientation: o, Width: PanelHeight, Height: PanelWidth}
	}
	return DisplayMode{Orientation: o, Width: PanelWidth, Height: PanelHeight}
}

// DefaultRightMargin is the wrap threshold: a line wraps once the cursor
// is within this many pixels of the right edge. The margin is evaluated
// after the previous glyph's width was added, so wrap can trigger a few
// pixels early.
const DefaultRightMargin = 10

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{A: 255}
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
)

// Terminal is the display context: scroll state, active mode and font,
// drawing onto a Panel. All mutation happens from the console's single
// control loop.
type Terminal struct {
	panel hal.Panel
	mode  DisplayMode
	font  FontProfile

	fg color.RGBA
	bg color.RGBA

	cursorX   int16 // pixel offset of the next glyph
	cursorY   int16 // top of the current line
	scrollTop int16 // logical top of the scrollable window

	// RightMargin is the configurable wrap threshold in pixels.
	RightMargin int16
}

// New returns a Terminal drawing on panel. Reconfigure must be called
// before the first Advance.
func New(panel hal.Panel) *Terminal {
	return &Terminal{
		panel:       panel,
		fg:          White,
		bg:          Black,
		RightMargin: DefaultRightMargin,
	}
}

func (t *Terminal) Mode() DisplayMode     { return t.mode }
func (t *Terminal) Font() FontProfile     { return t.font }
func (t *Terminal) CursorX() int16        { return t.cursorX }
func (t *Terminal) CursorY() int16        { return t.cursorY }
func (t *Terminal) ScrollTop() int16      { return t.scrollTop }
func (t *Terminal) SetColor(c color.RGBA) { t.fg = c }

// HardwareScroll reports whether wraps use the controller's scroll ring
// (one pointer write per line). Landscape cannot; it shoves pixel-wise.
func (t *Terminal) HardwareScroll() bool { return t.mode.Orientation == Portrait }

// Reconfigure applies a font and display mode and resets the scroll
// state: cursor to the origin, scroll pointer to the window top, scroll
// window to full screen. Calling it twice with the same arguments is a
// no-op the second time.
func (t *Terminal) Reconfigure(font FontProfile, mode DisplayMode) {
	t.font = font
	t.mode = mode
	t.cursorX = 0
	t.cursorY = 0
	t.scrollTop = 0
	t.fg = White
	t.panel.DefineScrollWindow(0, 0)
	t.panel.SetScrollPointer(0)
}

// Advance places one incoming byte. A carriage return, or a cursor
// within RightMargin of the right edge, wraps the line first. Printable
// ASCII (32..126) is drawn at the cursor and advances it by the glyph's
// rendered width; everything else is consumed without drawing. The
// returned flags tell the relay what to mirror: wrapped means one line
// break, drawn means the byte itself, in that order.
func (t *Terminal) Advance(b byte) (drawn, wrapped bool) {
	if b == '\r' || t.cursorX > t.mode.Width-t.RightMargin {
		t.cursorY = t.WrapLine()
		wrapped = true
	}
	if b >= 32 && b <= 126 {
		r := rune(b)
		tinyfont.DrawChar(t.panel, t.font.Face, t.cursorX, t.cursorY+t.font.LineOffset, r, t.fg)
		_, w := tinyfont.LineWidth(t.font.Face, string(r))
		t.cursorX += int16(w)
		drawn = true
	}
	return drawn, wrapped
}

// WrapLine starts a new line and returns the y coordinate to draw it at.
//
// Portrait relies on the controller's scroll ring: one pointer write per
// wrap, and the screen is cleared only when the ring has used up a full
// revolution. Landscape has no usable hardware scroll, so the pointer is
// stepped pixel-by-pixel (the visible "shove") and only the vacated
// line's rectangle is erased; everything above stays as drawn.
func (t *Terminal) WrapLine() int16 {
	t.cursorX = 0
	h := t.font.LineHeight

	if t.mode.Orientation == Portrait {
		t.scrollTop += h
		if t.scrollTop >= t.mode.Height {
			t.scrollTop = t.font.LineOffset
			t.panel.FillScreen(t.bg)
		}
		t.panel.SetScrollPointer(t.scrollTop)
		return t.scrollTop
	}

	vacated := t.scrollTop
	for i := int16(0); i < h; i++ {
		t.scrollTop++
		if t.scrollTop == t.mode.Height {
			t.scrollTop = t.font.LineOffset
		}
		t.panel.SetScrollPointer(t.scrollTop)
	}
	t.panel.FillRectangle(0, vacated, t.mode.Width, h, t.bg)
	return vacated
}

// Print feeds a string through Advance without mirroring. Used for
// local banners and boot notices.
func (t *Terminal) Print(s string) {
	for i := 0; i < len(s); i++ {
		t.Advance(s[i])
	}
}

// Clear blanks the window and homes the cursor without touching the
// configured mode or font.
func (t *Terminal) Clear() {
	t.panel.FillScreen(t.bg)
	t.cursorX = 0
	t.cursorY = 0
	t.scrollTop = 0
	t.panel.SetScrollPointer(0)
}
