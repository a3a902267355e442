package app

import (
	"errors"
	"image/color"
	"testing"

	"tinygo.org/x/drivers"

	"periscope/menu"
	"periscope/term"
)

type fakePanel struct {
	rot drivers.Rotation
}

func (p *fakePanel) Size() (int16, int16) {
	if p.rot == drivers.Rotation90 || p.rot == drivers.Rotation270 {
		return term.PanelHeight, term.PanelWidth
	}
	return term.PanelWidth, term.PanelHeight
}
func (p *fakePanel) SetPixel(x, y int16, c color.RGBA)                  {}
func (p *fakePanel) Display() error                                     { return nil }
func (p *fakePanel) FillRectangle(x, y, w, h int16, c color.RGBA) error { return nil }
func (p *fakePanel) FillScreen(c color.RGBA)                            {}
func (p *fakePanel) SetRotation(rot drivers.Rotation) error             { p.rot = rot; return nil }
func (p *fakePanel) Rotation() drivers.Rotation                         { return p.rot }
func (p *fakePanel) DefineScrollWindow(top, bottom int16)               {}
func (p *fakePanel) SetScrollPointer(line int16)                        {}

type baudSerial struct {
	rates []uint32
	err   error
}

func (s *baudSerial) Buffered() int               { return 0 }
func (s *baudSerial) ReadByte() (byte, error)     { return 0, errors.New("empty") }
func (s *baudSerial) Write(p []byte) (int, error) { return len(p), nil }

func (s *baudSerial) SetBaudRate(baud uint32) error {
	s.rates = append(s.rates, baud)
	return s.err
}

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}
func (nopLogger) WriteLineBytes([]byte)  {}

func newTestReconciler() (*Reconciler, *fakePanel, *baudSerial, *term.Terminal) {
	p := &fakePanel{}
	s := &baudSerial{}
	trm := term.New(p)
	r := NewReconciler(p, s, trm, nopLogger{})
	return r, p, s, trm
}

func TestInitAppliesBootDefaults(t *testing.T) {
	r, p, s, trm := newTestReconciler()
	r.Init()

	if len(s.rates) != 1 || s.rates[0] != 9600 {
		t.Fatalf("baud calls = %v, want [9600]", s.rates)
	}
	if p.rot != drivers.Rotation0 {
		t.Fatalf("rotation = %v, want Rotation0 (portrait)", p.rot)
	}
	if m := trm.Mode(); m.Width != 320 || m.Height != 480 {
		t.Fatalf("mode = %dx%d, want 320x480", m.Width, m.Height)
	}
	if trm.Font().ID != 1 {
		t.Fatalf("font = %d, want 1", trm.Font().ID)
	}
	if !trm.HardwareScroll() {
		t.Fatal("portrait console should use hardware scroll")
	}
}

func TestApplyOrientationSwapsMode(t *testing.T) {
	r, p, _, trm := newTestReconciler()
	r.Init()

	r.Apply(menu.Selection{Action: menu.ActionSetOrientation, Orientation: term.Landscape})

	if p.rot != drivers.Rotation90 {
		t.Fatalf("rotation = %v, want Rotation90", p.rot)
	}
	if m := trm.Mode(); m.Width != 480 || m.Height != 320 {
		t.Fatalf("mode = %dx%d, want 480x320", m.Width, m.Height)
	}
	if r.Orientation() != term.Landscape {
		t.Fatalf("Orientation() = %v, want Landscape", r.Orientation())
	}
	if trm.HardwareScroll() {
		t.Fatal("landscape console still claims hardware scroll")
	}
}

func TestApplyBaudOnlyOnChange(t *testing.T) {
	r, _, s, _ := newTestReconciler()
	r.Init()
	s.rates = nil

	r.Apply(menu.Selection{Action: menu.ActionSetBaud, BaudID: 5})
	if len(s.rates) != 1 || s.rates[0] != 115200 {
		t.Fatalf("baud calls = %v, want [115200]", s.rates)
	}

	// Re-selecting the active rate must not reprogram the UART.
	r.Apply(menu.Selection{Action: menu.ActionSetBaud, BaudID: 5})
	if len(s.rates) != 1 {
		t.Fatalf("baud calls = %v, want no new call", s.rates)
	}
}

func TestApplyExitOnlyRepaints(t *testing.T) {
	r, _, s, trm := newTestReconciler()
	r.Init()
	s.rates = nil
	fontBefore := trm.Font().ID

	r.Apply(menu.Selection{Action: menu.ActionExit})

	if len(s.rates) != 0 {
		t.Fatalf("baud calls = %v, want none for exit", s.rates)
	}
	if trm.Font().ID != fontBefore {
		t.Fatalf("font changed on exit: %d -> %d", fontBefore, trm.Font().ID)
	}
	// The repaint leaves the cursor at the start of the line after the
	// banner.
	if trm.CursorX() != 0 {
		t.Fatalf("cursorX = %d, want 0 after repaint", trm.CursorX())
	}
	if trm.ScrollTop() != trm.Font().LineHeight {
		t.Fatalf("scrollTop = %d, want one banner line (%d)", trm.ScrollTop(), trm.Font().LineHeight)
	}
}

func TestApplyFontChange(t *testing.T) {
	r, _, _, trm := newTestReconciler()
	r.Init()

	r.Apply(menu.Selection{Action: menu.ActionSetFont, FontID: 3})
	if trm.Font().ID != 3 {
		t.Fatalf("font = %d, want 3", trm.Font().ID)
	}
	if r.FontID() != 3 {
		t.Fatalf("FontID() = %d, want 3", r.FontID())
	}
}

func TestBannerText(t *testing.T) {
	if got := banner(9600); got != "ready...9600 baud\r" {
		t.Fatalf("banner(9600) = %q, want %q", got, "ready...9600 baud\r")
	}
}

func TestBaudByIDFallback(t *testing.T) {
	if got := BaudByID(0); got != 115200 {
		t.Fatalf("BaudByID(0) = %d, want 115200 fallback", got)
	}
	if got := BaudByID(6); got != 230400 {
		t.Fatalf("BaudByID(6) = %d, want 230400", got)
	}
}
