package menu

import (
	"image/color"
	"math/rand"
	"testing"

	"tinygo.org/x/drivers"

	"periscope/term"
)

type menuPanel struct {
	rot drivers.Rotation
}

func (p *menuPanel) Size() (int16, int16) {
	if p.rot == drivers.Rotation90 || p.rot == drivers.Rotation270 {
		return term.PanelHeight, term.PanelWidth
	}
	return term.PanelWidth, term.PanelHeight
}
func (p *menuPanel) SetPixel(x, y int16, c color.RGBA)                  {}
func (p *menuPanel) Display() error                                     { return nil }
func (p *menuPanel) FillRectangle(x, y, w, h int16, c color.RGBA) error { return nil }
func (p *menuPanel) FillScreen(c color.RGBA)                            {}
func (p *menuPanel) SetRotation(rot drivers.Rotation) error             { p.rot = rot; return nil }
func (p *menuPanel) Rotation() drivers.Rotation                         { return p.rot }
func (p *menuPanel) DefineScrollWindow(top, bottom int16)               {}
func (p *menuPanel) SetScrollPointer(line int16)                        {}

// scriptedTouch replays a fixed sequence of samples, then reports
// no touch forever.
type scriptedTouch struct {
	samples [][3]int16 // x, y, touched(1/0)
	i       int
}

func (s *scriptedTouch) ReadPoint() (int16, int16, bool) {
	if s.i >= len(s.samples) {
		return 0, 0, false
	}
	p := s.samples[s.i]
	s.i++
	return p[0], p[1], p[2] == 1
}

func runMenu(touch *scriptedTouch, nticks int) Selection {
	ticks := make(chan uint64, nticks)
	for i := 0; i < nticks; i++ {
		ticks <- uint64(i)
	}
	close(ticks)

	m := New(&menuPanel{}, touch, ticks)
	return m.Run()
}

func TestButtonsNeverOverlap(t *testing.T) {
	buttons := layout()
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 1000; trial++ {
		x := int16(rng.Intn(term.PanelHeight)) // landscape: 480 wide
		y := int16(rng.Intn(term.PanelWidth))  // 320 tall

		hits := 0
		for i := range buttons {
			if buttons[i].contains(x, y) {
				hits++
			}
		}
		if hits > 1 {
			t.Fatalf("point (%d,%d) inside %d buttons", x, y, hits)
		}
	}
}

func TestRandomTracesResolveOneDimension(t *testing.T) {
	buttons := layout()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 1000; trial++ {
		x := int16(rng.Intn(term.PanelHeight))
		y := int16(rng.Intn(term.PanelWidth))

		for i := range buttons {
			if !buttons[i].contains(x, y) {
				continue
			}
			sel := buttons[i].sel
			switch sel.Action {
			case ActionSetFont:
				if sel.FontID < 1 || sel.FontID > 3 || sel.BaudID != 0 {
					t.Fatalf("font selection leaks other dimensions: %+v", sel)
				}
			case ActionSetOrientation:
				if sel.FontID != 0 || sel.BaudID != 0 {
					t.Fatalf("orientation selection leaks other dimensions: %+v", sel)
				}
			case ActionSetBaud:
				if sel.BaudID < 1 || sel.BaudID > 6 || sel.FontID != 0 {
					t.Fatalf("baud selection leaks other dimensions: %+v", sel)
				}
			case ActionExit:
				if sel.FontID != 0 || sel.BaudID != 0 {
					t.Fatalf("exit selection leaks other dimensions: %+v", sel)
				}
			default:
				t.Fatalf("button resolved to %v", sel.Action)
			}
		}
	}
}

func TestRandomSessionsResolveOneDimension(t *testing.T) {
	buttons := layout()
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 1000; trial++ {
		x := int16(rng.Intn(term.PanelHeight))
		y := int16(rng.Intn(term.PanelWidth))

		wantHit := false
		for i := range buttons {
			if buttons[i].contains(x, y) {
				wantHit = true
			}
		}

		budget := 4
		if !wantHit {
			budget = TimeoutTicks
		}
		ticks := make(chan uint64, budget)
		for i := 0; i < budget; i++ {
			ticks <- uint64(i)
		}
		close(ticks)

		sel := New(&menuPanel{}, &heldTouch{x: x, y: y}, ticks).Run()

		if !wantHit {
			if sel.Action != ActionNone {
				t.Fatalf("miss at (%d,%d) resolved to %+v", x, y, sel)
			}
			continue
		}
		switch sel.Action {
		case ActionSetFont:
			if sel.FontID < 1 || sel.FontID > 3 || sel.BaudID != 0 {
				t.Fatalf("font selection leaks other dimensions: %+v", sel)
			}
		case ActionSetOrientation:
			if sel.FontID != 0 || sel.BaudID != 0 {
				t.Fatalf("orientation selection leaks other dimensions: %+v", sel)
			}
		case ActionSetBaud:
			if sel.BaudID < 1 || sel.BaudID > 6 || sel.FontID != 0 {
				t.Fatalf("baud selection leaks other dimensions: %+v", sel)
			}
		case ActionExit:
			if sel.FontID != 0 || sel.BaudID != 0 {
				t.Fatalf("exit selection leaks other dimensions: %+v", sel)
			}
		default:
			t.Fatalf("hit at (%d,%d) returned %v, want a resolution", x, y, sel.Action)
		}
	}
}

func TestTimeoutReturnsNone(t *testing.T) {
	sel := runMenu(&scriptedTouch{}, TimeoutTicks+1)
	if sel.Action != ActionNone {
		t.Fatalf("Action = %v, want ActionNone on timeout", sel.Action)
	}
}

// heldTouch reports a finger planted at one point forever.
type heldTouch struct {
	x, y int16
}

func (h *heldTouch) ReadPoint() (int16, int16, bool) { return h.x, h.y, true }

func TestHeldOffButtonTouchStillTimesOut(t *testing.T) {
	// A finger parked between buttons must not keep the console
	// suspended past the session bound.
	budget := 3 * TimeoutTicks
	ticks := make(chan uint64, budget)
	for i := 0; i < budget; i++ {
		ticks <- uint64(i)
	}
	close(ticks)

	m := New(&menuPanel{}, &heldTouch{x: 5, y: 5}, ticks)
	if sel := m.Run(); sel.Action != ActionNone {
		t.Fatalf("Action = %v, want ActionNone", sel.Action)
	}
	if got := budget - len(ticks); got != TimeoutTicks {
		t.Fatalf("session consumed %d ticks, want exactly %d", got, TimeoutTicks)
	}
}

func TestMidSessionTouchDoesNotExtendDeadline(t *testing.T) {
	// An off-button tap halfway through changes nothing: the deadline
	// was fixed at entry.
	touch := &scriptedTouch{samples: make([][3]int16, TimeoutTicks/2+1)}
	touch.samples[TimeoutTicks/2] = [3]int16{5, 5, 1}

	budget := 2 * TimeoutTicks
	ticks := make(chan uint64, budget)
	for i := 0; i < budget; i++ {
		ticks <- uint64(i)
	}
	close(ticks)

	m := New(&menuPanel{}, touch, ticks)
	if sel := m.Run(); sel.Action != ActionNone {
		t.Fatalf("Action = %v, want ActionNone", sel.Action)
	}
	if got := budget - len(ticks); got != TimeoutTicks {
		t.Fatalf("session consumed %d ticks, want exactly %d", got, TimeoutTicks)
	}
}

func TestLandscapeButtonSelectsOrientation(t *testing.T) {
	touch := &scriptedTouch{samples: [][3]int16{{130, 155, 1}}}
	sel := runMenu(touch, 10)

	if sel.Action != ActionSetOrientation {
		t.Fatalf("Action = %v, want ActionSetOrientation", sel.Action)
	}
	if sel.Orientation != term.Landscape {
		t.Fatalf("Orientation = %v, want Landscape", sel.Orientation)
	}
}

func TestFontAndBaudButtons(t *testing.T) {
	cases := []struct {
		name string
		x, y int16
		want Selection
	}{
		{"font 1", 70, 70, Selection{Action: ActionSetFont, FontID: 1}},
		{"font 3", 230, 70, Selection{Action: ActionSetFont, FontID: 3}},
		{"portrait", 290, 155, Selection{Action: ActionSetOrientation, Orientation: term.Portrait}},
		{"exit", 410, 290, Selection{Action: ActionExit}},
		{"9600", 45, 235, Selection{Action: ActionSetBaud, BaudID: 1}},
		{"230400", 419, 235, Selection{Action: ActionSetBaud, BaudID: 6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			touch := &scriptedTouch{samples: [][3]int16{{tc.x, tc.y, 1}}}
			if got := runMenu(touch, 10); got != tc.want {
				t.Fatalf("Selection = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestHeldFingerFiresOnce(t *testing.T) {
	// The same press held across many samples must not re-trigger.
	b := layout()[0]
	fired := 0
	for i := 0; i < 50; i++ {
		if b.update(70, 70, true) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1 for a held press", fired)
	}

	// Release and press again: one more.
	b.update(0, 0, false)
	if !b.update(70, 70, true) {
		t.Fatal("second press after release not detected")
	}
}

func TestMenuDrawsInLandscape(t *testing.T) {
	p := &menuPanel{}
	touch := &scriptedTouch{samples: [][3]int16{{410, 290, 1}}}

	ticks := make(chan uint64, 4)
	for i := 0; i < 4; i++ {
		ticks <- uint64(i)
	}
	close(ticks)

	New(p, touch, ticks).Run()
	if p.rot != drivers.Rotation90 {
		t.Fatalf("rotation = %v, want Rotation90 while menu shown", p.rot)
	}
}
