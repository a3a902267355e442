// Package menu implements the touch configuration overlay: a fixed grid
// of buttons for font size, orientation and baud rate, drawn over the
// console until a selection is made or the operator walks away.
package menu

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"periscope/hal"
	"periscope/term"
)

// Action is what a finished menu session asks the reconciler to do.
type Action uint8

const (
	// ActionNone means the menu timed out; nothing changes.
	ActionNone Action = iota
	ActionSetFont
	ActionSetOrientation
	ActionSetBaud
	ActionExit
)

// Selection is the outcome of one menu session. Only the field matching
// Action carries meaning.
type Selection struct {
	Action      Action
	FontID      int
	Orientation term.Orientation
	BaudID      int
}

// TimeoutTicks bounds a whole menu session. The deadline is taken at
// entry; touches do not extend it.
const TimeoutTicks = 10_000

var (
	buttonFill  = color.RGBA{B: 160, A: 255}
	buttonHot   = color.RGBA{R: 160, B: 160, A: 255}
	buttonText  = term.White
	headerText  = term.White
	screenClear = term.Black
)

// Button is one touch target, positioned by its center like the
// classic TFT button helpers.
type Button struct {
	cx, cy int16
	w, h   int16
	label  string
	font   tinyfont.Fonter

	sel Selection

	wasDown bool
}

func (b *Button) contains(x, y int16) bool {
	return x >= b.cx-b.w/2 && x < b.cx+b.w/2 &&
		y >= b.cy-b.h/2 && y < b.cy+b.h/2
}

// update feeds one touch sample through the button's press state and
// reports a fresh press (a touch-down inside the target).
func (b *Button) update(x, y int16, touched bool) bool {
	down := touched && b.contains(x, y)
	pressed := down && !b.wasDown
	b.wasDown = down
	return pressed
}

// Menu owns the overlay session. The panel is always driven in
// landscape while the menu is up, whatever the console orientation.
type Menu struct {
	panel   hal.Panel
	touch   hal.Touch
	ticks   <-chan uint64
	buttons []Button
}

func New(panel hal.Panel, touch hal.Touch, ticks <-chan uint64) *Menu {
	return &Menu{
		panel:   panel,
		touch:   touch,
		ticks:   ticks,
		buttons: layout(),
	}
}

// layout builds the fixed button grid in landscape coordinates
// (480x320). Headers sit above each row; geometry matches the panel
// artwork the operators know.
func layout() []Button {
	fontKey := term.FontByID(2).Face
	baudKey := term.FontByID(1).Face

	return []Button{
		{cx: 70, cy: 70, w: 62, h: 40, label: "1", font: fontKey,
			sel: Selection{Action: ActionSetFont, FontID: 1}},
		{cx: 150, cy: 70, w: 62, h: 40, label: "2", font: fontKey,
			sel: Selection{Action: ActionSetFont, FontID: 2}},
		{cx: 230, cy: 70, w: 62, h: 40, label: "3", font: fontKey,
			sel: Selection{Action: ActionSetFont, FontID: 3}},

		{cx: 130, cy: 155, w: 140, h: 40, label: "landscape", font: fontKey,
			sel: Selection{Action: ActionSetOrientation, Orientation: term.Landscape}},
		{cx: 290, cy: 155, w: 140, h: 40, label: "portrait", font: fontKey,
			sel: Selection{Action: ActionSetOrientation, Orientation: term.Portrait}},

		{cx: 410, cy: 290, w: 120, h: 40, label: "exit", font: fontKey,
			sel: Selection{Action: ActionExit}},

		{cx: 45, cy: 235, w: 65, h: 40, label: "9600", font: baudKey,
			sel: Selection{Action: ActionSetBaud, BaudID: 1}},
		{cx: 116, cy: 235, w: 74, h: 40, label: "19200", font: baudKey,
			sel: Selection{Action: ActionSetBaud, BaudID: 2}},
		{cx: 191, cy: 235, w: 74, h: 40, label: "38400", font: baudKey,
			sel: Selection{Action: ActionSetBaud, BaudID: 3}},
		{cx: 268, cy: 235, w: 74, h: 40, label: "57600", font: baudKey,
			sel: Selection{Action: ActionSetBaud, BaudID: 4}},
		{cx: 343, cy: 235, w: 75, h: 40, label: "115200", font: baudKey,
			sel: Selection{Action: ActionSetBaud, BaudID: 5}},
		{cx: 419, cy: 235, w: 75, h: 40, label: "230400", font: baudKey,
			sel: Selection{Action: ActionSetBaud, BaudID: 6}},
	}
}

func (m *Menu) draw() {
	m.panel.SetRotation(drivers.Rotation90)
	m.panel.SetScrollPointer(0)
	m.panel.FillScreen(screenClear)

	header := term.FontByID(3).Face
	tinyfont.WriteLine(m.panel, header, 50, 35, "fontsize", headerText)
	tinyfont.WriteLine(m.panel, header, 50, 125, "screen orientation", headerText)
	tinyfont.WriteLine(m.panel, header, 50, 205, "serial speed", headerText)

	for i := range m.buttons {
		m.drawButton(&m.buttons[i])
	}
}

func (m *Menu) drawButton(b *Button) {
	m.fillButton(b, buttonFill)
}

func (m *Menu) fillButton(b *Button, fill color.RGBA) {
	m.panel.FillRectangle(b.cx-b.w/2, b.cy-b.h/2, b.w, b.h, fill)

	_, lw := tinyfont.LineWidth(b.font, b.label)
	x := b.cx - int16(lw)/2
	y := b.cy + 5 // approximate baseline centering for the key faces
	tinyfont.WriteLine(m.panel, b.font, x, y, b.label, buttonText)
}

// Run draws the overlay and blocks on the tick stream until a button is
// pressed or the idle countdown expires. The caller restores the panel
// afterwards; Run leaves it in landscape showing the menu.
func (m *Menu) Run() Selection {
	m.draw()
	for i := range m.buttons {
		m.buttons[i].wasDown = false
	}

	// Hard deadline from session entry. Touching does not extend it:
	// the console must resume within the bound even against a stuck or
	// noisy overlay.
	elapsed := uint64(0)
	for range m.ticks {
		x, y, touched := m.touch.ReadPoint()

		for i := range m.buttons {
			if m.buttons[i].update(x, y, touched) {
				// Flash the pressed state so the operator sees the hit
				// before the console repaints over the menu.
				m.fillButton(&m.buttons[i], buttonHot)
				return m.buttons[i].sel
			}
		}

		elapsed++
		if elapsed >= TimeoutTicks {
			return Selection{Action: ActionNone}
		}
	}
	// Tick source gone; treat as timeout.
	return Selection{Action: ActionNone}
}
