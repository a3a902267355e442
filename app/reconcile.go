package app

import (
	"fmt"

	"periscope/hal"
	"periscope/menu"
	"periscope/term"
)

// UartProfile is one selectable baud rate. IDs match the menu's key
// order.
type UartProfile struct {
	ID   int
	Baud uint32
}

var UartProfiles = [6]UartProfile{
	{ID: 1, Baud: 9600},
	{ID: 2, Baud: 19200},
	{ID: 3, Baud: 38400},
	{ID: 4, Baud: 57600},
	{ID: 5, Baud: 115200},
	{ID: 6, Baud: 230400},
}

// BaudByID resolves a profile id. Out-of-range ids fall back to the
// common default.
func BaudByID(id int) uint32 {
	for _, p := range UartProfiles {
		if p.ID == id {
			return p.Baud
		}
	}
	return 115200
}

// Boot-time defaults before the operator touches anything.
const (
	defaultFontID = 1
	defaultBaudID = 1
)

// Reconciler owns the console's desired configuration and applies menu
// selections to the hardware. Only the parts a selection actually
// changed are touched; the panel is always repainted afterwards since
// the menu drew over it.
type Reconciler struct {
	panel  hal.Panel
	serial hal.Serial
	trm    *term.Terminal
	log    hal.Logger

	orientation term.Orientation
	fontID      int
	baudID      int
}

func NewReconciler(panel hal.Panel, serial hal.Serial, trm *term.Terminal, log hal.Logger) *Reconciler {
	return &Reconciler{
		panel:       panel,
		serial:      serial,
		trm:         trm,
		log:         log,
		orientation: term.Portrait,
		fontID:      defaultFontID,
		baudID:      defaultBaudID,
	}
}

func (r *Reconciler) Orientation() term.Orientation { return r.orientation }
func (r *Reconciler) FontID() int                   { return r.fontID }
func (r *Reconciler) BaudID() int                   { return r.baudID }

// Init pushes the boot defaults to the hardware and paints the banner.
func (r *Reconciler) Init() {
	if err := r.serial.SetBaudRate(BaudByID(r.baudID)); err != nil {
		r.log.WriteLineString("uart: set baud: " + err.Error())
	}
	r.restore()
}

// Apply folds one finished menu session into the configuration. Baud
// changes reprogram the UART only when the rate actually differs;
// orientation and font changes take effect through the repaint.
func (r *Reconciler) Apply(sel menu.Selection) {
	switch sel.Action {
	case menu.ActionSetFont:
		r.fontID = sel.FontID
	case menu.ActionSetOrientation:
		r.orientation = sel.Orientation
	case menu.ActionSetBaud:
		if sel.BaudID != r.baudID {
			r.baudID = sel.BaudID
			if err := r.serial.SetBaudRate(BaudByID(r.baudID)); err != nil {
				r.log.WriteLineString("uart: set baud: " + err.Error())
			}
		}
	}
	r.restore()
}

// restore rebuilds the console view from the current configuration:
// rotation, scroll state, a clean screen and the local banner. The
// banner is not mirrored.
func (r *Reconciler) restore() {
	r.panel.SetRotation(r.orientation.Rotation())
	r.trm.Reconfigure(term.FontByID(r.fontID), term.ModeFor(r.orientation))
	r.trm.Clear()
	r.trm.Print(banner(BaudByID(r.baudID)))
}

func banner(baud uint32) string {
	return fmt.Sprintf("ready...%d baud\r", baud)
}
