// Package app wires the console together and runs its single control
// loop: supervise remote sessions, open the menu on touch, pump the
// relay. Everything below it is driven from that loop, one tick at a
// time.
package app

import (
	"periscope/bootcfg"
	"periscope/hal"
	"periscope/menu"
	"periscope/mirror"
	"periscope/relay"
	"periscope/term"
)

// Config carries what the entrypoints assemble: the parsed boot
// document, the mirror fan-out, and any sessions a Supervisor should
// keep alive.
type Config struct {
	Boot     bootcfg.Config
	Sink     mirror.Sink
	Sessions []SupervisedSession
}

// SupervisedSession names a connection the control loop retries.
type SupervisedSession struct {
	Name    string
	Session mirror.Session
}

// System is the assembled console.
type System struct {
	h    hal.HAL
	trm  *term.Terminal
	rel  *relay.Relay
	mnu  *menu.Menu
	rec  *Reconciler
	sups []*mirror.Supervisor
}

// New assembles the console and starts its control loop.
func New(h hal.HAL, cfg Config) *System {
	sink := cfg.Sink
	if sink == nil {
		sink = mirror.Discard{}
	}

	trm := term.New(h.Panel())
	ticks := h.Time().Ticks()

	s := &System{
		h:   h,
		trm: trm,
		rel: relay.New(h.Serial(), h.Pause(), trm, sink),
		mnu: menu.New(h.Panel(), h.Touch(), ticks),
		rec: NewReconciler(h.Panel(), h.Serial(), trm, h.Logger()),
	}
	for _, ss := range cfg.Sessions {
		s.sups = append(s.sups, mirror.NewSupervisor(ss.Name, ss.Session, h.Logger(), h.Reset))
	}

	go s.loop(ticks)
	return s
}

// Run assembles the console and blocks forever. Device and host
// entrypoints both end here.
func Run(h hal.HAL, cfg Config) {
	New(h, cfg)
	select {}
}

func (s *System) loop(ticks <-chan uint64) {
	s.bootPauseGate(ticks)
	s.rec.Init()

	for seq := range ticks {
		for _, sup := range s.sups {
			sup.Maintain(seq)
		}
		if _, _, touched := s.h.Touch().ReadPoint(); touched {
			s.rec.Apply(s.mnu.Run())
		}
		s.rel.Pump()
	}
}

// bootPauseGate holds startup while the pause switch is asserted. The
// notice uses the largest font so it is readable across the bench; the
// green line confirms release before the console proper appears.
func (s *System) bootPauseGate(ticks <-chan uint64) {
	if !s.rel.Paused() {
		return
	}
	s.h.Logger().WriteLineString("boot held: pause switch asserted")

	big := term.FontByID(4)
	s.h.Panel().SetRotation(term.Portrait.Rotation())
	s.trm.Reconfigure(big, term.ModeFor(term.Portrait))
	s.trm.Clear()
	s.trm.SetColor(term.Red)
	s.trm.Print("ATTENTION:\rPAUSE\rTRIGGERED!\r")

	for range ticks {
		if !s.rel.Paused() {
			break
		}
	}

	s.trm.SetColor(term.Green)
	s.trm.Print("CONTINUE...\r")
	s.h.Logger().WriteLineString("boot resumed: pause switch released")
}
