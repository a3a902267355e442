package mirror

import (
	"strconv"

	"periscope/hal"
)

// Session is a connection a Supervisor keeps alive.
type Session interface {
	Connected() bool
	Connect() error
}

// Defaults mirror the firmware's historical behavior: ten failed
// attempts five seconds apart, then give up and reboot.
const (
	DefaultMaxAttempts = 10
	DefaultRetryTicks  = 5000
)

// Supervisor retries a session's Connect on a tick schedule. After
// MaxAttempts consecutive failures it calls Restart exactly once and
// stops trying; a successful connect resets the attempt count.
type Supervisor struct {
	name string
	sess Session
	log  hal.Logger

	MaxAttempts int
	RetryTicks  uint64
	Restart     func()

	attempts  int
	lastTry   uint64
	tried     bool
	exhausted bool
}

func NewSupervisor(name string, sess Session, log hal.Logger, restart func()) *Supervisor {
	return &Supervisor{
		name:        name,
		sess:        sess,
		log:         log,
		MaxAttempts: DefaultMaxAttempts,
		RetryTicks:  DefaultRetryTicks,
		Restart:     restart,
	}
}

// Maintain is called from the control loop with the current tick. It
// never blocks longer than one connect attempt.
func (s *Supervisor) Maintain(now uint64) {
	if s.sess.Connected() {
		s.attempts = 0
		return
	}
	if s.exhausted {
		return
	}
	if s.tried && now-s.lastTry < s.RetryTicks {
		return
	}
	s.tried = true
	s.lastTry = now
	s.attempts++

	err := s.sess.Connect()
	if err == nil {
		s.log.WriteLineString(s.name + ": connected")
		s.attempts = 0
		return
	}

	s.log.WriteLineString(s.name + ": connect attempt " +
		strconv.Itoa(s.attempts) + "/" + strconv.Itoa(s.MaxAttempts) +
		" failed: " + err.Error())
	if s.attempts >= s.MaxAttempts {
		s.exhausted = true
		s.log.WriteLineString(s.name + ": giving up, restarting")
		s.Restart()
	}
}
