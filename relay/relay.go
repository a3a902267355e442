// Package relay moves bytes from the observed serial port onto the
// panel and out to the mirror sinks. It is the only reader of the
// receive buffer and runs entirely inside the control loop.
package relay

import (
	"periscope/hal"
	"periscope/mirror"
	"periscope/term"
)

// Relay couples the serial source to the terminal and the mirror. The
// pause pin gates everything: while it reads low the stream is drained
// and discarded, so a stalled display never backs up the port.
type Relay struct {
	serial hal.Serial
	pause  hal.GPIOPin
	term   *term.Terminal
	sink   mirror.Sink
}

func New(serial hal.Serial, pause hal.GPIOPin, t *term.Terminal, sink mirror.Sink) *Relay {
	return &Relay{serial: serial, pause: pause, term: t, sink: sink}
}

// Paused reports the pause gate's level. Low means paused; a pin read
// failure counts as running so a broken switch cannot blank the console.
func (r *Relay) Paused() bool {
	level, err := r.pause.Read()
	if err != nil {
		return false
	}
	return !level
}

// Pump drains every byte currently buffered and returns how many it
// consumed. The mirror sees exactly what the panel saw: a line break
// for each wrap, then the byte that was drawn, in that order.
func (r *Relay) Pump() int {
	n := 0
	for r.serial.Buffered() > 0 {
		b, err := r.serial.ReadByte()
		if err != nil {
			break
		}
		n++
		if r.Paused() {
			continue
		}
		drawn, wrapped := r.term.Advance(b)
		if wrapped {
			r.sink.LineBreak()
		}
		if drawn {
			r.sink.WriteChar(b)
		}
	}
	return n
}
