// Package mirror fans the console's byte stream out to remote viewers.
// Sinks are line oriented: the relay feeds them the same characters it
// draws, and a line break flushes the accumulated line to the transport.
package mirror

import "periscope/hal"

// maxLine caps the per-sink line buffer. Lines beyond the cap are
// flushed early rather than grown.
const maxLine = 512

// Sink receives the mirrored stream. WriteChar is called for every
// byte drawn on the panel, LineBreak for every wrap, in the same order
// the panel saw them.
type Sink interface {
	WriteChar(b byte)
	LineBreak()
}

// lineBuf is the shared accumulation logic for line-oriented sinks.
type lineBuf struct {
	buf []byte
}

func (l *lineBuf) add(b byte) bool {
	l.buf = append(l.buf, b)
	return len(l.buf) >= maxLine
}

func (l *lineBuf) take() []byte {
	line := l.buf
	l.buf = l.buf[:0]
	return line
}

// LoggerSink mirrors the stream onto the diagnostic logger, one logged
// line per console line.
type LoggerSink struct {
	log hal.Logger
	lineBuf
}

func NewLoggerSink(log hal.Logger) *LoggerSink {
	return &LoggerSink{log: log, lineBuf: lineBuf{buf: make([]byte, 0, 128)}}
}

func (s *LoggerSink) WriteChar(b byte) {
	if s.add(b) {
		s.LineBreak()
	}
}

func (s *LoggerSink) LineBreak() {
	s.log.WriteLineBytes(s.take())
}

// Multi fans out to several sinks in order.
type Multi []Sink

func (m Multi) WriteChar(b byte) {
	for _, s := range m {
		s.WriteChar(b)
	}
}

func (m Multi) LineBreak() {
	for _, s := range m {
		s.LineBreak()
	}
}

// Discard drops the stream. Used when no remote viewer is configured.
type Discard struct{}

func (Discard) WriteChar(byte) {}
func (Discard) LineBreak()     {}
