//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// uartSerial is the observed UART. The machine driver already keeps a
// receive ring; Buffered/ReadByte expose it without blocking.
type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Buffered() int {
	return s.uart.Buffered()
}

func (s *uartSerial) ReadByte() (byte, error) {
	return s.uart.ReadByte()
}

func (s *uartSerial) Write(p []byte) (int, error) {
	return s.uart.Write(p)
}

func (s *uartSerial) SetBaudRate(baud uint32) error {
	s.uart.SetBaudRate(baud)
	return nil
}

type machinePin struct {
	name string
	pin  machine.Pin
}

func (p *machinePin) Name() string { return p.name }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch {
	case mode == GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case pull == GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case pull == GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	return nil
}

func (p *machinePin) Read() (bool, error) {
	return p.pin.Get(), nil
}

func (p *machinePin) Write(level bool) error {
	p.pin.Set(level)
	return nil
}
