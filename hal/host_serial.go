//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

var errSerialEmpty = errors.New("serial: receive ring empty")

const hostSerialRingSize = 4096

// hostSerial adapts either a real serial port or the simulator's
// keyboard loopback to the non-blocking UART contract. Bytes that arrive
// while the ring is full are dropped, the same silent overrun a hardware
// receive FIFO has.
type hostSerial struct {
	mu   sync.Mutex
	ring [hostSerialRingSize]byte
	head int // next read
	n    int // bytes buffered

	port serial.Port // nil in loopback mode
	baud uint32
}

func newHostSerial(portName string, baud uint32) (*hostSerial, error) {
	s := &hostSerial{baud: baud}
	if portName == "" {
		return s, nil
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: int(baud)})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", portName, err)
	}
	s.port = port
	go s.readLoop()
	return s, nil
}

func (s *hostSerial) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			s.Inject(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// Inject feeds bytes into the receive ring. The simulator window calls
// this with typed characters; the port read loop calls it with real
// UART data.
func (s *hostSerial) Inject(p []byte) {
	s.mu.Lock()
	for _, b := range p {
		if s.n == len(s.ring) {
			break // overrun: drop the rest
		}
		s.ring[(s.head+s.n)%len(s.ring)] = b
		s.n++
	}
	s.mu.Unlock()
}

func (s *hostSerial) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func (s *hostSerial) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == 0 {
		return 0, errSerialEmpty
	}
	b := s.ring[s.head]
	s.head = (s.head + 1) % len(s.ring)
	s.n--
	return b, nil
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.port == nil {
		return len(p), nil
	}
	return s.port.Write(p)
}

func (s *hostSerial) SetBaudRate(baud uint32) error {
	s.mu.Lock()
	s.baud = baud
	port := s.port
	s.mu.Unlock()

	if port == nil {
		return nil
	}
	return port.SetMode(&serial.Mode{BaudRate: int(baud)})
}
