package mirror

import (
	"net"
	"sync"

	"periscope/hal"
)

// telnetWelcome greets every viewer on connect.
const telnetWelcome = "Serial Logger\r\n\r\n"

// TelnetSink serves the console stream to raw TCP viewers. Every
// connected client receives each finished line; a client too slow to
// keep up is dropped rather than allowed to stall the console.
type TelnetSink struct {
	log hal.Logger
	ln  net.Listener

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	lineBuf
}

// NewTelnetSink starts listening on addr (":24" mimics the classic
// serial-over-telnet port). The accept loop runs until Close.
func NewTelnetSink(addr string, log hal.Logger) (*TelnetSink, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &TelnetSink{
		log:     log,
		ln:      ln,
		conns:   make(map[net.Conn]struct{}),
		lineBuf: lineBuf{buf: make([]byte, 0, 128)},
	}
	go s.acceptLoop()
	return s, nil
}

func (s *TelnetSink) Addr() net.Addr { return s.ln.Addr() }

func (s *TelnetSink) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		if _, err := conn.Write([]byte(telnetWelcome)); err != nil {
			conn.Close()
			continue
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.log.WriteLineString("viewer connected: " + conn.RemoteAddr().String())
		go s.drainClient(conn)
	}
}

// drainClient discards anything the viewer types and notices when the
// connection goes away.
func (s *TelnetSink) drainClient(conn net.Conn) {
	buf := make([]byte, 64)
	for {
		if _, err := conn.Read(buf); err != nil {
			break
		}
	}
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *TelnetSink) WriteChar(b byte) {
	if s.add(b) {
		s.LineBreak()
	}
}

func (s *TelnetSink) LineBreak() {
	line := append(s.take(), '\r', '\n')

	s.mu.Lock()
	var dead []net.Conn
	for conn := range s.conns {
		if _, err := conn.Write(line); err != nil {
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		delete(s.conns, conn)
		conn.Close()
	}
	s.mu.Unlock()
}

func (s *TelnetSink) Close() {
	s.ln.Close()
	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = map[net.Conn]struct{}{}
	s.mu.Unlock()
}
