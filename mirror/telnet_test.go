package mirror

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func TestTelnetSinkGreetsAndBroadcasts(t *testing.T) {
	sink, err := NewTelnetSink("127.0.0.1:0", &recordLogger{})
	if err != nil {
		t.Fatalf("NewTelnetSink: %v", err)
	}
	defer sink.Close()

	conn, err := net.Dial("tcp", sink.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	r := bufio.NewReader(conn)
	if line, _ := r.ReadString('\n'); line != "Serial Logger\r\n" {
		t.Fatalf("welcome = %q, want Serial Logger", line)
	}
	r.ReadString('\n') // blank spacer line

	// The accept loop registers the client asynchronously.
	deadline := time.Now().Add(5 * time.Second)
	for {
		sink.mu.Lock()
		n := len(sink.conns)
		sink.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	for _, b := range []byte("boot ok") {
		sink.WriteChar(b)
	}
	sink.LineBreak()

	if line, err := r.ReadString('\n'); err != nil || line != "boot ok\r\n" {
		t.Fatalf("broadcast = %q (err %v), want boot ok", line, err)
	}
}
