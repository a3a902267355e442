package bootcfg

import (
	"errors"
	"fmt"
	"testing"
)

const validDoc = `
[wifi]
ssid = "workbench"
password = "hunter2"

[mqtt]
broker = "tcp://10.0.0.5:1883"
`

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.WiFi.SSID != "workbench" || cfg.WiFi.Password != "hunter2" {
		t.Fatalf("wifi = %+v", cfg.WiFi)
	}
	if cfg.MQTT.ClientID != DefaultClientID {
		t.Fatalf("client_id = %q, want default %q", cfg.MQTT.ClientID, DefaultClientID)
	}
	if cfg.MQTT.Topic != DefaultTopic {
		t.Fatalf("topic = %q, want default %q", cfg.MQTT.Topic, DefaultTopic)
	}
	if cfg.Telnet.Listen != DefaultListen {
		t.Fatalf("listen = %q, want default %q", cfg.Telnet.Listen, DefaultListen)
	}
}

func TestParseRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no ssid", `[mqtt]` + "\n" + `broker = "tcp://b:1883"`},
		{"no broker", `[wifi]` + "\n" + `ssid = "net"`},
		{"empty", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); !errors.Is(err, ErrMissing) {
				t.Fatalf("Parse error = %v, want ErrMissing", err)
			}
		})
	}
}

func TestParseRejectsMalformedTOML(t *testing.T) {
	if _, err := Parse([]byte("not = [toml")); err == nil {
		t.Fatal("Parse accepted malformed document")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	raw, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(raw)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if back != cfg {
		t.Fatalf("round trip changed config:\n got %+v\nwant %+v", back, cfg)
	}
}

// memFlash emulates a NOR region: erase floods 0xFF, writes land as-is.
type memFlash struct {
	data  []byte
	block uint32
}

func newMemFlash(size, block uint32) *memFlash {
	d := make([]byte, size)
	for i := range d {
		d[i] = 0xFF
	}
	return &memFlash{data: d, block: block}
}

func (f *memFlash) SizeBytes() uint32       { return uint32(len(f.data)) }
func (f *memFlash) EraseBlockBytes() uint32 { return f.block }

func (f *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(f.data) {
		return 0, fmt.Errorf("read past end at %#x", off)
	}
	copy(p, f.data[off:])
	return len(p), nil
}

func (f *memFlash) WriteAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(f.data) {
		return 0, fmt.Errorf("write past end at %#x", off)
	}
	copy(f.data[off:], p)
	return len(p), nil
}

func (f *memFlash) Erase(off, size uint32) error {
	if off%f.block != 0 || size%f.block != 0 {
		return fmt.Errorf("unaligned erase %#x+%#x", off, size)
	}
	for i := off; i < off+size; i++ {
		f.data[i] = 0xFF
	}
	return nil
}

func TestFlashRoundTrip(t *testing.T) {
	f := newMemFlash(64*1024, 4096)
	cfg, _ := Parse([]byte(validDoc))

	if err := WriteFlash(f, 0x4000, cfg); err != nil {
		t.Fatalf("WriteFlash: %v", err)
	}
	back, err := ReadFlash(f, 0x4000)
	if err != nil {
		t.Fatalf("ReadFlash: %v", err)
	}
	if back != cfg {
		t.Fatalf("flash round trip changed config:\n got %+v\nwant %+v", back, cfg)
	}
}

func TestReadFlashUnprovisioned(t *testing.T) {
	f := newMemFlash(64*1024, 4096)
	if _, err := ReadFlash(f, 0); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("ReadFlash error = %v, want ErrNoConfig", err)
	}
}

func TestReadFlashCorruptLength(t *testing.T) {
	f := newMemFlash(64*1024, 4096)
	frame, err := EncodeFrame([]byte(validDoc))
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	// A bit flip in the length field must not send the reader off the
	// end of the region.
	frame[4] = 0xFF
	frame[5] = 0xFF
	f.WriteAt(frame, 0)

	if _, err := ReadFlash(f, 0); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("ReadFlash error = %v, want ErrNoConfig", err)
	}
}

func TestWriteFlashRejectsUnalignedOffset(t *testing.T) {
	f := newMemFlash(64*1024, 4096)
	cfg, _ := Parse([]byte(validDoc))
	if err := WriteFlash(f, 100, cfg); err == nil {
		t.Fatal("WriteFlash accepted unaligned offset")
	}
}

func TestEncodeFrameTooLarge(t *testing.T) {
	if _, err := EncodeFrame(make([]byte, MaxPayload+1)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("EncodeFrame error = %v, want ErrTooLarge", err)
	}
}
