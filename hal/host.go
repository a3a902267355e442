//go:build !tinygo

package hal

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Native panel dimensions (portrait addressing).
const (
	hostPanelWidth  = 320
	hostPanelHeight = 480
)

// Options configure the host HAL.
type Options struct {
	// SerialPort names a real device for the secondary UART. Empty means
	// loopback: characters typed into the simulator window arrive as UART
	// bytes.
	SerialPort string
	Baud       uint32

	// FlashPath overrides the file backing the emulated flash.
	FlashPath string

	// FlapPause replaces the interactive pause switch with a 2s/1s
	// waveform so the headless runner exercises the pause gate.
	FlapPause bool
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	panel  *hostPanel
	touch  *hostTouch
	serial *hostSerial
	pause  GPIOPin
	vpause *virtualPin // nil when FlapPause
	t      *hostTime
	flash  *hostFlash
}

// New returns a host HAL implementation.
func New(opts Options) (HAL, error) {
	if opts.Baud == 0 {
		opts.Baud = 9600
	}
	ser, err := newHostSerial(opts.SerialPort, opts.Baud)
	if err != nil {
		return nil, err
	}

	fb := newHostFramebuffer(hostPanelWidth, hostPanelHeight)
	panel := newHostPanel(fb)

	h := &hostHAL{
		logger: newHostLogger(),
		fb:     fb,
		panel:  panel,
		touch:  &hostTouch{panel: panel},
		serial: ser,
		t:      newHostTime(),
		flash:  newHostFlash(opts.FlashPath),
	}
	if opts.FlapPause {
		h.pause = newSignalPin("PAUSE", 3*time.Second, 2*time.Second)
	} else {
		h.vpause = newVirtualPin("PAUSE", true) // released
		h.pause = h.vpause
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) Panel() Panel   { return h.panel }
func (h *hostHAL) Touch() Touch   { return h.touch }
func (h *hostHAL) Serial() Serial { return h.serial }
func (h *hostHAL) Pause() GPIOPin { return h.pause }
func (h *hostHAL) Time() Time     { return h.t }
func (h *hostHAL) Flash() Flash   { return h.flash }

func (h *hostHAL) Reset() {
	h.logger.WriteLineString("hal: device restart requested")
	os.Exit(2)
}

// hostTouch converts the window's native mouse coordinates into the
// panel's current logical (rotated) coordinate space.
type hostTouch struct {
	mu    sync.Mutex
	panel *hostPanel
	nx    int16
	ny    int16
	down  bool
}

func (t *hostTouch) set(nx, ny int16, down bool) {
	t.mu.Lock()
	t.nx, t.ny, t.down = nx, ny, down
	t.mu.Unlock()
}

func (t *hostTouch) ReadPoint() (int16, int16, bool) {
	t.mu.Lock()
	nx, ny, down := t.nx, t.ny, t.down
	t.mu.Unlock()
	if !down {
		return 0, 0, false
	}
	x, y := t.panel.fromNative(nx, ny)
	return x, y, true
}

type hostLogger struct {
	log zerolog.Logger
}

func newHostLogger() *hostLogger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return &hostLogger{log: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *hostLogger) WriteLineString(s string) {
	l.log.Info().Msg(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.log.Info().Msg(string(b))
}
