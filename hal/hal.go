package hal

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited diagnostic lines.
//
// This is the firmware's own chatter (boot, connectivity, halts), not the
// mirrored console stream.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Panel is the drawable display surface plus the two controller features
// the console depends on: rotation and the vertical scroll window.
//
// Size, SetPixel and Display satisfy the drivers.Displayer contract, so
// tinyfont can render glyphs directly onto a Panel.
type Panel interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
	FillScreen(c color.RGBA)
	SetRotation(rotation drivers.Rotation) error
	Rotation() drivers.Rotation

	// DefineScrollWindow programs the vertical scroll region by its fixed
	// (non-scrolling) top and bottom heights, in native panel rows. Zero
	// sizes make the whole panel scrollable.
	DefineScrollWindow(topFixed, bottomFixed int16)

	// SetScrollPointer selects which memory row the controller shows at
	// the top of the scroll region.
	SetScrollPointer(line int16)
}

// Serial is the secondary UART under observation.
//
// Reads never block: Buffered reports what has already arrived and
// ReadByte pops one byte of it. Bytes that arrive while the receive ring
// is full are lost; the UART has no flow control.
type Serial interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
	SetBaudRate(baud uint32) error
}

// Touch reports the most recent touch sample in the coordinate space of
// the panel's current rotation.
type Touch interface {
	ReadPoint() (x, y int16, touched bool)
}

// Time provides a base tick stream. One tick is one millisecond; the
// sequence number is monotonic and survives wall-clock adjustments.
type Time interface {
	Ticks() <-chan uint64
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// HAL provides the only contact point between the console and the
// outside world.
type HAL interface {
	Logger() Logger
	Panel() Panel
	Touch() Touch
	Serial() Serial

	// Pause returns the pause switch input. Held low = paused.
	Pause() GPIOPin

	Time() Time
	Flash() Flash

	// Reset performs a full device restart. It does not return.
	Reset()
}
