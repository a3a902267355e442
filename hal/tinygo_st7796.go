//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers"
)

const (
	st7796Width  = 320 // native (portrait) addressing
	st7796Height = 480
)

// st7796 drives the 320x480 panel over SPI at register level. MADCTL
// handles rotation, the vertical-scroll registers back the console's
// hardware scrolling.
type st7796 struct {
	spi *machine.SPI
	cs  machine.Pin
	dc  machine.Pin
	rst machine.Pin

	rot   drivers.Rotation
	txBuf []byte
}

func initST7796(spi *machine.SPI, cs, dc, rst machine.Pin) *st7796 {
	d := &st7796{
		spi:   spi,
		cs:    cs,
		dc:    dc,
		rst:   rst,
		rot:   drivers.Rotation0,
		txBuf: make([]byte, 4096),
	}

	d.cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.dc.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.rst.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.cs.High()
	d.dc.High()
	d.rst.High()

	d.reset()
	d.init()
	return d
}

func (d *st7796) reset() {
	d.rst.Low()
	time.Sleep(64 * time.Millisecond)
	d.rst.High()
	time.Sleep(140 * time.Millisecond)
}

func (d *st7796) init() {
	// Unlock command set 2.
	d.cmd(0xF0, 0xC3) // CSCON part 1
	d.cmd(0xF0, 0x96) // CSCON part 2

	// Pixel format: 16bpp.
	d.cmd(0x3A, 0x55) // COLMOD

	// Display function control (source/gate scan directions).
	d.cmd(0xB6, 0x80, 0x02, 0x3B) // DFC

	// Many panels look correct with inversion enabled.
	d.cmd(0x21) // INVON

	d.cmd(0x36, st7796Madctl(drivers.Rotation0)) // MADCTL

	// Relock command set 2.
	d.cmd(0xF0, 0x3C)
	d.cmd(0xF0, 0x69)

	d.cmd(0x11) // SLPOUT
	time.Sleep(120 * time.Millisecond)
	d.cmd(0x29) // DISPON
}

func st7796Madctl(rot drivers.Rotation) byte {
	const (
		madMY  = 0x80
		madMX  = 0x40
		madMV  = 0x20
		madBGR = 0x08
	)
	switch rot {
	case drivers.Rotation90:
		return madMV | madBGR
	case drivers.Rotation180:
		return madMY | madBGR
	case drivers.Rotation270:
		return madMX | madMY | madMV | madBGR
	default:
		return madMX | madBGR
	}
}

func (d *st7796) cmd(cmd byte, data ...byte) {
	d.cs.Low()
	d.dc.Low()
	d.spi.Tx([]byte{cmd}, nil)
	d.dc.High()
	if len(data) > 0 {
		d.spi.Tx(data, nil)
	}
	d.cs.High()
}

func (d *st7796) setWindow(x0, y0, x1, y1 uint16) {
	d.cmd(
		0x2A, // CASET
		byte(x0>>8), byte(x0),
		byte(x1>>8), byte(x1),
	)
	d.cmd(
		0x2B, // RASET
		byte(y0>>8), byte(y0),
		byte(y1>>8), byte(y1),
	)
	d.cmd(0x2C) // RAMWR
}

func (d *st7796) Size() (x, y int16) {
	if d.rot == drivers.Rotation90 || d.rot == drivers.Rotation270 {
		return st7796Height, st7796Width
	}
	return st7796Width, st7796Height
}

func (d *st7796) SetPixel(x, y int16, c color.RGBA) {
	w, h := d.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	p := rgb565(c.R, c.G, c.B)
	d.setWindow(uint16(x), uint16(y), uint16(x), uint16(y))
	d.cs.Low()
	d.dc.High()
	d.spi.Tx([]byte{byte(p >> 8), byte(p)}, nil)
	d.cs.High()
}

func (d *st7796) Display() error { return nil }

func (d *st7796) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	w, h := d.Size()
	if x < 0 {
		width += x
		x = 0
	}
	if y < 0 {
		height += y
		y = 0
	}
	if x+width > w {
		width = w - x
	}
	if y+height > h {
		height = h - y
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	p := rgb565(c.R, c.G, c.B)
	d.setWindow(uint16(x), uint16(y), uint16(x+width-1), uint16(y+height-1))

	chunk := d.txBuf
	for i := 0; i+1 < len(chunk); i += 2 {
		chunk[i] = byte(p >> 8)
		chunk[i+1] = byte(p)
	}

	remain := int(width) * int(height) * 2
	d.cs.Low()
	d.dc.High()
	for remain > 0 {
		n := len(chunk) &^ 1
		if n > remain {
			n = remain
		}
		d.spi.Tx(chunk[:n], nil)
		remain -= n
	}
	d.cs.High()
	return nil
}

func (d *st7796) FillScreen(c color.RGBA) {
	w, h := d.Size()
	d.FillRectangle(0, 0, w, h, c)
}

func (d *st7796) SetRotation(rotation drivers.Rotation) error {
	d.rot = rotation
	d.cmd(0x36, st7796Madctl(rotation))
	return nil
}

func (d *st7796) Rotation() drivers.Rotation { return d.rot }

// DefineScrollWindow programs VSCRDEF. Heights are native rows; the
// scroll area is whatever the fixed regions leave over.
func (d *st7796) DefineScrollWindow(topFixed, bottomFixed int16) {
	tfa := uint16(topFixed)
	bfa := uint16(bottomFixed)
	vsa := uint16(st7796Height) - tfa - bfa
	d.cmd(
		0x33, // VSCRDEF
		byte(tfa>>8), byte(tfa),
		byte(vsa>>8), byte(vsa),
		byte(bfa>>8), byte(bfa),
	)
}

// SetScrollPointer programs VSCSAD: the memory row shown at the top of
// the scroll region.
func (d *st7796) SetScrollPointer(line int16) {
	vsp := uint16(line)
	d.cmd(
		0x37, // VSCSAD
		byte(vsp>>8), byte(vsp),
	)
}
