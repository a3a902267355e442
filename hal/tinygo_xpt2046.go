//go:build tinygo && baremetal

package hal

import "machine"

// Raw ADC range observed on the resistive overlay. Panels vary a little;
// these bounds match the stock 3.5" module.
const (
	xptRawMin = 200
	xptRawMax = 3900
)

// xpt2046 samples the resistive touch controller over the shared SPI
// bus. PENIRQ is low while the overlay is pressed; coordinates are
// reported in the panel's current rotated space.
type xpt2046 struct {
	spi   *machine.SPI
	cs    machine.Pin
	irq   machine.Pin
	panel *st7796
}

func initXPT2046(spi *machine.SPI, cs, irq machine.Pin, panel *st7796) *xpt2046 {
	t := &xpt2046{spi: spi, cs: cs, irq: irq, panel: panel}
	t.cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	t.cs.High()
	t.irq.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return t
}

// sample issues one 12-bit differential conversion. 0x90 reads Y,
// 0xD0 reads X.
func (t *xpt2046) sample(ctrl byte) uint16 {
	tx := []byte{ctrl, 0x00, 0x00}
	rx := make([]byte, 3)
	t.cs.Low()
	t.spi.Tx(tx, rx)
	t.cs.High()
	return (uint16(rx[1])<<8 | uint16(rx[2])) >> 3
}

func (t *xpt2046) ReadPoint() (int16, int16, bool) {
	if t.irq.Get() {
		return 0, 0, false
	}

	rawX := t.sample(0xD0)
	rawY := t.sample(0x90)

	// Scale raw ADC values onto the native panel grid.
	nx := scaleRaw(rawX, st7796Width)
	ny := scaleRaw(rawY, st7796Height)

	w, h := t.panel.Size()
	if w > h { // landscape: swap axes to follow MADCTL addressing
		nx, ny = scaleRaw(rawY, int(w)), scaleRaw(rawX, int(h))
	}
	return int16(nx), int16(ny), true
}

func scaleRaw(raw uint16, limit int) int {
	if raw < xptRawMin {
		raw = xptRawMin
	}
	if raw > xptRawMax {
		raw = xptRawMax
	}
	v := int(raw-xptRawMin) * limit / (xptRawMax - xptRawMin)
	if v >= limit {
		v = limit - 1
	}
	return v
}
