//go:build !tinygo

package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// hostPanel emulates the TFT controller on top of the host framebuffer:
// MADCTL-style rotation remaps addressing while the memory stays in
// native portrait orientation, and the scroll registers are forwarded to
// the framebuffer's present-time row remapper.
type hostPanel struct {
	fb  *hostFramebuffer
	rot drivers.Rotation
}

func newHostPanel(fb *hostFramebuffer) *hostPanel {
	return &hostPanel{fb: fb, rot: drivers.Rotation0}
}

func (p *hostPanel) Size() (x, y int16) {
	if p.rot == drivers.Rotation90 || p.rot == drivers.Rotation270 {
		return int16(p.fb.height), int16(p.fb.width)
	}
	return int16(p.fb.width), int16(p.fb.height)
}

// toNative maps logical (rotated) coordinates to native memory rows.
func (p *hostPanel) toNative(x, y int16) (int, int) {
	switch p.rot {
	case drivers.Rotation90:
		return int(y), p.fb.height - 1 - int(x)
	case drivers.Rotation180:
		return p.fb.width - 1 - int(x), p.fb.height - 1 - int(y)
	case drivers.Rotation270:
		return p.fb.width - 1 - int(y), int(x)
	default:
		return int(x), int(y)
	}
}

// fromNative is the inverse of toNative, for input coordinates.
func (p *hostPanel) fromNative(nx, ny int16) (int16, int16) {
	switch p.rot {
	case drivers.Rotation90:
		return int16(p.fb.height) - 1 - ny, nx
	case drivers.Rotation180:
		return int16(p.fb.width) - 1 - nx, int16(p.fb.height) - 1 - ny
	case drivers.Rotation270:
		return ny, int16(p.fb.width) - 1 - nx
	default:
		return nx, ny
	}
}

func (p *hostPanel) SetPixel(x, y int16, c color.RGBA) {
	w, h := p.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	nx, ny := p.toNative(x, y)
	p.fb.setPixel565(nx, ny, rgb565(c.R, c.G, c.B))
}

func (p *hostPanel) Display() error { return nil }

func (p *hostPanel) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	ax, ay := p.toNative(x, y)
	bx, by := p.toNative(x+width-1, y+height-1)
	if bx < ax {
		ax, bx = bx, ax
	}
	if by < ay {
		ay, by = by, ay
	}
	p.fb.fill565(ax, ay, bx+1, by+1, rgb565(c.R, c.G, c.B))
	return nil
}

func (p *hostPanel) FillScreen(c color.RGBA) {
	p.fb.fill565(0, 0, p.fb.width, p.fb.height, rgb565(c.R, c.G, c.B))
}

func (p *hostPanel) SetRotation(rotation drivers.Rotation) error {
	p.rot = rotation
	return nil
}

func (p *hostPanel) Rotation() drivers.Rotation { return p.rot }

func (p *hostPanel) DefineScrollWindow(topFixed, bottomFixed int16) {
	p.fb.setScrollWindow(int(topFixed), int(bottomFixed))
}

func (p *hostPanel) SetScrollPointer(line int16) {
	p.fb.setScroll(int(line))
}
