//go:build !tinygo

package hal

import "sync"

// hostFramebuffer models the panel's graphics RAM in native (portrait)
// orientation: RGB565, one row per native scan line. Vertical scroll is
// emulated the way the controller does it: memory writes land at their
// addressed rows and the scroll pointer only remaps rows at present
// time.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	scroll   int // scroll pointer (VSCSAD): memory row shown at region top
	topFixed int
	botFixed int
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) setPixel565(x, y int, p uint16) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.mu.Lock()
	off := y*f.stride + x*2
	f.buf[off] = byte(p)
	f.buf[off+1] = byte(p >> 8)
	f.mu.Unlock()
}

func (f *hostFramebuffer) fill565(x0, y0, x1, y1 int, p uint16) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > f.width {
		x1 = f.width
	}
	if y1 > f.height {
		y1 = f.height
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}

	lo := byte(p)
	hi := byte(p >> 8)
	f.mu.Lock()
	for y := y0; y < y1; y++ {
		row := y * f.stride
		for x := x0; x < x1; x++ {
			off := row + x*2
			f.buf[off] = lo
			f.buf[off+1] = hi
		}
	}
	f.mu.Unlock()
}

func (f *hostFramebuffer) setScroll(line int) {
	f.mu.Lock()
	f.scroll = line
	f.mu.Unlock()
}

func (f *hostFramebuffer) setScrollWindow(topFixed, botFixed int) {
	f.mu.Lock()
	f.topFixed = topFixed
	f.botFixed = botFixed
	f.mu.Unlock()
}

// snapshotRGB565 copies the framebuffer as the panel would show it:
// rows inside the scroll region are rotated so that the scroll-pointer
// row appears at the region's top, fixed areas are copied through.
func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	area := f.height - f.topFixed - f.botFixed
	if area <= 0 || f.scroll <= f.topFixed {
		copy(dst, f.buf)
		return
	}

	for y := 0; y < f.height; y++ {
		src := y
		if y >= f.topFixed && y < f.height-f.botFixed {
			src = f.topFixed + (f.scroll-f.topFixed+y-f.topFixed)%area
		}
		copy(dst[y*f.stride:(y+1)*f.stride], f.buf[src*f.stride:(src+1)*f.stride])
	}
}
