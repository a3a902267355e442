//go:build !tinygo && cgo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"periscope/internal/buildinfo"
)

// RunWindow opens a desktop window showing the panel. The mouse acts as
// the touch screen, typed characters arrive as loopback UART bytes and
// F1 toggles the pause switch. Blocks until the window closes.
func RunWindow(h HAL) error {
	hh := h.(*hostHAL)
	g := &hostGame{h: hh}
	ebiten.SetWindowTitle("Periscope (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(hh.fb.width*2, hh.fb.height*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *hostGame) Update() error {
	g.pollInput()
	g.h.t.step()
	return nil
}

func (g *hostGame) pollInput() {
	h := g.h

	// Typed characters feed the loopback UART.
	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r < 128 {
			h.serial.Inject([]byte{byte(r)})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		h.serial.Inject([]byte{'\r'})
	}

	if h.vpause != nil && inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		if h.vpause.toggle() {
			h.logger.WriteLineString("pause switch released")
		} else {
			h.logger.WriteLineString("pause switch asserted")
		}
	}

	x, y := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	h.touch.set(int16(x), int16(y), down)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.ReplacePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
