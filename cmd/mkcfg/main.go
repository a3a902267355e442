//go:build !tinygo

// Command mkcfg validates a boot configuration document and packs it
// into a flash image at the reserved offset, ready to be written to the
// device alongside the firmware.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"periscope/bootcfg"
)

const (
	defaultFlashPath = "Flash.bin"
	defaultFlashSize = 2 * 1024 * 1024
	defaultEraseSize = 4096
)

type flashFile struct {
	f         *os.File
	size      uint32
	eraseSize uint32

	scratch []byte
}

func openFlashFile(path string, size uint32, eraseSize uint32) (*flashFile, error) {
	if eraseSize == 0 || eraseSize%256 != 0 {
		return nil, fmt.Errorf("flash: invalid erase size %d", eraseSize)
	}
	if size == 0 || size%eraseSize != 0 {
		return nil, fmt.Errorf("flash: size %d not multiple of erase size %d", size, eraseSize)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash file %q: %w", path, err)
	}

	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("truncate flash file %q to %d: %w", path, size, err)
	}

	ff := &flashFile{
		f:         f,
		size:      size,
		eraseSize: eraseSize,
		scratch:   make([]byte, eraseSize),
	}
	for i := range ff.scratch {
		ff.scratch[i] = 0xFF
	}
	return ff, nil
}

func (f *flashFile) Close() error { return f.f.Close() }

func (f *flashFile) SizeBytes() uint32       { return f.size }
func (f *flashFile) EraseBlockBytes() uint32 { return f.eraseSize }

func (f *flashFile) ReadAt(p []byte, off uint32) (int, error) {
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *flashFile) WriteAt(p []byte, off uint32) (int, error) {
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}

	prev := make([]byte, len(p))
	if _, err := f.f.ReadAt(prev, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if prev[i]&p[i] != p[i] {
			return 0, errors.New("flash write requires erase")
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *flashFile) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if off%f.eraseSize != 0 || size%f.eraseSize != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	if off >= f.size || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	for size > 0 {
		if _, err := f.f.WriteAt(f.scratch, int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += f.eraseSize
		size -= f.eraseSize
	}
	return nil
}

func main() {
	var inPath string
	var outPath string
	var flashSize uint
	var eraseSize uint
	var offset uint
	flag.StringVar(&inPath, "in", "", "Boot configuration document (TOML).")
	flag.StringVar(&outPath, "out", defaultFlashPath, "Output flash image path.")
	flag.UintVar(&flashSize, "size", defaultFlashSize, "Flash image size (bytes).")
	flag.UintVar(&eraseSize, "erase", defaultEraseSize, "Erase block size (bytes).")
	flag.UintVar(&offset, "offset", bootcfg.DefaultFlashOffset, "Config frame offset (bytes).")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "error: -in is required")
		os.Exit(2)
	}
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}

	if err := run(inPath, outPath, uint32(flashSize), uint32(eraseSize), uint32(offset)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, flashSize, eraseSize, offset uint32) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read config %q: %w", inPath, err)
	}
	cfg, err := bootcfg.Parse(raw)
	if err != nil {
		return err
	}

	ff, err := openFlashFile(outPath, flashSize, eraseSize)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	if err := bootcfg.WriteFlash(ff, offset, cfg); err != nil {
		return err
	}

	// Read back through the same path the firmware uses.
	if _, err := bootcfg.ReadFlash(ff, offset); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	fmt.Printf("wrote config frame at %#x in %s\n", offset, outPath)
	return nil
}
