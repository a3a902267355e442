//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath      = "periscope.flash"
	hostFlashDefaultSizeBytes = 2 * 1024 * 1024
	hostFlashEraseBlockBytes  = 4096
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

// hostFlash is a file-backed flash emulation with NOR semantics: writes
// may only clear bits, erase sets a whole block to 0xFF.
type hostFlash struct {
	mu       sync.Mutex
	f        *os.File
	size     uint32
	scratch4 [hostFlashEraseBlockBytes]byte
}

func newHostFlash(path string) *hostFlash {
	if path == "" {
		path = hostFlashDefaultPath
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return &hostFlash{f: nil}
	}

	size := uint32(hostFlashDefaultSizeBytes)
	if st, err := f.Stat(); err == nil && st.Size() > 0 {
		if st.Size() > int64(^uint32(0)) {
			_ = f.Close()
			return &hostFlash{f: nil}
		}
		size = uint32(st.Size())
	} else {
		if err := f.Truncate(int64(size)); err != nil {
			_ = f.Close()
			return &hostFlash{f: nil}
		}
	}

	hf := &hostFlash{f: f, size: size}
	for i := range hf.scratch4 {
		hf.scratch4[i] = 0xFF
	}
	return hf
}

func (f *hostFlash) SizeBytes() uint32       { return f.size }
func (f *hostFlash) EraseBlockBytes() uint32 { return hostFlashEraseBlockBytes }

func (f *hostFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	if max := int(f.size - off); len(p) > max {
		p = p[:max]
	}
	n, err := f.f.ReadAt(p, int64(off))
	if err == io.EOF && n == len(p) {
		err = nil
	}
	return n, err
}

func (f *hostFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size || int(f.size-off) < len(p) {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}

	// NOR behavior: the region must be erased first.
	cur := make([]byte, len(p))
	if _, err := f.f.ReadAt(cur, int64(off)); err != nil && err != io.EOF {
		return 0, err
	}
	for i, b := range p {
		if cur[i]&b != b {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *hostFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.f == nil {
		return ErrNotImplemented
	}
	if off%hostFlashEraseBlockBytes != 0 || size%hostFlashEraseBlockBytes != 0 {
		return fmt.Errorf("flash erase %d+%d: %w", off, size, os.ErrInvalid)
	}
	if off >= f.size || f.size-off < size {
		return fmt.Errorf("flash erase %d+%d: %w", off, size, os.ErrInvalid)
	}
	for end := off + size; off < end; off += hostFlashEraseBlockBytes {
		if _, err := f.f.WriteAt(f.scratch4[:], int64(off)); err != nil {
			return err
		}
	}
	return nil
}
