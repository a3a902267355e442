package bootcfg

import (
	"encoding/binary"
	"errors"
	"fmt"

	"periscope/hal"
)

// Flash frame: 4-byte magic, uint32 little-endian payload length, TOML
// payload. Anything else in the region is treated as unprovisioned.
var flashMagic = [4]byte{'P', 'S', 'C', '1'}

const frameHeader = 8

// DefaultFlashOffset places the config frame in the last erase blocks,
// clear of the firmware image.
const DefaultFlashOffset = 0x1F0000

// MaxPayload bounds the TOML document so a corrupt length field cannot
// ask for the whole flash.
const MaxPayload = 4096

var (
	ErrNoConfig = errors.New("bootcfg: flash region unprovisioned")
	ErrTooLarge = errors.New("bootcfg: document exceeds flash frame")
)

// EncodeFrame wraps a raw TOML document in the flash frame.
func EncodeFrame(raw []byte) ([]byte, error) {
	if len(raw) > MaxPayload {
		return nil, ErrTooLarge
	}
	out := make([]byte, frameHeader+len(raw))
	copy(out, flashMagic[:])
	binary.LittleEndian.PutUint32(out[4:], uint32(len(raw)))
	copy(out[frameHeader:], raw)
	return out, nil
}

// ReadFlash loads and parses the config frame at off.
func ReadFlash(f hal.Flash, off uint32) (Config, error) {
	var hdr [frameHeader]byte
	if _, err := f.ReadAt(hdr[:], off); err != nil {
		return Config{}, fmt.Errorf("bootcfg: read header: %w", err)
	}
	if [4]byte(hdr[:4]) != flashMagic {
		return Config{}, ErrNoConfig
	}
	n := binary.LittleEndian.Uint32(hdr[4:])
	if n == 0 || n > MaxPayload {
		return Config{}, ErrNoConfig
	}

	raw := make([]byte, n)
	if _, err := f.ReadAt(raw, off+frameHeader); err != nil {
		return Config{}, fmt.Errorf("bootcfg: read payload: %w", err)
	}
	return Parse(raw)
}

// WriteFlash validates, frames and stores cfg at off, erasing the
// covered blocks first.
func WriteFlash(f hal.Flash, off uint32, cfg Config) error {
	raw, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := Parse(raw); err != nil {
		return err
	}
	frame, err := EncodeFrame(raw)
	if err != nil {
		return err
	}

	block := f.EraseBlockBytes()
	if off%block != 0 {
		return fmt.Errorf("bootcfg: offset %#x not erase-block aligned", off)
	}
	span := (uint32(len(frame)) + block - 1) / block * block
	if err := f.Erase(off, span); err != nil {
		return fmt.Errorf("bootcfg: erase: %w", err)
	}
	if _, err := f.WriteAt(frame, off); err != nil {
		return fmt.Errorf("bootcfg: write: %w", err)
	}
	return nil
}
