// Package nvm models the sector-erased data flash the threshold lives in.
// On a microcontroller station the medium is the MCU's ISP/IAP data flash;
// on a Linux host it is emulated by an image file.
package nvm

import (
	"errors"
	"fmt"
)

// Memory is byte-level access to a sector-erased non-volatile medium.
// Bytes cannot be rewritten without first erasing their sector.
type Memory interface {
	// Read returns the byte at addr.
	Read(addr uint16) (byte, error)

	// Write programs b at addr. Programming can only clear bits, so the
	// sector must have been erased beforehand.
	Write(addr uint16, b byte) error

	// Erase resets the whole sector containing addr to ErasedByte.
	Erase(addr uint16) error
}

// Geometry of the data flash on the STC89C5x family.
const (
	DefaultBase = 0x2000
	DefaultSize = 4096
	SectorSize  = 512
	ErasedByte  = 0xFF
)

// ErrAddressOutOfRange is returned for addresses outside the device.
var ErrAddressOutOfRange = errors.New("nvm: address out of range")

// Flash is an in-memory model of the data flash.
// Not safe for concurrent use; the station owns it from a single goroutine.
type Flash struct {
	base uint16
	data []byte
}

// NewFlash creates an erased device of size bytes starting at base.
// size is rounded down to a whole number of sectors.
func NewFlash(base uint16, size int) *Flash {
	size -= size % SectorSize
	f := &Flash{base: base, data: make([]byte, size)}
	for i := range f.data {
		f.data[i] = ErasedByte
	}
	return f
}

func (f *Flash) offset(addr uint16) (int, error) {
	if addr < f.base || int(addr-f.base) >= len(f.data) {
		return 0, fmt.Errorf("%w: 0x%04X", ErrAddressOutOfRange, addr)
	}
	return int(addr - f.base), nil
}

// Read returns the byte at addr.
func (f *Flash) Read(addr uint16) (byte, error) {
	off, err := f.offset(addr)
	if err != nil {
		return 0, err
	}
	return f.data[off], nil
}

// Write programs b at addr. Bits already cleared stay cleared.
func (f *Flash) Write(addr uint16, b byte) error {
	off, err := f.offset(addr)
	if err != nil {
		return err
	}
	f.data[off] &= b
	return nil
}

// Erase resets the sector containing addr.
func (f *Flash) Erase(addr uint16) error {
	off, err := f.offset(addr)
	if err != nil {
		return err
	}
	start := off - off%SectorSize
	for i := start; i < start+SectorSize; i++ {
		f.data[i] = ErasedByte
	}
	return nil
}

// Base returns the first valid address.
func (f *Flash) Base() uint16 {
	return f.base
}

// Image returns a copy of the device contents.
func (f *Flash) Image() []byte {
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out
}

// Load replaces the device contents with img. Short images leave the
// remaining bytes erased; long images are rejected.
func (f *Flash) Load(img []byte) error {
	if len(img) > len(f.data) {
		return fmt.Errorf("nvm: image of %d bytes exceeds device size %d", len(img), len(f.data))
	}
	n := copy(f.data, img)
	for i := n; i < len(f.data); i++ {
		f.data[i] = ErasedByte
	}
	return nil
}
