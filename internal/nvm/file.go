package nvm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// imagePermissions restricts the flash image to its owner.
const imagePermissions = 0o600

// FileMemory is a Flash whose image is kept in a file so the threshold
// survives process restarts. Every Write and Erase rewrites the image.
type FileMemory struct {
	flash *Flash
	path  string
}

// OpenFile opens the flash image at path. A missing file is an erased device.
func OpenFile(path string, base uint16, size int) (*FileMemory, error) {
	m := &FileMemory{
		flash: NewFlash(base, size),
		path:  filepath.Clean(path),
	}

	img, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("read flash image: %w", err)
	}

	if err := m.flash.Load(img); err != nil {
		return nil, err
	}
	return m, nil
}

// Read returns the byte at addr.
func (m *FileMemory) Read(addr uint16) (byte, error) {
	return m.flash.Read(addr)
}

// Write programs b at addr and syncs the image.
func (m *FileMemory) Write(addr uint16, b byte) error {
	if err := m.flash.Write(addr, b); err != nil {
		return err
	}
	return m.sync()
}

// Erase resets the sector containing addr and syncs the image.
func (m *FileMemory) Erase(addr uint16) error {
	if err := m.flash.Erase(addr); err != nil {
		return err
	}
	return m.sync()
}

// Path returns the image file location.
func (m *FileMemory) Path() string {
	return m.path
}

// sync writes the image to a temp file in the same directory and renames it
// over the old one, so a power cut leaves either the old or the new image.
func (m *FileMemory) sync() error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".*")
	if err != nil {
		return fmt.Errorf("create flash image: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(m.flash.Image()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write flash image: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync flash image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close flash image: %w", err)
	}
	if err := os.Chmod(tmpName, imagePermissions); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod flash image: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace flash image: %w", err)
	}
	return nil
}
