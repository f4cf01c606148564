package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// FS is the file system the converter reads from and handlers write to.
type FS interface {
	Exists(path string) (bool, error)
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Remove(path string) error
}

// OSFS is [FS] backed by the operating system.
type OSFS struct{}

// Exists reports whether path exists. Stat failures other than a missing
// file are returned.
func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat %s: %w", path, err)
}

func (OSFS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

func (OSFS) Write(path string, data []byte) error {
	err := os.WriteFile(path, data, filePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func (OSFS) Remove(path string) error {
	err := os.Remove(path)
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}

// ReplaceExt swaps the extension of path for ext (".tsx").
func ReplaceExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}

// ComponentName derives the expected component name from a file path:
// the base name without its extension.
func ComponentName(path string) string {
	base := filepath.Base(path)

	return base[:len(base)-len(filepath.Ext(base))]
}
