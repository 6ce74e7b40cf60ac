// Package rom loads CHIP-8 program images.
package rom

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxSize is the largest program that fits between 0x200 and 0xFFF
const MaxSize = 0x1000 - 0x200

// Errors returned by the loader
var (
	ErrEmptyROM    = errors.New("program is empty")
	ErrROMTooLarge = errors.New("program size exceeds the maximum size")
)

// Load reads a CHIP-8 program from a file
func Load(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening program: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("loading program '%s': %w", filename, err)
	}
	return data, nil
}

// Read reads a CHIP-8 program, rejecting empty and oversized images
func Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, ErrEmptyROM
	case len(data) > MaxSize:
		return nil, fmt.Errorf("%w: maximum is %d bytes", ErrROMTooLarge, MaxSize)
	}
	return data, nil
}
