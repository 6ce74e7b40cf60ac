package internal

import (
	"errors"
	"fmt"
	"strings"
)

const (
	glyphSize = 5
	fontSize  = 16 * glyphSize
)

// ErrUnknownFont is returned when a font set name can not be resolved
var ErrUnknownFont = errors.New("unknown font")

// FontSet selects one of the built-in hexadecimal digit fonts
type FontSet uint8

// Built-in font sets
const (
	FontCHIP8 FontSet = iota
	FontVIP
	FontDREAM6800
	FontETI660
	FontFishie
)

type fontInfo struct {
	name  string // config name
	title string // display name
	data  [fontSize]uint8
}

var fonts = [...]fontInfo{
	FontCHIP8: {
		name:  "chip8",
		title: "CHIP-8",
		data: [fontSize]uint8{
			0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
			0x20, 0x60, 0x20, 0x20, 0x70, // 1
			0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
			0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
			0x90, 0x90, 0xF0, 0x10, 0x10, // 4
			0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
			0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
			0xF0, 0x10, 0x20, 0x40, 0x40, // 7
			0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
			0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
			0xF0, 0x90, 0xF0, 0x90, 0x90, // A
			0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
			0xF0, 0x80, 0x80, 0x80, 0xF0, // C
			0xE0, 0x90, 0x90, 0x90, 0xE0, // D
			0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
			0xF0, 0x80, 0xF0, 0x80, 0x80, // F
		},
	},
	FontVIP: {
		name:  "vip",
		title: "VIP",
		data: [fontSize]uint8{
			0xF0, 0x90, 0x90, 0x90, 0xF0, 0x60, 0x20, 0x20, 0x20, 0x70,
			0xF0, 0x10, 0xF0, 0x80, 0xF0, 0xF0, 0x10, 0xF0, 0x10, 0xF0,
			0xA0, 0xA0, 0xF0, 0x20, 0x20, 0xF0, 0x80, 0xF0, 0x10, 0xF0,
			0xF0, 0x80, 0xF0, 0x90, 0xF0, 0xF0, 0x10, 0x10, 0x10, 0x10,
			0xF0, 0x90, 0xF0, 0x90, 0xF0, 0xF0, 0x90, 0xF0, 0x10, 0xF0,
			0xF0, 0x90, 0xF0, 0x90, 0x90, 0xF0, 0x50, 0x70, 0x50, 0xF0,
			0xF0, 0x80, 0x80, 0x80, 0xF0, 0xF0, 0x50, 0x50, 0x50, 0xF0,
			0xF0, 0x80, 0xF0, 0x80, 0xF0, 0xF0, 0x80, 0xF0, 0x80, 0x80,
		},
	},
	FontDREAM6800: {
		name:  "dream6800",
		title: "DREAM 6800",
		data: [fontSize]uint8{
			0xE0, 0xA0, 0xA0, 0xA0, 0xE0, 0x40, 0x40, 0x40, 0x40, 0x40,
			0xE0, 0x20, 0xE0, 0x80, 0xE0, 0xE0, 0x20, 0xE0, 0x20, 0xE0,
			0x80, 0xA0, 0xA0, 0xE0, 0x20, 0xE0, 0x80, 0xE0, 0x20, 0xE0,
			0xE0, 0x80, 0xE0, 0xA0, 0xE0, 0xE0, 0x20, 0x20, 0x20, 0x20,
			0xE0, 0xA0, 0xE0, 0xA0, 0xE0, 0xE0, 0xA0, 0xE0, 0x20, 0xE0,
			0xE0, 0xA0, 0xE0, 0xA0, 0xA0, 0xC0, 0xA0, 0xE0, 0xA0, 0xC0,
			0xE0, 0x80, 0x80, 0x80, 0xE0, 0xC0, 0xA0, 0xA0, 0xA0, 0xC0,
			0xE0, 0x80, 0xE0, 0x80, 0xE0, 0xE0, 0x80, 0xC0, 0x80, 0x80,
		},
	},
	FontETI660: {
		name:  "eti660",
		title: "ETI 660",
		data: [fontSize]uint8{
			0xE0, 0xA0, 0xA0, 0xA0, 0xE0, 0x20, 0x20, 0x20, 0x20, 0x20,
			0xE0, 0x20, 0xE0, 0x80, 0xE0, 0xE0, 0x20, 0xE0, 0x20, 0xE0,
			0xA0, 0xA0, 0xE0, 0x20, 0x20, 0xE0, 0x80, 0xE0, 0x20, 0xE0,
			0xE0, 0x80, 0xE0, 0xA0, 0xE0, 0xE0, 0x20, 0x20, 0x20, 0x20,
			0xE0, 0xA0, 0xE0, 0xA0, 0xE0, 0xE0, 0xA0, 0xE0, 0x20, 0xE0,
			0xE0, 0xA0, 0xE0, 0xA0, 0xA0, 0x80, 0x80, 0xE0, 0xA0, 0xE0,
			0xE0, 0x80, 0x80, 0x80, 0xE0, 0x20, 0x20, 0xE0, 0xA0, 0xE0,
			0xE0, 0x80, 0xE0, 0x80, 0xE0, 0xE0, 0x80, 0xC0, 0x80, 0x80,
		},
	},
	FontFishie: {
		name:  "fishie",
		title: "FISHIE",
		data: [fontSize]uint8{
			0x60, 0xA0, 0xA0, 0xA0, 0xC0, 0x40, 0xC0, 0x40, 0x40, 0xE0,
			0xC0, 0x20, 0x40, 0x80, 0xE0, 0xC0, 0x20, 0x40, 0x20, 0xC0,
			0x20, 0xA0, 0xE0, 0x20, 0x20, 0xE0, 0x80, 0xC0, 0x20, 0xC0,
			0x40, 0x80, 0xC0, 0xA0, 0x40, 0xE0, 0x20, 0x60, 0x40, 0x40,
			0x40, 0xA0, 0x40, 0xA0, 0x40, 0x40, 0xA0, 0x60, 0x20, 0x40,
			0x40, 0xA0, 0xE0, 0xA0, 0xA0, 0xC0, 0xA0, 0xC0, 0xA0, 0xC0,
			0x60, 0x80, 0x80, 0x80, 0x60, 0xC0, 0xA0, 0xA0, 0xA0, 0xC0,
			0xE0, 0x80, 0xC0, 0x80, 0xE0, 0xE0, 0x80, 0xC0, 0x80, 0x80,
		},
	},
}

// String returns the display name of the font set
func (f FontSet) String() string {
	if int(f) >= len(fonts) {
		return fmt.Sprintf("FontSet(%d)", uint8(f))
	}
	return fonts[f].title
}

// Glyphs returns the 80 bytes of glyph data, 5 bytes per hex digit
func (f FontSet) Glyphs() [fontSize]uint8 {
	if int(f) >= len(fonts) {
		return fonts[FontCHIP8].data
	}
	return fonts[f].data
}

// ParseFontSet resolves a font set by its config name, case insensitive.
// An empty name selects the default CHIP-8 font.
func ParseFontSet(name string) (FontSet, error) {
	if name == "" {
		return FontCHIP8, nil
	}
	name = strings.ToLower(name)
	for i, f := range fonts {
		if f.name == name {
			return FontSet(i), nil
		}
	}
	return FontCHIP8, fmt.Errorf("%w '%s'", ErrUnknownFont, name)
}

// FontSetNames returns the config names of all built-in font sets
func FontSetNames() []string {
	names := make([]string, len(fonts))
	for i, f := range fonts {
		names[i] = f.name
	}
	return names
}
