package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProfile is returned when a quirk profile name can not be resolved
var ErrUnknownProfile = errors.New("unknown quirk profile")

// Quirks toggles behaviour that differs between CHIP-8 interpreters.
// The zero value runs the plain instruction set.
type Quirks struct {
	VFReset        bool // 8XY1, 8XY2 and 8XY3 clear VF
	IncrementIndex bool // FX55 and FX65 leave I pointing past the last register
	ShiftUsesVY    bool // 8XY6 and 8XYE shift VY into VX
	ClipSprites    bool // sprites are clipped at the screen edges instead of wrapping
	JumpUsesVX     bool // BNNN jumps to NNN + VX where X is the top nibble of NNN
}

type profile struct {
	name   string
	quirks Quirks
}

var profiles = []profile{
	{name: "default"},
	{
		name: "chip8",
		quirks: Quirks{
			VFReset:        true,
			IncrementIndex: true,
			ShiftUsesVY:    true,
			ClipSprites:    true,
		},
	},
	{
		name: "superchip",
		quirks: Quirks{
			ClipSprites: true,
			JumpUsesVX:  true,
		},
	},
}

// ProfileByName returns the quirks of a named profile, case insensitive.
// An empty name selects the default profile.
func ProfileByName(name string) (Quirks, error) {
	if name == "" {
		return Quirks{}, nil
	}
	name = strings.ToLower(name)
	for _, p := range profiles {
		if p.name == name {
			return p.quirks, nil
		}
	}
	return Quirks{}, fmt.Errorf("%w '%s'", ErrUnknownProfile, name)
}

// ProfileName returns the name of the profile matching q, or "custom".
func ProfileName(q Quirks) string {
	for _, p := range profiles {
		if p.quirks == q {
			return p.name
		}
	}
	return "custom"
}

// ProfileNames returns the names of all quirk profiles
func ProfileNames() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.name
	}
	return names
}
