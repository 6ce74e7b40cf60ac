// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/config"
	"github.com/retroenv/retrogolib/log"
)

var errInvalidValue = errors.New("invalid config value")

// Config is the emulator configuration as read from a config file
type Config struct {
	Emulation Emulation `config:"emulation"`
	Display   Display   `config:"display"`
	Audio     Audio     `config:"audio"`
	Terminal  Terminal  `config:"terminal"`
}

// Emulation configures the VM
type Emulation struct {
	CyclesPerFrame int    `config:"cycles_per_frame,default=50"`
	FrameRate      int    `config:"frame_rate,default=60"`
	Profile        string `config:"profile,default=default"`
	Font           string `config:"font,default=chip8"`
	FontAddress    int    `config:"font_address,default=0x000"`
}

// Display configures the SDL window
type Display struct {
	PixelSize  int `config:"pixel_size,default=20"`
	Foreground int `config:"foreground,default=0x9FA8DA"`
	Background int `config:"background,default=0x1A237E"`
}

// Audio configures the beeper
type Audio struct {
	Enabled    bool    `config:"enabled,default=true"`
	Frequency  int     `config:"frequency,default=440"`
	SampleRate int     `config:"sample_rate,default=44100"`
	Volume     float64 `config:"volume,default=0.25"`
}

// Terminal configures the terminal frontend
type Terminal struct {
	// terminals only report key presses, a press holds the key down for this many frames
	KeyHoldFrames int `config:"key_hold_frames,default=6"`
}

// Default returns the configuration used when no config file is given
func Default() Config {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		// the defaults are part of the struct tags
		panic(err)
	}
	return cfg
}

// Load reads a config file. An empty filename returns the defaults.
func Load(filename string) (Config, error) {
	if filename == "" {
		return Default(), nil
	}

	document, err := config.Open(filename, config.Options{InlineComments: true})
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	return unmarshal(document)
}

// Parse reads a configuration from r, missing keys use their defaults.
func Parse(r io.Reader) (Config, error) {
	document, err := config.Parse(r, config.Options{InlineComments: true})
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return unmarshal(document)
}

func unmarshal(document *config.Config) (Config, error) {
	var cfg Config
	if err := document.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks all values for their allowed ranges
func (c Config) Validate() error {
	e := c.Emulation
	switch {
	case e.CyclesPerFrame <= 0:
		return fmt.Errorf("%w: cycles_per_frame %d", errInvalidValue, e.CyclesPerFrame)
	case e.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate %d", errInvalidValue, e.FrameRate)
	case e.FontAddress < 0 || e.FontAddress > 0xFFF:
		return fmt.Errorf("%w: font_address 0x%X", errInvalidValue, e.FontAddress)
	case c.Display.PixelSize <= 0:
		return fmt.Errorf("%w: pixel_size %d", errInvalidValue, c.Display.PixelSize)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate %d", errInvalidValue, c.Audio.SampleRate)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: volume %g", errInvalidValue, c.Audio.Volume)
	case c.Terminal.KeyHoldFrames <= 0:
		return fmt.Errorf("%w: key_hold_frames %d", errInvalidValue, c.Terminal.KeyHoldFrames)
	}

	if _, err := internal.ProfileByName(e.Profile); err != nil {
		return err
	}
	if _, err := internal.ParseFontSet(e.Font); err != nil {
		return err
	}
	return nil
}

// NewVM creates a VM for the emulation settings with the font loaded
// at the configured address.
func (c Config) NewVM(logger *log.Logger) (*internal.C8VM, error) {
	quirks, err := internal.ProfileByName(c.Emulation.Profile)
	if err != nil {
		return nil, err
	}
	font, err := internal.ParseFontSet(c.Emulation.Font)
	if err != nil {
		return nil, err
	}

	vm, err := internal.NewC8VM(
		internal.WithLogger(logger),
		internal.WithCyclesPerFrame(c.Emulation.CyclesPerFrame),
		internal.WithQuirks(quirks),
		internal.WithFontSet(font),
	)
	if err != nil {
		return nil, fmt.Errorf("creating VM: %w", err)
	}
	if err := vm.LoadFont(uint16(c.Emulation.FontAddress)); err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	return vm, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
