package config

import (
	"github.com/retroenv/retrogolib/cli"
	"github.com/retroenv/retrogolib/log"
)

// Flags are the command line options shared by all frontends
type Flags struct {
	Args      Args
	Emulation EmulationFlags
	Output    OutputFlags
	Logging   LoggingFlags
}

// Args holds the positional arguments
type Args struct {
	ROM string `arg:"positional" usage:"CHIP-8 program to run"`
}

// EmulationFlags override the emulation section of the config file.
// Zero values keep the configured setting.
type EmulationFlags struct {
	Config  string `flag:"c,config" usage:"configuration file"`
	Cycles  int    `flag:"cycles" usage:"instructions executed per frame"`
	Profile string `flag:"profile" usage:"quirk profile: default, chip8, superchip"`
	Font    string `flag:"font" usage:"font set: chip8, vip, dream6800, eti660, fishie"`
}

// OutputFlags configure audio and video output
type OutputFlags struct {
	Wav     string `flag:"wav" usage:"record the beeper to a WAV file"`
	NoAudio bool   `flag:"noaudio" usage:"disable sound output"`
}

// LoggingFlags configure logging
type LoggingFlags struct {
	Debug   bool `flag:"debug" usage:"enable debug logging"`
	Trace   bool `flag:"trace" usage:"log every executed instruction"`
	Quiet   bool `flag:"q,quiet" usage:"only log errors"`
	Version bool `flag:"version" usage:"print version and exit"`
}

// Register adds all flag sections to the flag set
func (f *Flags) Register(fs *cli.FlagSet) {
	fs.AddSection("Emulation", &f.Emulation)
	fs.AddSection("Output", &f.Output)
	fs.AddSection("Logging", &f.Logging)
	fs.AddPositional(&f.Args)
}

// Apply overrides config values with the flags that were set
func (f *Flags) Apply(cfg *Config) error {
	if f.Emulation.Cycles != 0 {
		cfg.Emulation.CyclesPerFrame = f.Emulation.Cycles
	}
	if f.Emulation.Profile != "" {
		cfg.Emulation.Profile = f.Emulation.Profile
	}
	if f.Emulation.Font != "" {
		cfg.Emulation.Font = f.Emulation.Font
	}
	if f.Output.NoAudio {
		cfg.Audio.Enabled = false
	}
	return cfg.Validate()
}

// Logger creates the logger selected by the logging flags
func (f *Flags) Logger() *log.Logger {
	logger := CreateLogger(f.Logging.Debug, f.Logging.Quiet)
	if f.Logging.Trace {
		logger.SetLevel(log.TraceLevel)
	}
	return logger
}

// Load reads the config file named by the flags and applies the flag overrides
func (f *Flags) Load() (Config, error) {
	cfg, err := Load(f.Emulation.Config)
	if err != nil {
		return Config{}, err
	}
	if err := f.Apply(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
