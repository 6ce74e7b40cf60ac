// Package main implements the terminal frontend of the CHIP-8 emulator.
// With -frames it runs headless and prints the final display.
package main

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/rom"
	"github.com/mnafees/chopper/pkg/tty"
	"github.com/mnafees/chopper/pkg/wavrec"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/cli"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type headlessFlags struct {
	Frames int `flag:"frames" usage:"run headless for the given number of frames and print the display"`
}

func main() {
	var flags config.Flags
	var headless headlessFlags
	fs := cli.NewFlagSet("chopper")
	flags.Register(fs)
	fs.AddSection("Headless", &headless)

	if _, err := fs.Parse(os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrHelpRequested) {
			fmt.Println(err)
		}
		fs.ShowUsage()
		os.Exit(1)
	}
	if flags.Logging.Version {
		fmt.Printf("chopper %s\n", buildinfo.Version(version, commit, date))
		return
	}
	if flags.Args.ROM == "" {
		fs.ShowUsage()
		os.Exit(1)
	}

	logger := flags.Logger()
	if err := run(flags, headless, logger); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(flags config.Flags, headless headlessFlags, logger *log.Logger) (rerr error) {
	cfg, err := flags.Load()
	if err != nil {
		return err
	}

	program, err := rom.Load(flags.Args.ROM)
	if err != nil {
		return err
	}
	vm, err := cfg.NewVM(logger)
	if err != nil {
		return err
	}
	if err := vm.LoadROM(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	var rec *wavrec.Recorder
	if flags.Output.Wav != "" {
		rec = wavrec.New(cfg.Audio.SampleRate, cfg.Emulation.FrameRate, cfg.Audio.Frequency)
		defer func() {
			if err := rec.Save(flags.Output.Wav); err != nil && rerr == nil {
				rerr = err
			}
		}()
	}

	if headless.Frames > 0 {
		return runHeadless(vm, headless.Frames, rec)
	}

	term := tty.New(vm, cfg, logger)
	if rec != nil {
		term.SetRecorder(rec)
	}
	return term.Run(app.Context())
}

// runHeadless runs the given number of frames without pacing and prints the display
func runHeadless(vm *internal.C8VM, frames int, rec *wavrec.Recorder) error {
	if err := vm.Start(); err != nil {
		return fmt.Errorf("starting VM: %w", err)
	}

	var runErr error
	for range frames {
		if runErr = vm.Tick(); runErr != nil {
			break
		}
		if rec != nil {
			rec.Record(vm.IsSoundActive())
		}
	}

	fb := vm.Framebuffer()
	fmt.Print(fb.String())
	if runErr != nil {
		return fmt.Errorf("running VM: %w", runErr)
	}
	return nil
}
