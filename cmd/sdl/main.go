// Package main implements the SDL frontend of the CHIP-8 emulator
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/rom"
	"github.com/mnafees/chopper/pkg/sdl"
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

func init() {
	// SDL calls have to be made from the main thread
	runtime.LockOSThread()
}

func main() {
	var flags config.Flags
	fs := cli.NewFlagSet("chopper-sdl")
	flags.Register(fs)

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
	logger.Info("Chopper CHIP-8 emulator", log.String("version", buildinfo.Version(version, commit, date)))

	if err := run(flags, logger); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(flags config.Flags, logger *log.Logger) (rerr error) {
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

	io := sdl.NewIO(vm, cfg, logger)
	defer io.Destroy()

	if flags.Output.Wav != "" {
		rec := wavrec.New(cfg.Audio.SampleRate, cfg.Emulation.FrameRate, cfg.Audio.Frequency)
		io.SetRecorder(rec)
		defer func() {
			if err := rec.Save(flags.Output.Wav); err != nil && rerr == nil {
				rerr = err
			}
		}()
	}

	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		return err
	}
	return io.Loop(app.Context())
}
