package sdl

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

// Recorder receives the sound state once per frame
type Recorder interface {
	Record(active bool)
}

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	beeper  *beeper

	vm       *internal.C8VM
	cfg      config.Config
	logger   *log.Logger
	recorder Recorder
	paused   bool
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, cfg config.Config, logger *log.Logger) *IO {
	return &IO{
		vm:     vm,
		cfg:    cfg,
		logger: logger,
	}
}

// SetRecorder sets a recorder that receives the sound state of every frame
func (io *IO) SetRecorder(r Recorder) {
	io.recorder = r
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	var flags uint32 = sdl.INIT_VIDEO
	if io.cfg.Audio.Enabled {
		flags |= sdl.INIT_AUDIO
	}
	if err := sdl.Init(flags); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	pixelSize := int32(io.cfg.Display.PixelSize)
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*pixelSize, internal.ScreenHeight*pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, uint32(io.cfg.Display.Background)); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}

	if io.cfg.Audio.Enabled {
		io.beeper, err = newBeeper(io.cfg.Audio, io.cfg.Emulation.FrameRate)
		if err != nil {
			// the emulator is usable without sound
			io.logger.Warn("Audio disabled", log.Err(err))
		}
	}
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.beeper != nil {
		io.beeper.close()
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// Loop is the main application loop. It runs one VM frame per tick of the
// configured frame rate until the window is closed or ctx is cancelled.
func (io *IO) Loop(ctx context.Context) error {
	if err := io.vm.Start(); err != nil {
		return fmt.Errorf("starting VM: %w", err)
	}

	ticker := time.NewTicker(time.Second / time.Duration(io.cfg.Emulation.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if !io.handleEvents() {
			return nil
		}
		if io.paused {
			continue
		}

		if err := io.vm.Tick(); err != nil {
			return fmt.Errorf("running VM: %w", err)
		}
		if io.vm.IsDrawFlagSet() {
			if err := io.draw(); err != nil {
				return err
			}
		}

		active := io.vm.IsSoundActive()
		if io.beeper != nil {
			if err := io.beeper.update(active); err != nil {
				return err
			}
		}
		if io.recorder != nil {
			io.recorder.Record(active)
		}
	}
}

// handleEvents forwards keyboard state to the VM and returns false when the user quits
func (io *IO) handleEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			code := t.Keysym.Scancode
			pressed := t.GetType() == sdl.KEYDOWN

			switch code {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_P:
				if pressed && t.Repeat == 0 {
					io.togglePause()
				}
				continue
			}

			if key, ok := keymap(code); ok {
				io.vm.SetKeyState(key, pressed)
			}
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

func (io *IO) togglePause() {
	io.paused = !io.paused
	io.logger.Info("Emulation paused", log.Bool("paused", io.paused))
	if io.paused && io.beeper != nil {
		_ = io.beeper.update(false)
	}
}

// Draws the current framebuffer on screen
func (io *IO) draw() error {
	pixelSize := int32(io.cfg.Display.PixelSize)
	if err := io.surface.FillRect(nil, uint32(io.cfg.Display.Background)); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}

	pixels := io.vm.Framebuffer()
	for y := int32(0); y < internal.ScreenHeight; y++ {
		for x := int32(0); x < internal.ScreenWidth; x++ {
			if pixels[y][x] == 0 {
				continue
			}
			rect := &sdl.Rect{X: x * pixelSize, Y: y * pixelSize, W: pixelSize, H: pixelSize}
			if err := io.surface.FillRect(rect, uint32(io.cfg.Display.Foreground)); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window: %w", err)
	}
	io.vm.UnsetDrawFlag()
	return nil
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8.
// Scancodes are layout independent, the keys keep their position
// on non QWERTY keyboards.
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) (internal.Key, bool) {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1, true
	case sdl.SCANCODE_2:
		return 0x2, true
	case sdl.SCANCODE_3:
		return 0x3, true
	case sdl.SCANCODE_4:
		return 0xC, true
	case sdl.SCANCODE_Q:
		return 0x4, true
	case sdl.SCANCODE_W:
		return 0x5, true
	case sdl.SCANCODE_E:
		return 0x6, true
	case sdl.SCANCODE_R:
		return 0xD, true
	case sdl.SCANCODE_A:
		return 0x7, true
	case sdl.SCANCODE_S:
		return 0x8, true
	case sdl.SCANCODE_D:
		return 0x9, true
	case sdl.SCANCODE_F:
		return 0xE, true
	case sdl.SCANCODE_Z:
		return 0xA, true
	case sdl.SCANCODE_X:
		return 0x0, true
	case sdl.SCANCODE_C:
		return 0xB, true
	case sdl.SCANCODE_V:
		return 0xF, true
	default:
		return 0, false
	}
}
