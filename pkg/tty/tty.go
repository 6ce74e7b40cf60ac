// Package tty runs the VM inside a terminal, drawing the display with
// block characters and reading the keypad from raw keyboard input.
package tty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tm "github.com/buger/goterm"
	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/config"
	"github.com/retroenv/retrogolib/log"
)

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
	keyPause  = 'p'
)

// Recorder receives the sound state once per frame
type Recorder interface {
	Record(active bool)
}

// Terminal is the terminal frontend
type Terminal struct {
	vm       *internal.C8VM
	cfg      config.Config
	logger   *log.Logger
	recorder Recorder

	keys   *keyHold
	paused bool
}

// New returns a terminal frontend for the VM
func New(vm *internal.C8VM, cfg config.Config, logger *log.Logger) *Terminal {
	return &Terminal{
		vm:     vm,
		cfg:    cfg,
		logger: logger,
		keys:   newKeyHold(cfg.Terminal.KeyHoldFrames),
	}
}

// SetRecorder sets a recorder that receives the sound state of every frame
func (t *Terminal) SetRecorder(r Recorder) {
	t.recorder = r
}

// Run starts the VM and runs it until escape is pressed, ctx is
// cancelled or the VM halts. The terminal is restored on return.
func (t *Terminal) Run(ctx context.Context) (rerr error) {
	if err := t.vm.Start(); err != nil {
		return fmt.Errorf("starting VM: %w", err)
	}

	rm, err := enterRawMode(os.Stdin)
	if err != nil {
		return err
	}
	defer func() {
		if err := rm.restore(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	input := make(chan byte, 16)
	// the reader has to be gone before the terminal leaves raw mode
	stopReader := startReader(ctx, os.Stdin, input)
	defer stopReader()

	tm.Clear()
	ticker := time.NewTicker(time.Second / time.Duration(t.cfg.Emulation.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case b := <-input:
			if !t.handleInput(b) {
				return nil
			}

		case <-ticker.C:
			if err := t.frame(); err != nil {
				return err
			}
		}
	}
}

// handleInput processes one input byte and returns false when the user quits
func (t *Terminal) handleInput(b byte) bool {
	switch b {
	case keyEscape, keyCtrlC:
		return false
	case keyPause:
		t.paused = !t.paused
		return true
	}

	if key, ok := internal.KeyForRune(rune(b)); ok {
		if t.keys.press(key) {
			t.vm.SetKeyState(key, true)
		}
	}
	return true
}

// frame runs one VM frame and redraws the screen when needed
func (t *Terminal) frame() error {
	if t.paused {
		t.drawStatus()
		tm.Flush()
		return nil
	}

	for _, key := range t.keys.frame() {
		t.vm.SetKeyState(key, false)
	}
	if err := t.vm.Tick(); err != nil {
		return fmt.Errorf("running VM: %w", err)
	}
	if t.recorder != nil {
		t.recorder.Record(t.vm.IsSoundActive())
	}

	if !t.vm.IsDrawFlagSet() {
		return nil
	}
	for i, line := range Render(t.vm.Framebuffer()) {
		tm.MoveCursor(1, i+1)
		tm.Print(line)
	}
	t.drawStatus()
	tm.Flush()
	t.vm.UnsetDrawFlag()
	return nil
}

func (t *Terminal) drawStatus() {
	status := "ESC quit  P pause"
	if t.paused {
		status = "PAUSED   ESC quit  P resume"
	}
	tm.MoveCursor(1, internal.ScreenHeight/2+1)
	tm.Print(fmt.Sprintf("%-32s", status))
}

// startReader forwards input from r in the background. The returned
// function stops the reader and waits for it to exit.
func startReader(ctx context.Context, r io.Reader, input chan<- byte) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		readInput(ctx, r, input)
	}()
	return func() {
		cancel()
		<-done
	}
}

// readInput forwards bytes read from r until ctx is done
func readInput(ctx context.Context, r io.Reader, input chan<- byte) {
	buf := make([]byte, 16)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}
		for _, b := range buf[:n] {
			select {
			case input <- b:
			case <-ctx.Done():
				return
			}
		}
	}
}
