package tty

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// rawMode switches a terminal into raw mode and back
type rawMode struct {
	input   *os.File
	canAttr unix.Termios
}

// enterRawMode puts the input terminal into raw mode. Reads return after
// a tenth of a second without input so that the reader can be stopped.
func enterRawMode(input *os.File) (*rawMode, error) {
	rm := &rawMode{input: input}
	if err := termios.Tcgetattr(input.Fd(), &rm.canAttr); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}

	rawAttr := rm.canAttr
	termios.Cfmakeraw(&rawAttr)
	rawAttr.Cc[unix.VMIN] = 0
	rawAttr.Cc[unix.VTIME] = 1

	if err := termios.Tcsetattr(input.Fd(), termios.TCIFLUSH, &rawAttr); err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	return rm, nil
}

// restore puts the terminal back into canonical mode
func (rm *rawMode) restore() error {
	if err := termios.Tcsetattr(rm.input.Fd(), termios.TCIFLUSH, &rm.canAttr); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}
