package tty

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/config"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestKeyHold(t *testing.T) {
	kh := newKeyHold(2)
	assert.True(t, kh.press(0xA))
	assert.False(t, kh.press(0xA))

	assert.Len(t, kh.frame(), 0)
	assert.Equal(t, []internal.Key{0xA}, kh.frame())
	assert.Len(t, kh.frame(), 0)

	// a repeat keeps the key held
	kh.press(0x1)
	kh.frame()
	kh.press(0x1)
	assert.Len(t, kh.frame(), 0)
	assert.Equal(t, []internal.Key{0x1}, kh.frame())
}

func TestRender(t *testing.T) {
	var fb internal.Framebuffer
	fb[0][0] = 1
	fb[1][0] = 1
	fb[0][1] = 1
	fb[1][2] = 1
	fb[31][63] = 1

	lines := Render(fb)
	assert.Len(t, lines, internal.ScreenHeight/2)
	assert.True(t, strings.HasPrefix(lines[0], "█▀▄ "))
	assert.Equal(t, internal.ScreenWidth, len([]rune(lines[0])))
	assert.True(t, strings.HasSuffix(lines[15], "▄"))
	assert.Equal(t, strings.Repeat(" ", internal.ScreenWidth), lines[7])
}

func newTestTerminal(t *testing.T) (*Terminal, *internal.C8VM) {
	t.Helper()
	cfg := config.Default()
	cfg.Terminal.KeyHoldFrames = 2

	vm, err := cfg.NewVM(log.NewTestLogger(t))
	assert.NoError(t, err)
	vm.UnsetDrawFlag()
	return New(vm, cfg, log.NewTestLogger(t)), vm
}

func TestHandleInput(t *testing.T) {
	term, vm := newTestTerminal(t)

	assert.True(t, term.handleInput('x'))
	assert.True(t, vm.Key(0x0))
	assert.True(t, term.handleInput('V'))
	assert.True(t, vm.Key(0xF))
	assert.True(t, term.handleInput('m'))

	assert.True(t, term.handleInput(keyPause))
	assert.True(t, term.paused)
	assert.True(t, term.handleInput(keyPause))
	assert.False(t, term.paused)

	assert.False(t, term.handleInput(keyEscape))
	assert.False(t, term.handleInput(keyCtrlC))
}

func TestFrameReleasesKeys(t *testing.T) {
	term, vm := newTestTerminal(t)

	term.handleInput('x')
	assert.NoError(t, term.frame())
	assert.True(t, vm.Key(0x0))
	assert.NoError(t, term.frame())
	assert.False(t, vm.Key(0x0))
}

type soundLog []bool

func (s *soundLog) Record(active bool) {
	*s = append(*s, active)
}

func TestFrameRecordsSound(t *testing.T) {
	term, _ := newTestTerminal(t)
	var rec soundLog
	term.SetRecorder(&rec)

	assert.NoError(t, term.frame())
	assert.NoError(t, term.frame())
	assert.Equal(t, []bool{false, false}, []bool(rec))
}

func TestReadInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan byte, 4)
	go readInput(ctx, strings.NewReader("ab"), input)
	assert.Equal(t, byte('a'), <-input)
	assert.Equal(t, byte('b'), <-input)
}

type countingReader struct {
	reads atomic.Int32
}

func (r *countingReader) Read([]byte) (int, error) {
	r.reads.Add(1)
	time.Sleep(time.Millisecond)
	return 0, io.EOF
}

func TestStopReaderWaitsForExit(t *testing.T) {
	r := &countingReader{}
	stop := startReader(context.Background(), r, make(chan byte))
	for r.reads.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	stop()
	reads := r.reads.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, reads, r.reads.Load())
}

func TestEnterRawModeNoTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "input"))
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	_, err = enterRawMode(f)
	assert.Error(t, err)
}
