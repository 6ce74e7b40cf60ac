package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// program encodes opcodes as a big-endian ROM image
func program(opcodes ...uint16) []byte {
	rom := make([]byte, 0, 2*len(opcodes))
	for _, op := range opcodes {
		rom = append(rom, byte(op>>8), byte(op))
	}
	return rom
}

func newTestVM(t *testing.T, opcodes ...uint16) *C8VM {
	t.Helper()
	vm, err := NewC8VM()
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadROM(program(opcodes...)))
	return vm
}

func steps(t *testing.T, vm *C8VM, n int) {
	t.Helper()
	for range n {
		assert.NoError(t, vm.Step())
	}
}

func TestNewC8VM(t *testing.T) {
	vm, err := NewC8VM(WithLogger(log.NewTestLogger(t)))
	assert.NoError(t, err)

	assert.Equal(t, pcStartAddr, vm.PC())
	assert.Equal(t, StateStopped, vm.State())
	assert.False(t, vm.IsRunning())
	assert.Equal(t, DefaultCyclesPerFrame, vm.CyclesPerFrame())

	glyphs := FontCHIP8.Glyphs()
	for i, b := range glyphs {
		v, err := vm.Peek(uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, b, v)
	}
}

func TestNewC8VMInvalidOptions(t *testing.T) {
	_, err := NewC8VM(WithCyclesPerFrame(0))
	assert.ErrorIs(t, err, ErrInvalidSpeed)

	_, err = NewC8VM(WithFontSet(FontSet(99)))
	assert.ErrorIs(t, err, ErrUnknownFont)
}

func TestLoadROM(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	assert.NoError(t, vm.LoadROM([]byte{0x12, 0x34, 0x56}))
	for i, want := range []uint8{0x12, 0x34, 0x56} {
		v, err := vm.Peek(pcStartAddr + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, want, v)
	}

	full := make([]byte, maxProgramSize)
	full[len(full)-1] = 0xAB
	assert.NoError(t, vm.LoadROM(full))
	v, err := vm.Peek(0xFFF)
	assert.NoError(t, err)
	assert.Equal(t, 0xAB, v)
}

func TestLoadROMTooLarge(t *testing.T) {
	vm := newTestVM(t, 0x6005)
	steps(t, vm, 1)

	err := vm.LoadROM(make([]byte, maxProgramSize+1))
	assert.ErrorIs(t, err, ErrROMTooLarge)

	// the previous program and state are untouched
	assert.Equal(t, 5, vm.Register(0))
	v, err := vm.Peek(pcStartAddr)
	assert.NoError(t, err)
	assert.Equal(t, 0x60, v)
}

func TestLoadROMResets(t *testing.T) {
	vm := newTestVM(t, 0x6A07, 0xFA15)
	steps(t, vm, 2)
	assert.Equal(t, 7, vm.Register(0xA))
	assert.Equal(t, 7, vm.DelayTimer())

	assert.NoError(t, vm.LoadROM(program(0x00E0)))
	assert.Equal(t, 0, vm.Register(0xA))
	assert.Equal(t, 0, vm.DelayTimer())
	assert.Equal(t, pcStartAddr, vm.PC())
	assert.Equal(t, StateStopped, vm.State())
}

func TestStartRequiresProgram(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)
	assert.ErrorIs(t, vm.Start(), ErrNoProgram)

	assert.NoError(t, vm.LoadROM(program(0x1200)))
	assert.NoError(t, vm.Start())
	assert.True(t, vm.IsRunning())

	vm.Stop()
	assert.False(t, vm.IsRunning())
	assert.Equal(t, StateStopped, vm.State())
}

func TestTickStoppedDoesNothing(t *testing.T) {
	vm := newTestVM(t, 0x6A07, 0xFA15)
	steps(t, vm, 2)
	assert.Equal(t, 7, vm.DelayTimer())
	pc := vm.PC()

	assert.NoError(t, vm.Tick())
	assert.Equal(t, 7, vm.DelayTimer())
	assert.Equal(t, pc, vm.PC())
}

func TestTickRunsCyclesPerFrame(t *testing.T) {
	vm, err := NewC8VM(WithCyclesPerFrame(3))
	assert.NoError(t, err)
	// ADD V0, 1 forever
	assert.NoError(t, vm.LoadROM(program(0x7001, 0x7001, 0x7001, 0x7001, 0x7001, 0x7001, 0x1200)))
	assert.NoError(t, vm.Start())

	assert.NoError(t, vm.Tick())
	assert.Equal(t, 3, vm.Register(0))
	assert.Equal(t, 0x206, vm.PC())

	assert.NoError(t, vm.Tick())
	assert.Equal(t, 6, vm.Register(0))
}

func TestTickTimersOncePerFrame(t *testing.T) {
	vm := newTestVM(t, 0x6005, 0xF015, 0xF018, 0x1206)
	steps(t, vm, 3)
	assert.Equal(t, 5, vm.DelayTimer())
	assert.Equal(t, 5, vm.SoundTimer())
	assert.True(t, vm.IsSoundActive())

	assert.NoError(t, vm.Start())
	for n := 1; n <= 8; n++ {
		assert.NoError(t, vm.Tick())
		want := max(0, 5-n)
		assert.Equal(t, want, vm.DelayTimer())
		assert.Equal(t, want, vm.SoundTimer())
	}
	assert.False(t, vm.IsSoundActive())
}

func TestTickDecrementsBeforeExecuting(t *testing.T) {
	// LD V0, 3; LD DT, V0; LD V1, DT; JP self
	vm, err := NewC8VM(WithCyclesPerFrame(3))
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadROM(program(0x6003, 0xF015, 0xF107, 0x1206)))
	assert.NoError(t, vm.Start())

	assert.NoError(t, vm.Tick())
	assert.Equal(t, 3, vm.Register(1))

	assert.NoError(t, vm.Tick())
	assert.Equal(t, 2, vm.DelayTimer())
}

func TestKeyWaitSuspends(t *testing.T) {
	// LD V3, K; LD V4, 1; JP self
	vm := newTestVM(t, 0xF30A, 0x6401, 0x1204)
	assert.NoError(t, vm.Start())
	vm.timers.Delay = 10

	assert.NoError(t, vm.Tick())
	assert.Equal(t, StateWaitingForKey, vm.State())
	assert.True(t, vm.IsRunning())
	assert.Equal(t, 0x202, vm.PC())

	// timers keep running, no instruction executes
	for range 3 {
		assert.NoError(t, vm.Tick())
	}
	assert.Equal(t, 6, vm.DelayTimer())
	assert.Equal(t, 0x202, vm.PC())
	assert.Equal(t, 0, vm.Register(4))
	assert.NoError(t, vm.Step())
	assert.Equal(t, 0x202, vm.PC())

	// releases do not satisfy the wait
	vm.SetKeyState(0x7, false)
	assert.Equal(t, StateWaitingForKey, vm.State())

	vm.SetKeyState(0xB, true)
	assert.Equal(t, StateRunning, vm.State())
	assert.Equal(t, 0xB, vm.Register(3))

	assert.NoError(t, vm.Tick())
	assert.Equal(t, 1, vm.Register(4))
}

func TestKeyWaitIgnoresHeldKeys(t *testing.T) {
	vm := newTestVM(t, 0xF00A)
	vm.SetKeyState(0x5, true)
	steps(t, vm, 1)
	assert.Equal(t, StateWaitingForKey, vm.State())

	// still held, reported again
	vm.SetKeyState(0x5, true)
	assert.Equal(t, StateWaitingForKey, vm.State())

	vm.SetKeyState(0x5, false)
	vm.SetKeyState(0x5, true)
	assert.Equal(t, StateRunning, vm.State())
	assert.Equal(t, 0x5, vm.Register(0))
}

func TestKeyWaitSurvivesStop(t *testing.T) {
	// LD V5, K; JP self
	vm := newTestVM(t, 0xF50A, 0x1202)
	assert.NoError(t, vm.Start())
	assert.NoError(t, vm.Tick())
	assert.Equal(t, StateWaitingForKey, vm.State())

	vm.Stop()
	assert.Equal(t, StateStopped, vm.State())
	assert.False(t, vm.IsRunning())

	assert.NoError(t, vm.Start())
	assert.Equal(t, StateWaitingForKey, vm.State())
	assert.NoError(t, vm.Tick())
	assert.Equal(t, 0x202, vm.PC())

	vm.SetKeyState(0x7, true)
	assert.Equal(t, StateRunning, vm.State())
	assert.Equal(t, 0x7, vm.Register(5))

	// a plain stop and start keeps running
	vm.Stop()
	assert.NoError(t, vm.Start())
	assert.Equal(t, StateRunning, vm.State())
}

func TestKeyWaitClearedByReset(t *testing.T) {
	vm := newTestVM(t, 0xF50A)
	assert.NoError(t, vm.Start())
	assert.NoError(t, vm.Tick())
	vm.Stop()

	assert.NoError(t, vm.LoadROM(program(0x6001)))
	assert.NoError(t, vm.Start())
	assert.Equal(t, StateRunning, vm.State())
}

func TestZeroValueKeyState(t *testing.T) {
	var vm C8VM
	vm.SetKeyState(0x3, true)
	assert.True(t, vm.Key(0x3))
}

func TestKeyState(t *testing.T) {
	vm := newTestVM(t)
	assert.False(t, vm.Key(0xA))
	vm.SetKeyState(0xA, true)
	assert.True(t, vm.Key(0xA))
	vm.SetKeyState(0xA, false)
	assert.False(t, vm.Key(0xA))
}

func TestFaultHaltsVM(t *testing.T) {
	// LD I, 0xFFE; LD V2, 7; LD [I], V2
	vm := newTestVM(t, 0xAFFE, 0x6207, 0xF255)
	steps(t, vm, 2)

	err := vm.Step()
	assert.ErrorIs(t, err, ErrAddressOutOfRange)

	var fault *Fault
	assert.ErrorAs(t, err, &fault)
	assert.Equal(t, 0x204, fault.PC)
	assert.Equal(t, 0xF255, fault.Opcode)

	assert.Equal(t, StateHalted, vm.State())
	assert.False(t, vm.IsRunning())
	assert.Equal(t, fault, vm.Fault())
	assert.Equal(t, 0x204, vm.PC())

	// nothing was written
	v, err := vm.Peek(0xFFE)
	assert.NoError(t, err)
	assert.Equal(t, 0, v)

	assert.ErrorIs(t, vm.Step(), ErrAddressOutOfRange)
	assert.ErrorIs(t, vm.Tick(), ErrAddressOutOfRange)
	assert.ErrorIs(t, vm.Start(), ErrAddressOutOfRange)

	vm.Reset()
	assert.Nil(t, vm.Fault())
	assert.Equal(t, StateStopped, vm.State())
}

func TestFaultPCOutOfRange(t *testing.T) {
	vm := newTestVM(t, 0x1FFF)
	steps(t, vm, 1)
	assert.Equal(t, 0xFFF, vm.PC())

	err := vm.Step()
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
	assert.Equal(t, 0xFFF, vm.Fault().PC)
	assert.Equal(t, 0, vm.Fault().Opcode)
}

func TestFaultStopsTick(t *testing.T) {
	vm := newTestVM(t, 0x7001, 0x1FFF)
	assert.NoError(t, vm.Start())

	err := vm.Tick()
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
	assert.Equal(t, 1, vm.Register(0))
	assert.Equal(t, StateHalted, vm.State())
}

func TestStackOverflow(t *testing.T) {
	// CALL 0x200 recursively
	vm := newTestVM(t, 0x2200)
	steps(t, vm, stackDepth)
	assert.Equal(t, stackDepth, vm.StackDepth())

	err := vm.Step()
	assert.ErrorIs(t, err, ErrStackOverflow)
	assert.Equal(t, stackDepth, vm.StackDepth())
	assert.Equal(t, pcStartAddr, vm.PC())
}

func TestUnknownOpcode(t *testing.T) {
	vm, err := NewC8VM(WithLogger(log.NewTestLogger(t)))
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadROM(program(0xFFFF, 0x5121, 0x0123, 0x6042)))

	steps(t, vm, 3)
	assert.Equal(t, 0x206, vm.PC())
	assert.Equal(t, 3, vm.UnknownOpcodes())
	assert.Nil(t, vm.Fault())

	steps(t, vm, 1)
	assert.Equal(t, 0x42, vm.Register(0))
}

func TestMultipleVMsAreIndependent(t *testing.T) {
	a := newTestVM(t, 0x6011)
	b := newTestVM(t, 0x6022)
	steps(t, a, 1)
	assert.Equal(t, 0x11, a.Register(0))
	assert.Equal(t, 0, b.Register(0))
}

func TestLoadFont(t *testing.T) {
	vm := newTestVM(t, 0x6A0A, 0xFA29)

	assert.NoError(t, vm.LoadFontSet(FontVIP, 0x050))
	steps(t, vm, 2)
	assert.Equal(t, 0x050+0xA*5, vm.I())

	glyphs := FontVIP.Glyphs()
	v, err := vm.Peek(0x050 + 1)
	assert.NoError(t, err)
	assert.Equal(t, glyphs[1], v)
}

func TestLoadFontOutOfRange(t *testing.T) {
	vm := newTestVM(t)
	assert.NoError(t, vm.LoadFont(0x1000-fontSize))
	assert.ErrorIs(t, vm.LoadFont(0x1000-fontSize+1), ErrFontOutOfRange)
	assert.ErrorIs(t, vm.LoadFont(0xFFFF), ErrFontOutOfRange)
	assert.ErrorIs(t, vm.LoadFontSet(FontSet(42), 0), ErrUnknownFont)
}

func TestResetKeepsFont(t *testing.T) {
	vm, err := NewC8VM(WithFontSet(FontFishie))
	assert.NoError(t, err)
	assert.NoError(t, vm.LoadFont(0x100))
	vm.Reset()

	glyphs := FontFishie.Glyphs()
	v, err := vm.Peek(0x100)
	assert.NoError(t, err)
	assert.Equal(t, glyphs[0], v)
	assert.Equal(t, FontFishie, vm.FontSet())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "waiting for key", StateWaitingForKey.String())
	assert.Equal(t, "State(9)", State(9).String())
}
