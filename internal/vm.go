package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// DefaultCyclesPerFrame is the number of instructions executed per Tick
const DefaultCyclesPerFrame = 50

// State is the execution state of the VM
type State uint8

// VM states
const (
	StateStopped State = iota
	StateRunning
	StateWaitingForKey // suspended by LD Vx, K until a key is pressed
	StateHalted        // stopped by a fault
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateWaitingForKey:
		return "waiting for key"
	case StateHalted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// C8VM is an emulated CHIP-8 VM. Create it with NewC8VM, the zero value
// has no font, logger or program loaded.
type C8VM struct {
	regV   [16]uint8 // 16 general purpose 8-bit registers, VF doubles as flag register
	regI   uint16    // 16-bit register that is generally used to store memory addresses
	pc     uint16    // Program counter
	stack  Stack     // Return addresses of active subroutine calls
	memory Memory    // 4 KB global memory
	timers Timers    // Delay and sound timers
	keypad Keypad    // Pressed state of the 16 keys
	pixels Framebuffer

	drawFlag bool // Set by CLS and DRW, cleared by the host after redrawing

	state   State
	loaded  bool  // a program has been loaded since the last reset
	waitReg uint8 // register receiving the key of a pending LD Vx, K
	stopped bool  // Stop interrupted a key wait, Start resumes it
	fault   *Fault

	fontSet  FontSet
	fontBase uint16
	quirks   Quirks

	cyclesPerFrame int
	unknownOpcodes uint64

	logger *log.Logger
	rand   *rand.Rand // nil uses the global generator
}

// Option configures a VM on creation
type Option func(*C8VM) error

// WithLogger sets the logger used by the VM
func WithLogger(logger *log.Logger) Option {
	return func(vm *C8VM) error {
		vm.logger = logger
		return nil
	}
}

// WithCyclesPerFrame sets the number of instructions executed per Tick
func WithCyclesPerFrame(cycles int) Option {
	return func(vm *C8VM) error {
		if cycles <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidSpeed, cycles)
		}
		vm.cyclesPerFrame = cycles
		return nil
	}
}

// WithQuirks sets the compatibility quirks
func WithQuirks(q Quirks) Option {
	return func(vm *C8VM) error {
		vm.quirks = q
		return nil
	}
}

// WithFontSet selects the font set that is loaded at address 0
func WithFontSet(set FontSet) Option {
	return func(vm *C8VM) error {
		if int(set) >= len(fonts) {
			return fmt.Errorf("%w: %d", ErrUnknownFont, uint8(set))
		}
		vm.fontSet = set
		return nil
	}
}

// WithRandSource sets the source used by RND, mainly for deterministic tests
func WithRandSource(src rand.Source) Option {
	return func(vm *C8VM) error {
		vm.rand = rand.New(src)
		return nil
	}
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) (*C8VM, error) {
	vm := &C8VM{
		cyclesPerFrame: DefaultCyclesPerFrame,
		logger:         log.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(vm); err != nil {
			return nil, err
		}
	}
	vm.Reset()
	return vm, nil
}

// Reset clears memory, registers, stack, timers, keypad and display and
// reloads the current font. Quirks, speed and font selection are kept.
func (vm *C8VM) Reset() {
	vm.regV = [16]uint8{}
	vm.regI = 0
	vm.pc = pcStartAddr
	vm.stack = Stack{}
	vm.memory = Memory{}
	vm.timers = Timers{}
	vm.keypad = Keypad{}
	vm.pixels.clear()
	vm.drawFlag = true
	vm.state = StateStopped
	vm.loaded = false
	vm.waitReg = 0
	vm.stopped = false
	vm.fault = nil
	vm.unknownOpcodes = 0

	glyphs := vm.fontSet.Glyphs()
	// the font base was validated when it was set
	_ = vm.memory.write(vm.fontBase, glyphs[:]...)
}

// LoadROM resets the VM and copies a CHIP-8 program into memory at 0x200.
// Programs that do not fit below 0x1000 are rejected and leave the VM untouched.
func (vm *C8VM) LoadROM(rom []byte) error {
	if len(rom) > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(rom), maxProgramSize)
	}

	vm.Reset()
	if err := vm.memory.write(pcStartAddr, rom...); err != nil {
		return fmt.Errorf("copying program into memory: %w", err)
	}
	vm.loaded = true
	vm.logger.Debug("Program loaded", log.Int("size", len(rom)))
	return nil
}

// LoadFont copies the selected font set into memory at offset.
// LD F, Vx resolves digits relative to the last loaded font.
func (vm *C8VM) LoadFont(offset uint16) error {
	return vm.LoadFontSet(vm.fontSet, offset)
}

// LoadFontSet copies the given font set into memory at offset and selects it.
func (vm *C8VM) LoadFontSet(set FontSet, offset uint16) error {
	if int(set) >= len(fonts) {
		return fmt.Errorf("%w: %d", ErrUnknownFont, uint8(set))
	}
	if err := vm.memory.checkRange(offset, fontSize); err != nil {
		return fmt.Errorf("%w: offset 0x%03X", ErrFontOutOfRange, offset)
	}

	glyphs := set.Glyphs()
	_ = vm.memory.write(offset, glyphs[:]...)
	vm.fontSet = set
	vm.fontBase = offset
	vm.logger.Debug("Font loaded", log.Stringer("font", set), log.Hex("address", offset))
	return nil
}

// Start marks the VM as running so that Tick executes instructions.
func (vm *C8VM) Start() error {
	switch vm.state {
	case StateHalted:
		return vm.fault
	case StateStopped:
		if !vm.loaded {
			return ErrNoProgram
		}
		vm.state = StateRunning
		if vm.stopped {
			vm.state = StateWaitingForKey
			vm.stopped = false
		}
	}
	return nil
}

// Stop pauses a running VM. A pending LD Vx, K is resumed by the next
// Start. A halted VM stays halted.
func (vm *C8VM) Stop() {
	switch vm.state {
	case StateRunning:
		vm.state = StateStopped
	case StateWaitingForKey:
		vm.state = StateStopped
		vm.stopped = true
	}
}

// IsRunning returns whether the VM is running, including while it waits for a key
func (vm *C8VM) IsRunning() bool {
	return vm.state == StateRunning || vm.state == StateWaitingForKey
}

// State returns the current execution state
func (vm *C8VM) State() State {
	return vm.state
}

// Tick runs one frame: both timers are decremented once, then up to
// the configured number of instructions are executed. A stopped VM is
// left untouched. While waiting for a key only the timers advance.
func (vm *C8VM) Tick() error {
	switch vm.state {
	case StateHalted:
		return vm.fault
	case StateStopped:
		return nil
	}

	vm.timers.decrement()

	for range vm.cyclesPerFrame {
		if vm.state != StateRunning {
			break
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes exactly one instruction. It does nothing while the VM
// waits for a key and returns the fault of a halted VM.
func (vm *C8VM) Step() error {
	switch vm.state {
	case StateHalted:
		return vm.fault
	case StateWaitingForKey:
		return nil
	}

	pc := vm.pc
	opcode, err := vm.memory.readWord(pc)
	if err != nil {
		return vm.halt(pc, 0, err)
	}
	vm.pc += 2

	ins := Decode(opcode)
	if vm.logger.Enabled(context.Background(), log.TraceLevel) {
		vm.logger.Trace("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.Stringer("instruction", ins))
	}

	if err := vm.execute(ins); err != nil {
		vm.pc = pc
		return vm.halt(pc, opcode, err)
	}
	return nil
}

func (vm *C8VM) halt(pc, opcode uint16, err error) error {
	vm.fault = &Fault{
		PC:     pc,
		Opcode: opcode,
		Err:    err,
	}
	vm.state = StateHalted
	vm.logger.Error("VM halted",
		log.Hex("pc", pc),
		log.Hex("opcode", opcode),
		log.Err(err))
	return vm.fault
}

// SetKeyState updates the pressed state of a key. A press of a released
// key completes a pending LD Vx, K.
func (vm *C8VM) SetKeyState(key Key, pressed bool) {
	key &= 0xF
	if vm.keypad == nil {
		vm.keypad = Keypad{}
	}
	wasPressed := vm.keypad.pressed(key)
	vm.keypad[key] = pressed

	if vm.state == StateWaitingForKey && pressed && !wasPressed {
		vm.regV[vm.waitReg] = uint8(key)
		vm.state = StateRunning
		vm.logger.Debug("Key wait satisfied", log.Stringer("key", key), log.Uint8("register", vm.waitReg))
	}
}

// Key returns whether a key is pressed
func (vm *C8VM) Key(key Key) bool {
	return vm.keypad.pressed(key & 0xF)
}

// Framebuffer returns a copy of the display
func (vm *C8VM) Framebuffer() Framebuffer {
	return vm.pixels
}

// IsSoundActive returns whether the sound timer is running
func (vm *C8VM) IsSoundActive() bool {
	return vm.timers.Sound > 0
}

// IsDrawFlagSet returns whether the display changed since the last UnsetDrawFlag
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.timers.Delay
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.timers.Sound
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// I returns the index register
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// Register returns the value of Vn
func (vm *C8VM) Register(n uint8) uint8 {
	return vm.regV[n&0xF]
}

// StackDepth returns the number of active subroutine calls
func (vm *C8VM) StackDepth() int {
	return vm.stack.Len()
}

// Peek returns the memory byte at addr
func (vm *C8VM) Peek(addr uint16) (uint8, error) {
	return vm.memory.read(addr)
}

// Fault returns the fault that halted the VM, or nil
func (vm *C8VM) Fault() *Fault {
	return vm.fault
}

// UnknownOpcodes returns how many unknown opcodes were skipped since the last reset
func (vm *C8VM) UnknownOpcodes() uint64 {
	return vm.unknownOpcodes
}

// Quirks returns the active compatibility quirks
func (vm *C8VM) Quirks() Quirks {
	return vm.quirks
}

// SetQuirks changes the compatibility quirks
func (vm *C8VM) SetQuirks(q Quirks) {
	vm.quirks = q
}

// FontSet returns the selected font set
func (vm *C8VM) FontSet() FontSet {
	return vm.fontSet
}

// CyclesPerFrame returns the number of instructions executed per Tick
func (vm *C8VM) CyclesPerFrame() int {
	return vm.cyclesPerFrame
}

func (vm *C8VM) randomByte() uint8 {
	if vm.rand != nil {
		return uint8(vm.rand.UintN(256))
	}
	return uint8(rand.UintN(256))
}
