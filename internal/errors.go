package internal

import (
	"errors"
	"fmt"
)

// Errors returned by the VM
var (
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrROMTooLarge       = errors.New("program size exceeds the maximum size")
	ErrFontOutOfRange    = errors.New("font does not fit in memory")
	ErrNoProgram         = errors.New("no program loaded")
	ErrInvalidSpeed      = errors.New("cycles per frame must be positive")
)

// Fault describes the instruction that halted the VM
type Fault struct {
	PC     uint16 // address of the faulting instruction
	Opcode uint16 // 0 when the fetch itself failed
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at 0x%03X (opcode %04X): %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
