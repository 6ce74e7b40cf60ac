package internal

import "fmt"

// Memory map constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
)

// Memory is the 4 KB address space shared by font, program and data.
// Every access is bounds checked; nothing wraps past 0xFFF.
type Memory [totalMemory]uint8

// checkRange returns an error unless addr..addr+n-1 lies inside memory.
func (m *Memory) checkRange(addr uint16, n int) error {
	if int(addr)+n > totalMemory {
		return fmt.Errorf("%w: 0x%04X+%d", ErrAddressOutOfRange, addr, n)
	}
	return nil
}

func (m *Memory) read(addr uint16) (uint8, error) {
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m[addr], nil
}

// readWord reads a big-endian 16-bit value
func (m *Memory) readWord(addr uint16) (uint16, error) {
	if err := m.checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

func (m *Memory) write(addr uint16, data ...uint8) error {
	if err := m.checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(m[addr:], data)
	return nil
}
