package internal

const stackDepth = 16

// Stack holds subroutine return addresses
type Stack struct {
	entries [stackDepth]uint16
	sp      uint8
}

func (s *Stack) push(addr uint16) error {
	if int(s.sp) == stackDepth {
		return ErrStackOverflow
	}
	s.entries[s.sp] = addr
	s.sp++
	return nil
}

// pop reports false on an empty stack
func (s *Stack) pop() (uint16, bool) {
	if s.sp == 0 {
		return 0, false
	}
	s.sp--
	return s.entries[s.sp], true
}

// Len returns the number of return addresses on the stack
func (s *Stack) Len() int {
	return int(s.sp)
}
