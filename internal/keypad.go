package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidKey is returned when a key name can not be parsed
var ErrInvalidKey = errors.New("invalid key")

// Key identifies one of the 16 hexadecimal keypad keys
type Key uint8

// KeyCount is the number of keypad keys
const KeyCount = 16

// String returns the hex digit of the key
func (k Key) String() string {
	return strings.ToUpper(strconv.FormatUint(uint64(k), 16))
}

// ParseKey parses a single hex digit into a key
func ParseKey(s string) (Key, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil || v >= KeyCount {
		return 0, fmt.Errorf("%w '%s'", ErrInvalidKey, s)
	}
	return Key(v), nil
}

// Keypad tracks pressed keys. Keys are absent until first set and absent
// keys count as released.
type Keypad map[Key]bool

func (kp Keypad) pressed(k Key) bool {
	return kp[k]
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var qwertyLayout = map[rune]Key{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyForRune returns the keypad key bound to a QWERTY character, case insensitive.
func KeyForRune(r rune) (Key, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	k, ok := qwertyLayout[r]
	return k, ok
}
