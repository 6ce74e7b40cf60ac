package tty

import "github.com/mnafees/chopper/internal"

// keyHold turns key presses into held keys. Terminals do not report key
// releases, a pressed key is released after a number of frames without
// a repeat.
type keyHold struct {
	frames    int
	remaining [internal.KeyCount]int
}

func newKeyHold(frames int) *keyHold {
	return &keyHold{frames: frames}
}

// press holds the key and returns whether it was released before
func (kh *keyHold) press(key internal.Key) bool {
	idx := key & 0xF
	released := kh.remaining[idx] == 0
	kh.remaining[idx] = kh.frames
	return released
}

// frame advances all hold counters by one frame and returns the keys
// that are released by it.
func (kh *keyHold) frame() []internal.Key {
	var released []internal.Key
	for i, n := range kh.remaining {
		if n == 0 {
			continue
		}
		kh.remaining[i] = n - 1
		if n == 1 {
			released = append(released, internal.Key(i))
		}
	}
	return released
}
