package internal

// Timers are the delay and sound countdown registers. Both count down once
// per frame and stop at zero.
type Timers struct {
	Delay uint8
	Sound uint8
}

func (t *Timers) decrement() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}
