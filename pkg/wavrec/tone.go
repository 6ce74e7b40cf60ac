package wavrec

// Silence is the zero level of unsigned 8-bit PCM
const Silence = 0x80

// Tone generates an unsigned 8-bit mono square wave
type Tone struct {
	step      float64 // phase advance per sample
	phase     float64
	amplitude uint8
}

// NewTone returns a square wave generator. volume is clamped to [0, 1].
func NewTone(sampleRate, frequency int, volume float64) *Tone {
	volume = min(max(volume, 0), 1)
	return &Tone{
		step:      float64(frequency) / float64(sampleRate),
		amplitude: uint8(volume * 127),
	}
}

// Fill writes the next samples into buf. While inactive it writes silence
// and restarts the wave so that every beep begins on a rising edge.
func (t *Tone) Fill(buf []uint8, active bool) {
	if !active {
		t.phase = 0
		for i := range buf {
			buf[i] = Silence
		}
		return
	}

	for i := range buf {
		if t.phase < 0.5 {
			buf[i] = Silence + t.amplitude
		} else {
			buf[i] = Silence - t.amplitude
		}
		t.phase += t.step
		if t.phase >= 1 {
			t.phase -= 1
		}
	}
}
