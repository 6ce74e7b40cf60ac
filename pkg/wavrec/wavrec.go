// Package wavrec records the CHIP-8 beeper to a WAV file.
package wavrec

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth    = 8
	numChannels = 1
	pcmFormat   = 1
	volume      = 0.5
)

// Recorder collects one frame of samples per Record call
type Recorder struct {
	sampleRate      int
	samplesPerFrame int
	tone            *Tone
	frame           []uint8
	data            []int
}

// New returns a recorder for the given output sample rate, emulation
// frame rate and beeper frequency.
func New(sampleRate, frameRate, frequency int) *Recorder {
	samplesPerFrame := sampleRate / frameRate
	return &Recorder{
		sampleRate:      sampleRate,
		samplesPerFrame: samplesPerFrame,
		tone:            NewTone(sampleRate, frequency, volume),
		frame:           make([]uint8, samplesPerFrame),
	}
}

// Record appends one frame of audio, a tone while active and silence otherwise
func (r *Recorder) Record(active bool) {
	r.tone.Fill(r.frame, active)
	for _, s := range r.frame {
		r.data = append(r.data, int(s))
	}
}

// Samples returns the number of recorded samples
func (r *Recorder) Samples() int {
	return len(r.data)
}

// Write encodes the recording as 8-bit mono PCM WAV
func (r *Recorder) Write(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, r.sampleRate, bitDepth, numChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  r.sampleRate,
		},
		Data:           r.data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}
	return nil
}

// Save writes the recording to a file
func (r *Recorder) Save(filename string) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	return r.Write(f)
}
