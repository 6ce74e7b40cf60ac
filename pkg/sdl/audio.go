package sdl

import (
	"fmt"

	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/wavrec"
	"github.com/veandco/go-sdl2/sdl"
)

const audioBufferLength = 512

// maximum number of frames of tone queued ahead of playback
const maxQueuedFrames = 3

// beeper plays a square wave while the sound timer is active
type beeper struct {
	id    sdl.AudioDeviceID
	tone  *wavrec.Tone
	frame []uint8
	// playing is set while tone data is queued
	playing bool
}

func newBeeper(cfg config.Audio, frameRate int) (*beeper, error) {
	spec := &sdl.AudioSpec{
		Freq:     int32(cfg.SampleRate),
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  audioBufferLength,
	}

	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	b := &beeper{
		id:    id,
		tone:  wavrec.NewTone(int(actual.Freq), cfg.Frequency, cfg.Volume),
		frame: make([]uint8, int(actual.Freq)/frameRate),
	}
	sdl.PauseAudioDevice(id, false)
	return b, nil
}

// update queues one frame of tone while active and drops queued audio on silence
func (b *beeper) update(active bool) error {
	if !active {
		if b.playing {
			sdl.ClearQueuedAudio(b.id)
			b.tone.Fill(b.frame[:0], false)
			b.playing = false
		}
		return nil
	}

	if sdl.GetQueuedAudioSize(b.id) > uint32(maxQueuedFrames*len(b.frame)) {
		return nil
	}
	b.tone.Fill(b.frame, true)
	if err := sdl.QueueAudio(b.id, b.frame); err != nil {
		return fmt.Errorf("queueing audio: %w", err)
	}
	b.playing = true
	return nil
}

func (b *beeper) close() {
	sdl.CloseAudioDevice(b.id)
}
