package audio

import (
	"encoding/binary"
	"fmt"

	vad "github.com/maxhawkins/go-webrtcvad"
)

// TrimSilence drops leading and trailing frames that WebRTC VAD classifies
// as non-speech. Only mono 8/16/32/48 kHz audio with 10/20/30 ms frames is
// supported.
func TrimSilence(samples []int16, format Format, aggressiveness int) ([]int16, error) {
	if format.Channels != 1 {
		return samples, fmt.Errorf("silence trim needs mono input (got %d channels)", format.Channels)
	}
	frame := format.FrameSamples()
	v, err := vad.New()
	if err != nil {
		return samples, fmt.Errorf("vad init: %w", err)
	}
	if !v.ValidRateAndFrameLength(format.SampleRate, frame) {
		return samples, fmt.Errorf("invalid frame_ms %d for sample_rate %d", format.FrameMS, format.SampleRate)
	}
	if err := v.SetMode(aggressiveness); err != nil {
		return samples, fmt.Errorf("vad mode: %w", err)
	}

	first, last := -1, -1
	raw := make([]byte, frame*2)
	for i := 0; i+frame <= len(samples); i += frame {
		for j, s := range samples[i : i+frame] {
			binary.LittleEndian.PutUint16(raw[j*2:], uint16(s))
		}
		voice, err := v.Process(format.SampleRate, raw)
		if err != nil {
			return samples, fmt.Errorf("vad process: %w", err)
		}
		if voice {
			if first < 0 {
				first = i
			}
			last = i + frame
		}
	}
	if first < 0 {
		return samples[:0], nil
	}
	return samples[first:last], nil
}
