package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// PCM is decoded 16-bit audio.
type PCM struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// EncodeWAV writes 16-bit PCM samples as a WAV file image.
func EncodeWAV(samples []int16, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid wav format: %d Hz, %d ch", sampleRate, channels)
	}
	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}
	return ws.Bytes(), nil
}

// DecodeWAV parses a WAV file image into 16-bit PCM.
func DecodeWAV(data []byte) (PCM, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return PCM{}, errors.New("not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("decode wav: %w", err)
	}
	if dec.BitDepth != 16 {
		return PCM{}, fmt.Errorf("unsupported bit depth %d; want 16", dec.BitDepth)
	}
	out := PCM{
		Samples:    make([]int16, len(buf.Data)),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}
	for i, v := range buf.Data {
		out.Samples[i] = int16(v)
	}
	return out, nil
}

// memWriteSeeker is an in-memory io.WriteSeeker; the wav encoder seeks back
// to patch chunk sizes on Close.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = int(next)
	return next, nil
}

func (m *memWriteSeeker) Bytes() []byte {
	return m.buf
}
