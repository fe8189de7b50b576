// Package audio captures microphone input into WAV blobs and plays them back.
package audio

import (
	"context"
	"errors"
)

// ContentTypeWAV tags blobs produced by the recorder.
const ContentTypeWAV = "audio/wav"

var (
	// ErrPermission means the input device was denied or does not exist.
	ErrPermission = errors.New("microphone unavailable")
	// ErrBusy is returned by Start while a recording is in progress.
	ErrBusy = errors.New("recording already in progress")
	// ErrNotRecording is returned by Stop when nothing is being recorded.
	ErrNotRecording = errors.New("not recording")
	// ErrNoRecording is returned by Play before any blob was finalized.
	ErrNoRecording = errors.New("no finalized recording")
)

// State is the capture lifecycle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Format describes the PCM layout requested from a source.
type Format struct {
	SampleRate int
	Channels   int
	FrameMS    int
}

// FrameSamples returns the number of samples per channel in one frame.
func (f Format) FrameSamples() int {
	ms := f.FrameMS
	if ms <= 0 {
		ms = 20
	}
	return f.SampleRate * ms / 1000
}

// Blob is an immutable audio payload with its content type.
type Blob struct {
	Data        []byte
	ContentType string
}

// Len returns the payload size in bytes.
func (b Blob) Len() int { return len(b.Data) }

// Empty reports whether the blob carries no bytes.
func (b Blob) Empty() bool { return len(b.Data) == 0 }

// Source opens input streams.
type Source interface {
	Open(ctx context.Context, format Format) (Stream, error)
}

// Stream delivers captured 16-bit PCM chunks in arrival order.
// The channel is closed once Close has released the device.
type Stream interface {
	Chunks() <-chan []int16
	Close() error
}

// Device describes an input device.
type Device struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Channels  int     `json:"channels"`
	LatencyMs float64 `json:"latency_ms"`
	Default   bool    `json:"default"`
}

// Player renders a finalized blob on an output device.
type Player interface {
	Play(ctx context.Context, blob Blob) error
}
