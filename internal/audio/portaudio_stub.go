//go:build !portaudio

package audio

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Available reports whether this build can talk to real audio devices.
const Available = false

var errNoPortAudio = errors.New("build with '-tags portaudio' to enable audio devices (PortAudio required)")

type stubSource struct{}

// NewMicSource returns the microphone source for this build.
func NewMicSource(string, *logrus.Logger) Source {
	return stubSource{}
}

func (stubSource) Open(context.Context, Format) (Stream, error) {
	return nil, fmt.Errorf("%w: %v", ErrPermission, errNoPortAudio)
}

type stubPlayer struct{}

// NewSpeaker returns the playback device for this build.
func NewSpeaker() Player {
	return stubPlayer{}
}

func (stubPlayer) Play(_ context.Context, blob Blob) error {
	if blob.Empty() {
		return ErrNoRecording
	}
	return errNoPortAudio
}

// ListInputDevices is unavailable without PortAudio.
func ListInputDevices() ([]Device, error) {
	return nil, errNoPortAudio
}

// Probe reports that PortAudio support is not compiled in.
func Probe() error {
	return errNoPortAudio
}
