//go:build portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// Available reports whether this build can talk to real audio devices.
const Available = true

// PortAudioSource captures from a PortAudio input device.
type PortAudioSource struct {
	DeviceName string
	Logger     *logrus.Logger
}

// NewMicSource returns the microphone source for this build.
func NewMicSource(deviceName string, logger *logrus.Logger) Source {
	return &PortAudioSource{DeviceName: deviceName, Logger: logger}
}

// NewSpeaker returns the playback device for this build.
func NewSpeaker() Player {
	return &PortAudioPlayer{}
}

// Open initializes PortAudio and starts reading frames on a goroutine.
func (s *PortAudioSource) Open(ctx context.Context, format Format) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %v", ErrPermission, err)
	}
	dev, err := selectDevice(s.DeviceName)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrPermission, err)
	}
	frame := format.FrameSamples()
	buf := make([]int16, frame*format.Channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: format.Channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(format.SampleRate),
		FramesPerBuffer: frame,
	}, &buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: open stream: %v", ErrPermission, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: start stream: %v", ErrPermission, err)
	}
	if s.Logger != nil {
		s.Logger.Infof("recording from mic: %s @ %d Hz", dev.Name, format.SampleRate)
	}

	ps := &paStream{
		stream: stream,
		out:    make(chan []int16, 64),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: s.Logger,
	}
	go ps.loop(ctx, buf)
	return ps, nil
}

type paStream struct {
	stream *portaudio.Stream
	out    chan []int16
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	logger *logrus.Logger
}

func (p *paStream) Chunks() <-chan []int16 { return p.out }

func (p *paStream) loop(ctx context.Context, buf []int16) {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		default:
		}
		if err := p.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				if p.logger != nil {
					p.logger.Warn("input overflow")
				}
				continue
			}
			if p.logger != nil {
				p.logger.Errorf("stream read: %v", err)
			}
			return
		}
		chunk := make([]int16, len(buf))
		copy(chunk, buf)
		select {
		case p.out <- chunk:
		case <-p.stop:
			return
		}
	}
}

// Close stops the read loop, releases the device and closes the chunk channel.
func (p *paStream) Close() error {
	var err error
	p.once.Do(func() {
		close(p.stop)
		<-p.done
		if stopErr := p.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := p.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		_ = portaudio.Terminate()
		close(p.out)
	})
	return err
}

// PortAudioPlayer plays blobs on the default output device.
type PortAudioPlayer struct {
	mu      sync.Mutex
	playing bool
}

// Play decodes the blob and writes it to the default output stream.
func (p *PortAudioPlayer) Play(ctx context.Context, blob Blob) error {
	if blob.Empty() {
		return ErrNoRecording
	}
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return fmt.Errorf("already playing")
	}
	p.playing = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	pcm, err := DecodeWAV(blob.Data)
	if err != nil {
		return err
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	const framesPerBuffer = 1024
	buf := make([]int16, framesPerBuffer*pcm.Channels)
	stream, err := portaudio.OpenDefaultStream(0, pcm.Channels, float64(pcm.SampleRate), framesPerBuffer, &buf)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer stream.Stop()

	for pos := 0; pos < len(pcm.Samples); pos += len(buf) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := copy(buf, pcm.Samples[pos:])
		clear(buf[n:])
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write output stream: %w", err)
		}
	}
	return nil
}

// ListInputDevices returns all devices with at least one input channel.
func ListInputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	def, _ := portaudio.DefaultInputDevice()
	out := []Device{}
	for i, d := range devs {
		if d.MaxInputChannels < 1 {
			continue
		}
		out = append(out, Device{
			Index:     i,
			Name:      d.Name,
			Channels:  d.MaxInputChannels,
			LatencyMs: d.DefaultLowInputLatency.Seconds() * 1000,
			Default:   def != nil && d.Name == def.Name,
		})
	}
	return out, nil
}

// Probe checks that PortAudio can be initialized.
func Probe() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

func selectDevice(preferred string) (*portaudio.DeviceInfo, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if preferred != "" && preferred != "default" {
		for _, d := range devs {
			if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(preferred)) {
				return d, nil
			}
		}
	}
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		return def, nil
	}
	for _, d := range devs {
		if d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no input devices found")
}
