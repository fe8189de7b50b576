package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// RecorderConfig controls how a Recorder captures and finalizes audio.
type RecorderConfig struct {
	Format            Format
	TrimSilence       bool
	VADAggressiveness int
}

// Recorder drives the Idle -> Recording -> Stopped cycle. Only one recording
// can be active; a new Start replaces the previous session.
type Recorder struct {
	cfg    RecorderConfig
	source Source
	logger *logrus.Logger

	mu      sync.Mutex
	state   State
	stream  Stream
	session *Session
	pumped  chan struct{}
	last    Blob
}

// NewRecorder returns an idle recorder reading from source.
func NewRecorder(cfg RecorderConfig, source Source, logger *logrus.Logger) *Recorder {
	return &Recorder{cfg: cfg, source: source, logger: logger}
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start opens the input stream and begins accumulating chunks.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRecording {
		return ErrBusy
	}
	stream, err := r.source.Open(ctx, r.cfg.Format)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	session := NewSession(r.cfg.Format)
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		for chunk := range stream.Chunks() {
			session.Append(chunk)
		}
	}()
	r.stream = stream
	r.session = session
	r.pumped = pumped
	r.state = StateRecording
	r.logger.Debugf("recording started (%d Hz, %d ch)", r.cfg.Format.SampleRate, r.cfg.Format.Channels)
	return nil
}

// Stop releases the input stream and finalizes the session into a blob.
func (r *Recorder) Stop() (Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return Blob{}, ErrNotRecording
	}
	if err := r.stream.Close(); err != nil {
		r.logger.Warnf("close input stream: %v", err)
	}
	<-r.pumped
	r.stream = nil
	r.state = StateStopped

	samples := r.session.Samples()
	if r.cfg.TrimSilence {
		trimmed, err := TrimSilence(samples, r.cfg.Format, r.cfg.VADAggressiveness)
		if err != nil {
			r.logger.Warnf("trim silence: %v", err)
		} else {
			samples = trimmed
		}
	}
	data, err := EncodeWAV(samples, r.cfg.Format.SampleRate, r.cfg.Format.Channels)
	if err != nil {
		return Blob{}, err
	}
	r.last = Blob{Data: data, ContentType: ContentTypeWAV}
	r.logger.Debugf("recording stopped: %d chunks, %d empty dropped, %d bytes",
		r.session.Chunks(), r.session.Dropped(), r.last.Len())
	return r.last, nil
}

// Last returns the most recently finalized blob.
func (r *Recorder) Last() (Blob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, !r.last.Empty()
}
