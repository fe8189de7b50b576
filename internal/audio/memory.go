package audio

import (
	"context"
	"sync"
)

// MemorySource replays fixed chunks; used for file input and tests.
type MemorySource struct {
	Chunks [][]int16
	// Hold keeps the stream open after the chunks are delivered until Close.
	Hold bool
	Err  error
}

// Open returns a stream that emits the configured chunks in order.
func (m *MemorySource) Open(ctx context.Context, _ Format) (Stream, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s := &memStream{out: make(chan []int16), stop: make(chan struct{})}
	go func() {
		defer close(s.out)
		for _, c := range m.Chunks {
			select {
			case s.out <- c:
			case <-ctx.Done():
				return
			}
		}
		if m.Hold {
			select {
			case <-s.stop:
			case <-ctx.Done():
			}
		}
	}()
	return s, nil
}

type memStream struct {
	out  chan []int16
	stop chan struct{}
	once sync.Once
}

func (s *memStream) Chunks() <-chan []int16 { return s.out }

func (s *memStream) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
