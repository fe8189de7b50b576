package audio

import "sync"

// Session accumulates the chunks of one recording. A new session is created
// on every Start; the previous one is discarded.
type Session struct {
	mu      sync.Mutex
	format  Format
	chunks  [][]int16
	samples int
	dropped int
}

// NewSession returns an empty session for the given format.
func NewSession(format Format) *Session {
	return &Session{format: format}
}

// Append stores a copy of chunk. Zero-length chunks are discarded.
func (s *Session) Append(chunk []int16) bool {
	if len(chunk) == 0 {
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
		return false
	}
	cpy := make([]int16, len(chunk))
	copy(cpy, chunk)
	s.mu.Lock()
	s.chunks = append(s.chunks, cpy)
	s.samples += len(cpy)
	s.mu.Unlock()
	return true
}

// Chunks returns the number of stored chunks.
func (s *Session) Chunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Dropped returns the number of discarded empty chunks.
func (s *Session) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Samples returns the concatenation of all stored chunks in arrival order.
func (s *Session) Samples() []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int16, 0, s.samples)
	for _, c := range s.chunks {
		out = append(out, c...)
	}
	return out
}

// Format returns the PCM layout of the session.
func (s *Session) Format() Format {
	return s.format
}

// Finalize encodes the accumulated samples as a WAV blob.
func (s *Session) Finalize() (Blob, error) {
	data, err := EncodeWAV(s.Samples(), s.format.SampleRate, s.format.Channels)
	if err != nil {
		return Blob{}, err
	}
	return Blob{Data: data, ContentType: ContentTypeWAV}, nil
}
