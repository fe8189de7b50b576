package controller

import "sync/atomic"

// Stats is a snapshot of controller counters.
type Stats struct {
	Recordings   int64
	Transcribed  int64
	Superseded   int64
	HooksSent    int64
	HooksSkipped int64
	HooksDropped int64
}

type stats struct {
	recordings   atomic.Int64
	transcribed  atomic.Int64
	superseded   atomic.Int64
	hooksSent    atomic.Int64
	hooksSkipped atomic.Int64
	hooksDropped atomic.Int64
}

func (s *stats) incRecordings()   { s.recordings.Add(1) }
func (s *stats) incTranscribed()  { s.transcribed.Add(1) }
func (s *stats) incSuperseded()   { s.superseded.Add(1) }
func (s *stats) incHooksSent()    { s.hooksSent.Add(1) }
func (s *stats) incHooksSkipped() { s.hooksSkipped.Add(1) }
func (s *stats) incHooksDropped() { s.hooksDropped.Add(1) }

func (s *stats) snapshot() Stats {
	return Stats{
		Recordings:   s.recordings.Load(),
		Transcribed:  s.transcribed.Load(),
		Superseded:   s.superseded.Load(),
		HooksSent:    s.hooksSent.Load(),
		HooksSkipped: s.hooksSkipped.Load(),
		HooksDropped: s.hooksDropped.Load(),
	}
}
