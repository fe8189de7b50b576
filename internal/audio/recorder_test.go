package audio

import (
	"context"
	"errors"
	"slices"
	"testing"

	"voxdesk/internal/logging"
)

var testFormat = Format{SampleRate: 16000, Channels: 1, FrameMS: 20}

func newTestRecorder(src Source) *Recorder {
	return NewRecorder(RecorderConfig{Format: testFormat}, src, logging.NewTestLogger())
}

func TestRecorderConcatenatesNonEmptyChunksInOrder(t *testing.T) {
	src := &MemorySource{
		Chunks: [][]int16{{1, 2, 3}, {}, {4, 5}, nil, {6}},
		Hold:   true,
	}
	r := newTestRecorder(src)
	if r.State() != StateIdle {
		t.Fatalf("new recorder should be idle, got %s", r.State())
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if r.State() != StateRecording {
		t.Fatalf("expected recording, got %s", r.State())
	}
	blob, err := r.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if r.State() != StateStopped {
		t.Fatalf("expected stopped, got %s", r.State())
	}
	if blob.ContentType != ContentTypeWAV {
		t.Fatalf("content type %q", blob.ContentType)
	}
	pcm, err := DecodeWAV(blob.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := []int16{1, 2, 3, 4, 5, 6}; !slices.Equal(pcm.Samples, want) {
		t.Fatalf("samples %v want %v", pcm.Samples, want)
	}
	if last, ok := r.Last(); !ok || last.Len() != blob.Len() {
		t.Fatalf("last blob not retained")
	}
}

func TestRecorderRejectsDoubleStartAndIdleStop(t *testing.T) {
	r := newTestRecorder(&MemorySource{Hold: true})
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("stop while idle: got %v", err)
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second start: got %v", err)
	}
	if _, err := r.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestRecorderRestartResetsChunks(t *testing.T) {
	src := &MemorySource{Chunks: [][]int16{{7, 7}}, Hold: true}
	r := newTestRecorder(src)
	for i := 0; i < 2; i++ {
		if err := r.Start(context.Background()); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		blob, err := r.Stop()
		if err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
		pcm, err := DecodeWAV(blob.Data)
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if len(pcm.Samples) != 2 {
			t.Fatalf("cycle %d: expected fresh session with 2 samples, got %d", i, len(pcm.Samples))
		}
	}
}

func TestRecorderPermissionError(t *testing.T) {
	r := newTestRecorder(&MemorySource{Err: ErrPermission})
	err := r.Start(context.Background())
	if !errors.Is(err, ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if r.State() != StateIdle {
		t.Fatalf("failed start must stay idle, got %s", r.State())
	}
}

func TestSessionDropsEmptyChunks(t *testing.T) {
	s := NewSession(testFormat)
	if s.Append(nil) {
		t.Fatalf("nil chunk should be dropped")
	}
	if !s.Append([]int16{1}) {
		t.Fatalf("non-empty chunk should be kept")
	}
	if s.Chunks() != 1 || s.Dropped() != 1 {
		t.Fatalf("chunks=%d dropped=%d", s.Chunks(), s.Dropped())
	}
}

func TestFormatFrameSamples(t *testing.T) {
	if got := testFormat.FrameSamples(); got != 320 {
		t.Fatalf("frame samples %d", got)
	}
	if got := (Format{SampleRate: 8000}).FrameSamples(); got != 160 {
		t.Fatalf("default frame samples %d", got)
	}
}
