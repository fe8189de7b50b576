package audio

import "testing"

func TestTrimSilenceDropsSilentRecording(t *testing.T) {
	silence := make([]int16, testFormat.FrameSamples()*10)
	out, err := TrimSilence(silence, testFormat, 3)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected silence to be trimmed, %d samples left", len(out))
	}
}

func TestTrimSilenceRejectsStereo(t *testing.T) {
	in := []int16{1, 2, 3, 4}
	out, err := TrimSilence(in, Format{SampleRate: 16000, Channels: 2, FrameMS: 20}, 2)
	if err == nil {
		t.Fatalf("expected stereo error")
	}
	if len(out) != len(in) {
		t.Fatalf("input should be returned untouched on error")
	}
}

func TestTrimSilenceRejectsUnsupportedFrame(t *testing.T) {
	in := make([]int16, 1600)
	out, err := TrimSilence(in, Format{SampleRate: 16000, Channels: 1, FrameMS: 25}, 2)
	if err == nil {
		t.Fatalf("expected frame length error")
	}
	if len(out) != len(in) {
		t.Fatalf("input should be returned untouched on error")
	}
}
