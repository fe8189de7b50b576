package audio

import (
	"slices"
	"testing"
)

func TestEncodeDecodeWAV(t *testing.T) {
	in := []int16{0, 100, -100, 32767, -32768}
	data, err := EncodeWAV(in, 16000, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header")
	}
	pcm, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pcm.SampleRate != 16000 || pcm.Channels != 1 {
		t.Fatalf("format %d Hz %d ch", pcm.SampleRate, pcm.Channels)
	}
	if !slices.Equal(pcm.Samples, in) {
		t.Fatalf("samples %v want %v", pcm.Samples, in)
	}
}

func TestEncodeWAVRejectsBadFormat(t *testing.T) {
	if _, err := EncodeWAV([]int16{1}, 0, 1); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV([]byte("definitely not audio")); err == nil {
		t.Fatalf("expected error")
	}
}
