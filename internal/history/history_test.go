package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordKeepsTailAndAppendsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.log")
	l := New(path, 2, true)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, text := range []string{"one", "two", "three"} {
		if err := l.Record(Transcript{Text: text, Model: "whisper", Timestamp: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	recent := l.Recent()
	if len(recent) != 2 || recent[0].Text != "two" || recent[1].Text != "three" {
		t.Fatalf("recent %+v", recent)
	}
	all, err := ReadTail(path, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 3 || all[0].Text != "one" || all[0].Model != "whisper" || !all[0].Timestamp.Equal(base) {
		t.Fatalf("file entries %+v", all)
	}
	last, _ := ReadTail(path, 1)
	if len(last) != 1 || last[0].Text != "three" {
		t.Fatalf("tail %+v", last)
	}
}

func TestDisabledLogRecordsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.log")
	l := New(path, 5, false)
	if err := l.Record(Transcript{Text: "x"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(l.Recent()) != 0 {
		t.Fatalf("disabled log kept entries")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("disabled log wrote a file")
	}
}

func TestReadTailSkipsGarbageAndReadsLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.log")
	content := "garbage\n2026-01-02T03:04:05Z\tlegacy text\n2026-01-02T03:04:06Z\tm\tnew\tstyle\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadTail(path, 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].Text != "legacy text" || got[1].Text != "new\tstyle" || got[1].Model != "m" {
		t.Fatalf("entries %+v", got)
	}
}

func TestReadTailMissingFile(t *testing.T) {
	got, err := ReadTail(filepath.Join(t.TempDir(), "nope"), 3)
	if err != nil || got != nil {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestLoadSeedsRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.log")
	first := New(path, 5, true)
	for _, text := range []string{"a", "b", "c"} {
		if err := first.Record(Transcript{Text: text}); err != nil {
			t.Fatal(err)
		}
	}
	l, err := Load(path, 2, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	recent := l.Recent()
	if len(recent) != 2 || recent[0].Text != "b" || recent[1].Text != "c" {
		t.Fatalf("recent %+v", recent)
	}
}
