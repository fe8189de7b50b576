// Package history keeps recent transcripts in memory and appends them to the
// transcript log.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Transcript is one recognized utterance.
type Transcript struct {
	Text      string    `json:"text" yaml:"text"`
	Model     string    `json:"model,omitempty" yaml:"model,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Log is a bounded in-memory tail backed by an append-only file.
type Log struct {
	path    string
	tail    int
	enabled bool

	mu     sync.Mutex
	recent []Transcript
}

// New returns a Log writing to path. An empty path keeps entries in memory only.
func New(path string, tail int, enabled bool) *Log {
	if tail <= 0 {
		tail = 10
	}
	return &Log{path: path, tail: tail, enabled: enabled, recent: make([]Transcript, 0, tail)}
}

// Record stores entry and appends it to the file.
func (l *Log) Record(entry Transcript) error {
	if !l.enabled {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recent = append(l.recent, entry)
	if len(l.recent) > l.tail {
		l.recent = l.recent[len(l.recent)-l.tail:]
	}
	if l.path == "" {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, formatLine(entry))
	return err
}

// Recent returns a copy of the in-memory tail, oldest first.
func (l *Log) Recent() []Transcript {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transcript, len(l.recent))
	copy(out, l.recent)
	return out
}

// ReadTail returns the last n entries of the transcript file.
func ReadTail(path string, n int) ([]Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var out []Transcript
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		entry, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		out = append(out, entry)
		if n > 0 && len(out) > n {
			out = out[1:]
		}
	}
	return out, sc.Err()
}

// Lines are "RFC3339<TAB>model<TAB>text"; older two-field lines have no model.
func formatLine(t Transcript) string {
	text := strings.ReplaceAll(t.Text, "\n", " ")
	return fmt.Sprintf("%s\t%s\t%s", t.Timestamp.Format(time.RFC3339), t.Model, text)
}

func parseLine(line string) (Transcript, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 2 {
		return Transcript{}, false
	}
	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return Transcript{}, false
	}
	if len(parts) == 2 {
		return Transcript{Text: parts[1], Timestamp: ts}, true
	}
	return Transcript{Text: parts[2], Model: parts[1], Timestamp: ts}, true
}
