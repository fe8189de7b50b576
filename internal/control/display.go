package control

import (
	"fmt"
	"io"
	"sync"

	"voxdesk/internal/controller"
)

// lineDisplay prints controller updates for non-interactive commands.
type lineDisplay struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func (d *lineDisplay) StateChanged(s controller.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s == controller.Recording {
		_, _ = fmt.Fprintln(d.out, "recording... press Enter to stop")
	}
}

func (d *lineDisplay) PlayEnabled(bool) {}

func (d *lineDisplay) Transcribing(string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.out, "transcribing...")
}

func (d *lineDisplay) Transcript(_, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = text
	_, _ = fmt.Fprintln(d.out, text)
}

func (d *lineDisplay) text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
