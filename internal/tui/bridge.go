package tui

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"voxdesk/internal/controller"
	"voxdesk/internal/notify"
)

// sender forwards messages to the program once it exists.
type sender struct {
	mu sync.RWMutex
	p  *tea.Program
}

func (s *sender) attach(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *sender) Send(msg tea.Msg) {
	s.mu.RLock()
	p := s.p
	s.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// display implements controller.Display on top of the program.
type display struct{ s *sender }

func (d display) StateChanged(st controller.State) { d.s.Send(recStateMsg{state: st}) }
func (d display) PlayEnabled(b bool)               { d.s.Send(playEnabledMsg{enabled: b}) }
func (d display) Transcribing(id string)           { d.s.Send(transcribingMsg{sessionID: id}) }
func (d display) Transcript(id, text string)       { d.s.Send(transcriptMsg{sessionID: id, text: text}) }

// prompter asks for notification permission inside the UI.
type prompter struct{ s *sender }

func (p prompter) RequestPermission(ctx context.Context) (notify.Permission, error) {
	reply := make(chan notify.Permission, 1)
	p.s.Send(permissionAskMsg{reply: reply})
	select {
	case <-ctx.Done():
		return notify.Default, ctx.Err()
	case ans := <-reply:
		return ans, nil
	}
}

// Selection shares the chosen model name with background workers.
type Selection struct {
	v atomic.Value
}

func (s *Selection) Set(name string) { s.v.Store(name) }

func (s *Selection) Get() string {
	name, _ := s.v.Load().(string)
	return name
}
