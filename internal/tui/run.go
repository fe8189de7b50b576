package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"voxdesk/internal/controller"
	"voxdesk/internal/notify"
)

// Wiring is what the UI offers to the components it hosts.
type Wiring struct {
	Display   controller.Display
	Prompter  notify.Prompter
	Selection *Selection
}

// Run builds the dependencies with build and runs the UI until the user quits.
func Run(ctx context.Context, build func(Wiring) (Deps, error)) error {
	s := &sender{}
	w := Wiring{
		Display:   display{s: s},
		Prompter:  prompter{s: s},
		Selection: &Selection{},
	}
	deps, err := build(w)
	if err != nil {
		return err
	}
	if deps.Selection == nil {
		deps.Selection = w.Selection
	}
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	s.attach(p)
	_, err = p.Run()
	s.attach(nil)
	return err
}
