package models

import (
	"context"
	"testing"
)

func TestLatestSupersedesOlderTicket(t *testing.T) {
	var l Latest
	a := l.Begin(context.Background())
	b := l.Begin(context.Background())
	defer b.Done()

	if a.Ctx.Err() == nil {
		t.Fatalf("older ticket should be cancelled")
	}
	if a.Current() {
		t.Fatalf("older ticket must not be current")
	}
	if !b.Current() || b.Ctx.Err() != nil {
		t.Fatalf("newest ticket should be live")
	}
	if a.ID == b.ID || b.Gen != a.Gen+1 {
		t.Fatalf("tickets a=%+v b=%+v", a, b)
	}
}

func TestLatestResponseOrderDoesNotMatter(t *testing.T) {
	var l Latest
	a := l.Begin(context.Background())
	b := l.Begin(context.Background())

	applied := ""
	apply := func(tk *Ticket, v string) {
		if tk.Current() {
			applied = v
		}
	}
	// B finishes first, then the stale A response arrives.
	apply(b, "B")
	apply(a, "A")
	if applied != "B" {
		t.Fatalf("applied %q", applied)
	}
}

func TestLatestCancel(t *testing.T) {
	var l Latest
	a := l.Begin(context.Background())
	l.Cancel()
	if a.Current() || a.Ctx.Err() == nil {
		t.Fatalf("cancel should invalidate the in-flight ticket")
	}
}
