// Package notify reports outcomes through desktop notifications, gated by a
// persisted permission.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"voxdesk/internal/config"
)

// Permission is the user's answer to the notification prompt.
type Permission string

const (
	Default Permission = config.PermissionDefault
	Granted Permission = config.PermissionGranted
	Denied  Permission = config.PermissionDenied
)

// ParsePermission maps a config value to a Permission; unknown values are Default.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case Granted:
		return Granted
	case Denied:
		return Denied
	}
	return Default
}

// Kind selects the presentation of a notification.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Notifier displays one notification.
type Notifier interface {
	Show(title, message string, kind Kind) error
}

// Prompter asks the user whether notifications may be shown.
type Prompter interface {
	RequestPermission(ctx context.Context) (Permission, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context) (Permission, error)

func (f PrompterFunc) RequestPermission(ctx context.Context) (Permission, error) { return f(ctx) }

// Options configures a Service.
type Options struct {
	Title      string
	Permission Permission
	Notifier   Notifier
	Prompter   Prompter
	// Persist stores a newly decided permission. Optional.
	Persist func(Permission) error
	Logger  *logrus.Logger
}

type pending struct {
	message string
	kind    Kind
}

// Service gates notifications behind the permission state.
type Service struct {
	title    string
	notifier Notifier
	prompter Prompter
	persist  func(Permission) error
	logger   *logrus.Logger

	mu        sync.Mutex
	perm      Permission
	prompting bool
	queue     []pending
	wg        sync.WaitGroup
}

// New returns a Service.
func New(opts Options) *Service {
	perm := opts.Permission
	if perm == "" {
		perm = Default
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		title:    opts.Title,
		notifier: opts.Notifier,
		prompter: opts.Prompter,
		persist:  opts.Persist,
		logger:   logger,
		perm:     perm,
	}
}

// Permission returns the current permission.
func (s *Service) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perm
}

// SetPermission records p and persists it.
func (s *Service) SetPermission(p Permission) error {
	s.mu.Lock()
	s.perm = p
	s.mu.Unlock()
	if s.persist != nil {
		return s.persist(p)
	}
	return nil
}

// Notify shows message if permitted. With an undetermined permission it asks
// the prompter in the background; messages raised while the prompt is open
// are held and shown only if the answer is Granted. Denied drops silently.
func (s *Service) Notify(ctx context.Context, message string, kind Kind) {
	s.mu.Lock()
	switch s.perm {
	case Granted:
		s.mu.Unlock()
		s.show(message, kind)
		return
	case Denied:
		s.mu.Unlock()
		s.logger.Debugf("notification dropped (denied): %s", message)
		return
	}
	s.queue = append(s.queue, pending{message: message, kind: kind})
	if s.prompting {
		s.mu.Unlock()
		return
	}
	if s.prompter == nil {
		s.queue = nil
		s.mu.Unlock()
		s.logger.Debugf("notification dropped (no prompter): %s", message)
		return
	}
	s.prompting = true
	s.wg.Add(1)
	s.mu.Unlock()

	go s.request(context.WithoutCancel(ctx))
}

func (s *Service) request(ctx context.Context) {
	defer s.wg.Done()
	answer, err := s.prompter.RequestPermission(ctx)
	if err != nil {
		s.logger.Warnf("notification permission request: %v", err)
		answer = Default
	}

	s.mu.Lock()
	queued := s.queue
	s.queue = nil
	s.prompting = false
	if answer != Default {
		s.perm = answer
	}
	s.mu.Unlock()

	if answer != Default && s.persist != nil {
		if err := s.persist(answer); err != nil {
			s.logger.Warnf("persist notification permission: %v", err)
		}
	}
	if answer != Granted {
		s.logger.Debugf("%d notification(s) dropped (%s)", len(queued), answer)
		return
	}
	for _, p := range queued {
		s.show(p.message, p.kind)
	}
}

// Wait blocks until any permission request in flight has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) show(message string, kind Kind) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Show(s.title, message, kind); err != nil {
		s.logger.Warnf("notify: %v", err)
	}
}
