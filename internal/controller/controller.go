// Package controller ties the record button, playback and transcription
// together.
package controller

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voxdesk/internal/audio"
	"voxdesk/internal/history"
	"voxdesk/internal/hook"
	"voxdesk/internal/models"
	"voxdesk/internal/transcribe"
)

// ErrNothingToPlay is returned by Play before any recording was finalized.
var ErrNothingToPlay = errors.New("no finalized recording to play")

// State is the record button state.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Label is the text of the record button in this state.
func (s State) Label() string {
	if s == Recording {
		return "Stop Recording"
	}
	return "Record"
}

// Recorder is the capture side; *audio.Recorder satisfies it.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (audio.Blob, error)
}

// Transcriber turns a blob into display text; *transcribe.Client satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, blob audio.Blob) string
}

// Display receives UI updates. Calls may come from background goroutines.
type Display interface {
	StateChanged(State)
	PlayEnabled(bool)
	Transcribing(sessionID string)
	Transcript(sessionID, text string)
}

// Session is one recording: the capture window and, once stopped, its blob
// and transcript.
type Session struct {
	ID         string
	Started    time.Time
	Stopped    time.Time
	Blob       audio.Blob
	Transcript string
}

// Finalized reports whether the recording was stopped and encoded.
func (s Session) Finalized() bool {
	return !s.Stopped.IsZero()
}

// Options configures a Controller.
type Options struct {
	Recorder    Recorder
	Transcriber Transcriber
	Player      audio.Player
	Display     Display
	History     *history.Log
	Hook        *hook.Runner
	// HookQueue bounds pending hook jobs; extra jobs are dropped.
	HookQueue int
	// SavePath receives a copy of every finalized blob. Optional.
	SavePath string
	// Model reports the selected model for history and hook payloads. Optional.
	Model  func() string
	Logger *logrus.Logger
}

// Controller owns the record button state and the current session.
type Controller struct {
	opts   Options
	logger *logrus.Logger

	mu        sync.Mutex
	state     State
	current   *Session
	finalized *Session

	// displayMu is taken before mu is released so Display sees transitions
	// in the order they happened.
	displayMu sync.Mutex

	latest models.Latest
	stats  stats
	wg     sync.WaitGroup

	hookMu      sync.Mutex
	hookCh      chan hook.Job
	hookStopped bool
}

// New returns an idle controller.
func New(opts Options) *Controller {
	if opts.Display == nil {
		opts.Display = nopDisplay{}
	}
	if opts.HookQueue <= 0 {
		opts.HookQueue = 16
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		opts:   opts,
		logger: logger,
		hookCh: make(chan hook.Job, opts.HookQueue),
	}
}

// State returns the record button state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// transition is what a Toggle did. It is applied to the Display under
// displayMu once mu is released.
type transition struct {
	state      State
	enablePlay bool
	job        func()
}

// Toggle is the single record button handler: it starts a recording when
// idle and stops it when recording.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	var (
		tr  *transition
		err error
	)
	if c.state == Idle {
		tr, err = c.startLocked(ctx)
	} else {
		tr, err = c.stopLocked(ctx)
	}
	if tr == nil {
		c.mu.Unlock()
		return err
	}
	c.displayMu.Lock()
	c.mu.Unlock()

	if tr.enablePlay {
		c.opts.Display.PlayEnabled(true)
	}
	c.opts.Display.StateChanged(tr.state)
	c.displayMu.Unlock()
	if tr.job != nil {
		go tr.job()
	}
	return err
}

func (c *Controller) startLocked(ctx context.Context) (*transition, error) {
	if err := c.opts.Recorder.Start(ctx); err != nil {
		return nil, err
	}
	c.state = Recording
	c.current = &Session{ID: uuid.NewString(), Started: time.Now()}
	c.stats.incRecordings()
	c.logger.Infof("recording %s started", c.current.ID)
	return &transition{state: Recording}, nil
}

func (c *Controller) stopLocked(ctx context.Context) (*transition, error) {
	blob, err := c.opts.Recorder.Stop()
	c.state = Idle
	if err != nil {
		c.current = nil
		return &transition{state: Idle}, err
	}
	sess := c.current
	sess.Stopped = time.Now()
	sess.Blob = blob
	c.finalized = sess
	c.current = nil
	c.logger.Infof("recording %s stopped after %s (%d bytes)", sess.ID, sess.Stopped.Sub(sess.Started).Round(time.Millisecond), blob.Len())

	if c.opts.SavePath != "" {
		if err := os.WriteFile(c.opts.SavePath, blob.Data, 0o644); err != nil {
			c.logger.Warnf("save recording: %v", err)
		}
	}

	ticket := c.latest.Begin(context.WithoutCancel(ctx))
	c.wg.Add(1)
	id := sess.ID
	return &transition{
		state:      Idle,
		enablePlay: true,
		job:        func() { c.transcribe(ticket, id, blob) },
	}, nil
}

func (c *Controller) transcribe(ticket *models.Ticket, id string, blob audio.Blob) {
	defer c.wg.Done()
	defer ticket.Done()
	c.opts.Display.Transcribing(id)
	text := c.opts.Transcriber.Transcribe(ticket.Ctx, blob)
	if !ticket.Current() {
		c.stats.incSuperseded()
		c.logger.Debugf("transcription for %s superseded", id)
		return
	}
	c.mu.Lock()
	if c.finalized != nil && c.finalized.ID == id {
		c.finalized.Transcript = text
	}
	c.mu.Unlock()
	c.stats.incTranscribed()
	c.opts.Display.Transcript(id, text)

	if text == transcribe.NoTranscription || text == transcribe.Unavailable || strings.TrimSpace(text) == "" {
		return
	}
	model := ""
	if c.opts.Model != nil {
		model = c.opts.Model()
	}
	if c.opts.History != nil {
		if err := c.opts.History.Record(history.Transcript{Text: text, Model: model, Timestamp: time.Now()}); err != nil {
			c.logger.Warnf("write transcript: %v", err)
		}
	}
	c.dispatchHook(hook.Job{Text: text, Model: model, SessionID: id, Timestamp: time.Now()})
}

// Play renders the last finalized recording.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	sess := c.finalized
	c.mu.Unlock()
	if sess == nil || c.opts.Player == nil {
		return ErrNothingToPlay
	}
	return c.opts.Player.Play(ctx, sess.Blob)
}

// CanPlay reports whether Play has something to render.
func (c *Controller) CanPlay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalized != nil
}

// Last returns a copy of the last finalized session.
func (c *Controller) Last() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized == nil {
		return Session{}, false
	}
	return *c.finalized, true
}

// Wait blocks until pending transcriptions and queued hooks have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Stats returns counters since the controller was created.
func (c *Controller) Stats() Stats {
	return c.stats.snapshot()
}

type nopDisplay struct{}

func (nopDisplay) StateChanged(State)        {}
func (nopDisplay) PlayEnabled(bool)          {}
func (nopDisplay) Transcribing(string)       {}
func (nopDisplay) Transcript(string, string) {}
