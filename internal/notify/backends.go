package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"

	"voxdesk/internal/config"
)

// Desktop shows OS notifications through beeep.
type Desktop struct{}

// Show uses beeep.Alert for errors so they carry the platform's alert sound.
func (Desktop) Show(title, message string, kind Kind) error {
	if kind == KindError {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// Log writes notifications to the logger instead of the desktop.
type Log struct {
	Logger *logrus.Logger
}

func (l Log) Show(title, message string, kind Kind) error {
	entry := l.Logger.WithField("title", title)
	if kind == KindError {
		entry.Warn(message)
	} else {
		entry.Info(message)
	}
	return nil
}

// Fixed answers every permission request with p.
func Fixed(p Permission) Prompter {
	return PrompterFunc(func(context.Context) (Permission, error) { return p, nil })
}

// TerminalPrompter asks on a terminal. Anything but y/yes is Denied; EOF leaves
// the permission undetermined.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p TerminalPrompter) RequestPermission(ctx context.Context) (Permission, error) {
	fmt.Fprint(p.Out, "Allow desktop notifications? [y/N] ")
	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		ch <- answer{line, err}
	}()
	select {
	case <-ctx.Done():
		return Default, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.line == "" {
			if a.err == io.EOF {
				return Default, nil
			}
			return Default, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return Granted, nil
		}
		return Denied, nil
	}
}

// FromConfig builds a Service from the notify section. Decisions are saved
// back to the config file.
func FromConfig(cfg *config.Config, prompter Prompter, logger *logrus.Logger) *Service {
	var n Notifier = Log{Logger: logger}
	if cfg.Notify.Enabled {
		n = Desktop{}
	}
	return New(Options{
		Title:      cfg.Notify.Title,
		Permission: ParsePermission(cfg.Notify.Permission),
		Notifier:   n,
		Prompter:   prompter,
		Persist: func(p Permission) error {
			cfg.Notify.Permission = string(p)
			if cfg.Paths.ConfigPath == "" {
				return nil
			}
			return config.Update(cfg.Paths.ConfigPath, func(c *config.Config) {
				c.Notify.Permission = string(p)
			})
		},
		Logger: logger,
	})
}
