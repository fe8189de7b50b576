package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"voxdesk/internal/config"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// Job represents a hook invocation request.
type Job struct {
	Text      string
	Model     string
	SessionID string
	Timestamp time.Time
}

// Runner executes the transcript hook with cooldown and prefix handling.
type Runner struct {
	cfg      *config.HookConfig
	logger   *logrus.Logger
	lastRun  time.Time
	mu       sync.Mutex
	hostname string
}

func NewRunner(cfg *config.HookConfig, logger *logrus.Logger) *Runner {
	host, _ := os.Hostname()
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		hostname: host,
	}
}

// Enabled reports whether a command is configured.
func (r *Runner) Enabled() bool {
	return r.cfg != nil && r.cfg.Enabled()
}

// Accepts reports whether text is long enough to be dispatched.
func (r *Runner) Accepts(text string) bool {
	return r.cfg.MinChars <= 0 || len(strings.TrimSpace(text)) >= r.cfg.MinChars
}

// ShouldRun returns whether cooldown allows a new hook.
func (r *Runner) ShouldRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.CooldownSec <= 0 {
		return true
	}
	return time.Since(r.lastRun).Seconds() >= r.cfg.CooldownSec
}

// Run executes the configured command with text payload.
func (r *Runner) Run(ctx context.Context, job Job) error {
	r.mu.Lock()
	r.lastRun = time.Now()
	r.mu.Unlock()

	cmdStr := r.cfg.Command
	if cmdStr == "" {
		return fmt.Errorf("no hook.command configured")
	}
	args := append([]string{}, r.cfg.Args...)

	prefix := strings.NewReplacer("${hostname}", r.hostname, "${model}", job.Model).Replace(r.cfg.Prefix)
	text := job.Text
	if r.cfg.RedactPII {
		text = redactPII(text)
	}
	payload := strings.TrimSpace(prefix + text)
	args = append(args, payload)

	runCtx := ctx
	var cancel context.CancelFunc
	if r.cfg.TimeoutSec > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(float64(time.Second)*r.cfg.TimeoutSec))
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, cmdStr, args...)
	cmd.Env = os.Environ()
	for k, v := range r.cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Env, fmt.Sprintf("VOXDESK_TEXT=%s", text))
	cmd.Env = append(cmd.Env, fmt.Sprintf("VOXDESK_PREFIX=%s", prefix))
	cmd.Env = append(cmd.Env, fmt.Sprintf("VOXDESK_MODEL=%s", job.Model))
	cmd.Env = append(cmd.Env, fmt.Sprintf("VOXDESK_SESSION=%s", job.SessionID))

	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		r.logger.Infof("hook output: %s", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return fmt.Errorf("hook failed: %w", err)
	}
	return nil
}

// ParseArgs allows hook args to be given as a single string.
func ParseArgs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	return shlex.Split(raw)
}

var (
	emailRE = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.[A-Za-z]{2,}`)
	phoneRE = regexp.MustCompile(`\+?\d[\d\s\-\(\)]{6,}\d`)
)

func redactPII(s string) string {
	s = emailRE.ReplaceAllString(s, "[redacted-email]")
	s = phoneRE.ReplaceAllString(s, "[redacted-phone]")
	return s
}
