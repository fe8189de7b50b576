package hook

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voxdesk/internal/config"
	"voxdesk/internal/logging"
)

func TestShouldRunCooldown(t *testing.T) {
	hk := &config.HookConfig{
		Command:     "/bin/echo",
		CooldownSec: 0.5,
	}
	r := NewRunner(hk, logging.NewTestLogger())

	if !r.ShouldRun() {
		t.Fatalf("first call should run")
	}
	if err := r.Run(context.Background(), Job{Text: "test", Timestamp: time.Now()}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.ShouldRun() {
		t.Fatalf("cooldown should block immediate subsequent run")
	}
	time.Sleep(time.Duration(hk.CooldownSec*float64(time.Second)) + 20*time.Millisecond)
	if !r.ShouldRun() {
		t.Fatalf("should run after cooldown")
	}
}

func TestRunUsesPrefixAndEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	hk := &config.HookConfig{
		Command: "/bin/sh",
		Args:    []string{"-c", `printf '%s|%s|%s' "$1" "$VOXDESK_MODEL" "$EXTRA" > "$OUT"`, "hook"},
		Prefix:  "${model}: ",
		Env:     map[string]string{"OUT": out, "EXTRA": "x"},
	}
	r := NewRunner(hk, logging.NewTestLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Run(ctx, Job{Text: "hello", Model: "whisper", Timestamp: time.Now()}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got := string(data); got != "whisper: hello|whisper|x" {
		t.Fatalf("hook saw %q", got)
	}
}

func TestRunWithoutCommand(t *testing.T) {
	r := NewRunner(&config.HookConfig{}, logging.NewTestLogger())
	if r.Enabled() {
		t.Fatalf("empty command should be disabled")
	}
	if err := r.Run(context.Background(), Job{Text: "x"}); err == nil {
		t.Fatalf("expected error without command")
	}
}

func TestAcceptsMinChars(t *testing.T) {
	r := NewRunner(&config.HookConfig{Command: "/bin/true", MinChars: 4}, logging.NewTestLogger())
	if r.Accepts(" hi ") {
		t.Fatalf("short text should be rejected")
	}
	if !r.Accepts("hello") {
		t.Fatalf("long text should be accepted")
	}
}

func TestRedactPII(t *testing.T) {
	got := redactPII("mail me at jane.doe@example.com or call +1 (555) 123-4567")
	if strings.Contains(got, "example.com") || strings.Contains(got, "555") {
		t.Fatalf("not redacted: %q", got)
	}
	if !strings.Contains(got, "[redacted-email]") || !strings.Contains(got, "[redacted-phone]") {
		t.Fatalf("missing markers: %q", got)
	}
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs(`--flag "two words" plain`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(args) != 3 || args[1] != "two words" {
		t.Fatalf("args %q", args)
	}
	if args, _ := ParseArgs("   "); len(args) != 0 {
		t.Fatalf("blank should yield no args")
	}
}
