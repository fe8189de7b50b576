package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"voxdesk/internal/audio"
	"voxdesk/internal/config"
	"voxdesk/internal/models"

	"github.com/sirupsen/logrus"
)

const backendProbeTimeout = 5 * time.Second

// Result represents a diagnostic check.
type Result struct {
	Name   string
	Pass   bool
	Detail string
}

// Run executes doctor checks.
func Run(ctx context.Context, cfg *config.Config) []Result {
	return []Result{
		checkFile("config path", cfg.Paths.ConfigPath),
		checkBackend(ctx, cfg),
		checkHookExecutable(cfg.Hook.Command),
		checkPortAudioPkgConfig(),
		checkPortAudio(),
		checkNotify(cfg),
	}
}

func checkFile(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if _, err := os.Stat(os.ExpandEnv(path)); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkBackend(ctx context.Context, cfg *config.Config) Result {
	label := "backend"
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	client := models.New(cfg.BackendURL(), cfg.Backend.Schema, backendProbeTimeout, quiet)
	names, err := client.ListModels(ctx)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: fmt.Sprintf("%s: %v", cfg.BackendURL(), err)}
	}
	return Result{Name: label, Pass: true, Detail: fmt.Sprintf("%s (%d models)", cfg.BackendURL(), len(names))}
}

func checkHookExecutable(cmd string) Result {
	label := "hook.command"
	if cmd == "" {
		return Result{Name: label, Pass: true, Detail: "not set (optional)"}
	}
	path := os.ExpandEnv(cmd)
	// If contains a path separator, treat as explicit path.
	if strings.Contains(path, "/") || strings.Contains(path, "\\") {
		info, err := os.Stat(path)
		if err != nil {
			return Result{Name: label, Pass: false, Detail: err.Error()}
		}
		if info.IsDir() {
			return Result{Name: label, Pass: false, Detail: "is a directory; set hook.command to an executable file"}
		}
		if info.Mode().Perm()&0o111 == 0 {
			return Result{Name: label, Pass: false, Detail: "not executable; chmod +x or choose another command"}
		}
		return Result{Name: label, Pass: true, Detail: path}
	}
	// Else search PATH.
	resolved, err := exec.LookPath(path)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: resolved}
}

func checkPortAudioPkgConfig() Result {
	pkg, err := exec.LookPath("pkg-config")
	if err != nil {
		return Result{Name: "pkg-config", Pass: false, Detail: "pkg-config not found (brew install pkg-config)"}
	}
	cmd := exec.Command(pkg, "--exists", "portaudio-2.0")
	if err := cmd.Run(); err != nil {
		return Result{Name: "portaudio-dev", Pass: false, Detail: "portaudio-2.0 not found (brew install portaudio)"}
	}
	versionCmd := exec.Command(pkg, "--modversion", "portaudio-2.0")
	if out, err := versionCmd.Output(); err == nil {
		return Result{Name: "portaudio-dev", Pass: true, Detail: strings.TrimSpace(string(out))}
	}
	return Result{Name: "portaudio-dev", Pass: true, Detail: "found via pkg-config"}
}

func checkPortAudio() Result {
	if !audio.Available {
		return Result{Name: "portaudio", Pass: false, Detail: "not compiled in; rebuild with -tags portaudio"}
	}
	if err := audio.Probe(); err != nil {
		return Result{Name: "portaudio", Pass: false, Detail: fmt.Sprintf("init failed: %v (install with: brew install portaudio)", err)}
	}
	return Result{Name: "portaudio", Pass: true, Detail: "ok"}
}

func checkNotify(cfg *config.Config) Result {
	label := "notifications"
	if !cfg.Notify.Enabled {
		return Result{Name: label, Pass: true, Detail: "disabled; outcomes go to the log"}
	}
	return Result{Name: label, Pass: true, Detail: "permission " + cfg.Notify.Permission}
}
