package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultBackendURL is used when neither the environment nor the config file names a server.
	DefaultBackendURL = "http://127.0.0.1:8000"

	defaultTimeoutSec    = 60
	defaultHistoryTail   = 10
	defaultStateDirLinux = ".local/state/voxdesk"
	defaultConfigDir     = ".config/voxdesk"
)

// Schema selects which of the two server config shapes is used.
type Schema string

const (
	// SchemaItems is {"items":[{name, descriptions, attributes_name, options}]} on /get-config/.
	SchemaItems Schema = "items"
	// SchemaMap is {key: [option, ...]} on /get-model-config/.
	SchemaMap Schema = "map"
)

// Valid reports whether s names a known schema.
func (s Schema) Valid() bool {
	return s == SchemaItems || s == SchemaMap
}

// Notification permission values persisted in notify.permission.
const (
	PermissionDefault = "default"
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Backend struct {
		URL        string  `toml:"url"`
		Schema     Schema  `toml:"schema"`
		TimeoutSec float64 `toml:"timeout_sec"` // 0 disables the client timeout
	} `toml:"backend"`

	Audio struct {
		DeviceName        string `toml:"device_name"`
		SampleRate        int    `toml:"sample_rate"`
		Channels          int    `toml:"channels"`
		FrameMS           int    `toml:"frame_ms"`
		TrimSilence       bool   `toml:"trim_silence"`
		VADAggressiveness int    `toml:"vad_aggressiveness"`
	} `toml:"audio"`

	Notify struct {
		Enabled    bool   `toml:"enabled"`
		Permission string `toml:"permission"` // default, granted, denied
		Title      string `toml:"title"`
	} `toml:"notify"`

	Hook HookConfig `toml:"hook"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
		Stdout bool   `toml:"stdout"`
	} `toml:"logging"`

	Paths struct {
		StateDir       string `toml:"state_dir"`
		LogPath        string `toml:"log_path"`
		TranscriptPath string `toml:"transcript_path"`
		RecordingPath  string `toml:"recording_path"`
		ConfigPath     string `toml:"-"`
	} `toml:"paths"`

	UI struct {
		HistoryTail int `toml:"history_tail"`
	} `toml:"ui"`

	Transcripts struct {
		Enabled bool `toml:"enabled"`
	} `toml:"transcripts"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	// macOS prefers ~/Library/Application Support/voxdesk for state/logs
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "voxdesk")
	}

	cfg := &Config{}

	cfg.Backend.URL = DefaultBackendURL
	cfg.Backend.Schema = SchemaItems
	cfg.Backend.TimeoutSec = defaultTimeoutSec

	cfg.Audio.SampleRate = 16000
	cfg.Audio.Channels = 1
	cfg.Audio.FrameMS = 20
	cfg.Audio.TrimSilence = false
	cfg.Audio.VADAggressiveness = 2

	cfg.Notify.Enabled = true
	cfg.Notify.Permission = PermissionDefault
	cfg.Notify.Title = "voxdesk"

	cfg.Hook.Prefix = ""
	cfg.Hook.TimeoutSec = 5
	cfg.Hook.QueueSize = 16
	cfg.Hook.Env = map[string]string{}

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "voxdesk.log")
	cfg.Paths.TranscriptPath = filepath.Join(stateDir, "transcripts.log")
	cfg.Paths.RecordingPath = filepath.Join(stateDir, "last-recording.wav")

	cfg.UI.HistoryTail = defaultHistoryTail

	cfg.Transcripts.Enabled = true

	return cfg, nil
}

// Load loads config from file, applying defaults, the .env file and env overrides.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := Save(cfg, path); err != nil {
			return nil, err
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update re-reads the file at path without env overrides, applies change and
// writes it back, so values from the environment never end up on disk.
func Update(path string, change func(*Config)) error {
	cfg, err := Default()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	change(cfg)
	return Save(cfg, path)
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// Validate rejects values the client cannot work with.
func (c *Config) Validate() error {
	if !c.Backend.Schema.Valid() {
		return fmt.Errorf("backend.schema must be %q or %q (got %q)", SchemaItems, SchemaMap, c.Backend.Schema)
	}
	if c.Audio.Channels < 1 {
		return fmt.Errorf("audio.channels must be >= 1 (got %d)", c.Audio.Channels)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive (got %d)", c.Audio.SampleRate)
	}
	switch c.Notify.Permission {
	case PermissionDefault, PermissionGranted, PermissionDenied:
	default:
		return fmt.Errorf("notify.permission must be default, granted or denied (got %q)", c.Notify.Permission)
	}
	return nil
}

// BackendURL returns the server base URL without a trailing slash.
func (c *Config) BackendURL() string {
	u := strings.TrimSpace(c.Backend.URL)
	if u == "" {
		u = DefaultBackendURL
	}
	return strings.TrimRight(u, "/")
}

// Timeout returns the HTTP client timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	if c.Backend.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.Backend.TimeoutSec * float64(time.Second))
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{
		cfg.Paths.StateDir,
		filepath.Dir(cfg.Paths.LogPath),
		filepath.Dir(cfg.Paths.TranscriptPath),
		filepath.Dir(cfg.Paths.RecordingPath),
	} {
		if p == "" || p == "." {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOXDESK_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("VOXDESK_BACKEND_SCHEMA"); v != "" {
		cfg.Backend.Schema = Schema(strings.ToLower(v))
	}
	if v := os.Getenv("VOXDESK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VOXDESK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("VOXDESK_NOTIFY_ENABLED"); v != "" {
		cfg.Notify.Enabled = truthy(v)
	}
	if v := os.Getenv("VOXDESK_TRANSCRIPTS_ENABLED"); v != "" {
		cfg.Transcripts.Enabled = truthy(v)
	}
}

func truthy(v string) bool {
	return v != "0" && strings.ToLower(v) != "false"
}
