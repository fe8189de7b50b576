package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvOverrides(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ConfigPath = "/tmp/config" // avoid creation

	t.Setenv("VOXDESK_BACKEND_URL", "http://10.0.0.5:9000/")
	t.Setenv("VOXDESK_BACKEND_SCHEMA", "MAP")
	t.Setenv("VOXDESK_LOG_LEVEL", "debug")
	t.Setenv("VOXDESK_LOG_FORMAT", "json")
	t.Setenv("VOXDESK_NOTIFY_ENABLED", "0")

	applyEnvOverrides(cfg)

	if cfg.BackendURL() != "http://10.0.0.5:9000" {
		t.Fatalf("backend url override failed: %q", cfg.BackendURL())
	}
	if cfg.Backend.Schema != SchemaMap {
		t.Fatalf("schema override failed: %q", cfg.Backend.Schema)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging overrides failed: %+v", cfg.Logging)
	}
	if cfg.Notify.Enabled {
		t.Fatalf("notify should be disabled via env")
	}
}

func TestBackendURLFallsBackToDefault(t *testing.T) {
	cfg, _ := Default()
	cfg.Backend.URL = "  "
	if got := cfg.BackendURL(); got != DefaultBackendURL {
		t.Fatalf("BackendURL()=%q want %q", got, DefaultBackendURL)
	}
}

func TestTimeout(t *testing.T) {
	cfg, _ := Default()
	cfg.Backend.TimeoutSec = 1.5
	if cfg.Timeout() != 1500*time.Millisecond {
		t.Fatalf("timeout got %s", cfg.Timeout())
	}
	cfg.Backend.TimeoutSec = 0
	if cfg.Timeout() != 0 {
		t.Fatalf("zero timeout should disable, got %s", cfg.Timeout())
	}
}

func TestValidate(t *testing.T) {
	cfg, _ := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Backend.Schema = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected schema error")
	}
	cfg.Backend.Schema = SchemaItems
	cfg.Notify.Permission = "maybe"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected permission error")
	}
}

func TestLoadWritesTemplate(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if cfg.Paths.ConfigPath != path {
		t.Fatalf("config path not recorded: %q", cfg.Paths.ConfigPath)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("VOXDESK_BACKEND_URL=http://dotenv.local:8000\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv does not override existing variables; make sure the test starts clean.
	t.Setenv("VOXDESK_BACKEND_URL", "")
	os.Unsetenv("VOXDESK_BACKEND_URL")

	cfg, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL() != "http://dotenv.local:8000" {
		t.Fatalf("expected .env url, got %q", cfg.BackendURL())
	}
	os.Unsetenv("VOXDESK_BACKEND_URL")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())
	dir := t.TempDir()
	path := dir + "/config.toml"

	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ConfigPath = path
	cfg.Hook.Command = "/bin/echo"
	cfg.Backend.Schema = SchemaMap
	cfg.Notify.Permission = PermissionGranted

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Hook.Command != "/bin/echo" {
		t.Fatalf("expected hook command to persist")
	}
	if loaded.Backend.Schema != SchemaMap || loaded.Notify.Permission != PermissionGranted {
		t.Fatalf("expected schema and permission to persist: %+v %+v", loaded.Backend, loaded.Notify)
	}
}

func TestUpdateDoesNotPersistEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[backend]\nurl = \"http://file-host:8000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOXDESK_BACKEND_URL", "http://env-host:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL() != "http://env-host:9000" {
		t.Fatalf("override not applied: %q", cfg.BackendURL())
	}
	if err := Update(path, func(c *Config) { c.Audio.DeviceName = "USB Mic" }); err != nil {
		t.Fatalf("update: %v", err)
	}

	os.Unsetenv("VOXDESK_BACKEND_URL")
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.BackendURL() != "http://file-host:8000" {
		t.Fatalf("env override leaked into file: %q", reloaded.BackendURL())
	}
	if reloaded.Audio.DeviceName != "USB Mic" {
		t.Fatalf("device not saved: %q", reloaded.Audio.DeviceName)
	}
}

func TestUpdateCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := Update(path, func(c *Config) { c.Notify.Permission = PermissionDenied }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
