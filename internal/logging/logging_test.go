package logging

import (
	"os"
	"path/filepath"
	"testing"

	"voxdesk/internal/config"

	"github.com/sirupsen/logrus"
)

func TestConfigureWritesToLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Default()
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "logs", "voxdesk.log")
	cfg.Paths.TranscriptPath = filepath.Join(dir, "transcripts.log")
	cfg.Paths.RecordingPath = filepath.Join(dir, "last.wav")
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	logger, err := Configure(cfg)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter, got %T", logger.Formatter)
	}
	logger.Warn("hello")
	data, err := os.ReadFile(cfg.Paths.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected log output")
	}
}
