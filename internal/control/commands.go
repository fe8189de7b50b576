package control

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"voxdesk/internal/config"
	"voxdesk/internal/doctor"
	"voxdesk/internal/history"
	"voxdesk/internal/hook"
	"voxdesk/internal/logging"

	"github.com/spf13/cobra"
)

// NewTailLogCmd tails the main log file (simple last N lines).
func NewTailLogCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail-log",
		Short: "Show last log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("lines")
			return tailFile(cmd.OutOrStdout(), cfg.Paths.LogPath, n)
		},
	}
	cmd.Flags().IntP("lines", "n", 50, "number of lines")
	return cmd
}

func tailFile(out io.Writer, path string, n int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			_, _ = fmt.Fprintln(out, l)
		}
	}
	return nil
}

// NewHistoryCmd prints recent transcripts from the transcript log.
func NewHistoryCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("lines")
			if n <= 0 {
				n = cfg.UI.HistoryTail
			}
			entries, err := history.ReadTail(cfg.Paths.TranscriptPath, n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				if entries == nil {
					entries = []history.Transcript{}
				}
				return json.NewEncoder(out).Encode(entries)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "no transcripts yet")
				return nil
			}
			for _, t := range entries {
				model := ""
				if t.Model != "" {
					model = " [" + t.Model + "]"
				}
				_, _ = fmt.Fprintf(out, "%s%s  %s\n", t.Timestamp.Format("2006-01-02 15:04:05"), model, t.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntP("lines", "n", 0, "number of entries (default ui.history_tail)")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// NewTestHookCmd triggers hook manually.
func NewTestHookCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "test-hook \"some text\"",
		Short: "Send sample text through hook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.Configure(cfg)
			if err != nil {
				return err
			}
			r := hook.NewRunner(&cfg.Hook, logger)
			job := hook.Job{Text: args[0], Timestamp: time.Now()}
			return r.Run(cmd.Context(), job)
		},
	}
}

// NewDoctorCmd runs environment checks.
func NewDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check backend, audio, hook and config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			results := doctor.Run(cmd.Context(), cfg)
			exitCode := 0
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "fail"
					exitCode = 1
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-4s %s\n", r.Name, status, r.Detail)
			}
			if exitCode != 0 {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		},
	}
}
