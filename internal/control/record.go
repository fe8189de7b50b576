package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"voxdesk/internal/audio"
	"voxdesk/internal/config"
	"voxdesk/internal/hook"
	"voxdesk/internal/logging"
	"voxdesk/internal/transcribe"
	"voxdesk/internal/tui"

	"github.com/spf13/cobra"
)

// NewUICmd starts the interactive terminal UI.
func NewUICmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive recorder and model config editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return tui.Run(ctx, func(w tui.Wiring) (tui.Deps, error) {
				hist := a.history()
				ctl := a.controller(w.Display, w.Selection.Get, hist)
				go ctl.Serve(ctx)
				return tui.Deps{
					Controller:  ctl,
					Models:      a.models(),
					Notify:      a.notifier(w.Prompter),
					History:     hist,
					Selection:   w.Selection,
					Logger:      a.logger,
					Backend:     a.cfg.BackendURL(),
					HistoryTail: a.cfg.UI.HistoryTail,
				}, nil
			})
		},
	}
}

// NewRecordCmd records one utterance from the microphone and prints its transcript.
func NewRecordCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the microphone and transcribe",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			dur, _ := cmd.Flags().GetDuration("duration")
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			d := &lineDisplay{out: cmd.OutOrStdout()}
			ctl := a.controller(d, nil, a.history())
			go ctl.Serve(ctx)

			if err := ctl.Toggle(ctx); err != nil {
				if errors.Is(err, audio.ErrPermission) {
					return fmt.Errorf("microphone unavailable: %w", err)
				}
				return err
			}
			waitForStop(ctx, dur)
			if err := ctl.Toggle(context.WithoutCancel(ctx)); err != nil {
				return err
			}
			ctl.Wait()
			if d.text() == transcribe.Unavailable {
				return errors.New("transcription failed; see log")
			}
			return nil
		},
	}
	cmd.Flags().DurationP("duration", "d", 0, "stop after this long instead of waiting for Enter")
	return cmd
}

func waitForStop(ctx context.Context, dur time.Duration) {
	enter := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()
	var timeout <-chan time.Time
	if dur > 0 {
		timer := time.NewTimer(dur)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-ctx.Done():
	case <-enter:
	case <-timeout:
	}
}

// NewPlayCmd plays the last recording or a WAV file.
func NewPlayCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play [wavfile]",
		Short: "Play the last recording",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			path := cfg.Paths.RecordingPath
			if len(args) == 1 {
				path = args[0]
			}
			blob, err := readBlob(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return audio.ErrNoRecording
				}
				return err
			}
			return audio.NewSpeaker().Play(cmd.Context(), blob)
		},
	}
}

// NewTranscribeCmd uploads a WAV file and prints the transcript.
func NewTranscribeCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <wavfile>",
		Short: "Transcribe a WAV file",
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
			wantHook, _ := cmd.Flags().GetBool("hook")

			blob, err := readBlob(args[0])
			if err != nil {
				return err
			}
			res, err := transcribe.New(cfg.BackendURL(), cfg.Timeout(), logger).TranscribeDetailed(cmd.Context(), blob)
			if err != nil {
				return err
			}
			txt := res.Text()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), txt)

			if !wantHook || txt == transcribe.NoTranscription {
				return nil
			}
			r := hook.NewRunner(&cfg.Hook, logger)
			if !r.Enabled() {
				return fmt.Errorf("no hook configured; set hook.command")
			}
			if !r.Accepts(txt) {
				return fmt.Errorf("skipped: len(text)=%d < min_chars=%d", len(txt), cfg.Hook.MinChars)
			}
			return r.Run(cmd.Context(), hook.Job{Text: txt, SessionID: res.RequestID, Timestamp: time.Now()})
		},
	}
	cmd.Flags().Bool("hook", false, "also send through configured hook")
	return cmd
}

// readBlob loads a WAV file, checking that it decodes.
func readBlob(path string) (audio.Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audio.Blob{}, err
	}
	if _, err := audio.DecodeWAV(data); err != nil {
		return audio.Blob{}, fmt.Errorf("%s: %w", path, err)
	}
	return audio.Blob{Data: data, ContentType: audio.ContentTypeWAV}, nil
}
