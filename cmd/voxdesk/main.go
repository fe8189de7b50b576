package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voxdesk/internal/control"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cobra.Command{
		Use:   "voxdesk",
		Short: "voxdesk — terminal client for a speech-to-text server",
		Long: `voxdesk records your microphone, uploads the audio to a speech-to-text server,
shows the transcript, and edits the configuration of the server's models.

Key commands:
  ui                          Interactive recorder + model config editor
  record [-d 5s]              Record once and print the transcript
  transcribe <wav> [--hook]   Upload a WAV file
  play [wav]                  Play the last recording
  models list|current|config|set   Server model management
  mic list|set                Select microphone (alias: microphone, mics)
  notify test|permission      Desktop notifications
  history|doctor|tail-log|test-hook

Env overrides: VOXDESK_BACKEND_URL, VOXDESK_BACKEND_SCHEMA,
               VOXDESK_LOG_LEVEL/FORMAT, VOXDESK_NOTIFY_ENABLED,
               VOXDESK_TRANSCRIPTS_ENABLED (a .env file in the working dir is read first)`,
		Example: `  voxdesk ui
  voxdesk record --duration 5s
  voxdesk transcribe meeting.wav
  voxdesk models config whisper -o yaml
  voxdesk models set whisper device=cuda language=en
  voxdesk test-hook "make it so"`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
	}

	root.Version = version
	root.SetVersionTemplate("voxdesk v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/voxdesk/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(control.NewUICmd(cfgPath))
	root.AddCommand(control.NewRecordCmd(cfgPath))
	root.AddCommand(control.NewTranscribeCmd(cfgPath))
	root.AddCommand(control.NewPlayCmd(cfgPath))
	root.AddCommand(control.NewModelsCmd(cfgPath))
	root.AddCommand(control.NewMicCmd(cfgPath))
	root.AddCommand(control.NewNotifyCmd(cfgPath))
	root.AddCommand(control.NewHistoryCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))
	root.AddCommand(control.NewTailLogCmd(cfgPath))
	root.AddCommand(control.NewTestHookCmd(cfgPath))

	applyColorHelp(root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

func applyColorHelp(root *cobra.Command) {
	const (
		boldBlue = "\033[1;34m"
		green    = "\033[32m"
		bold     = "\033[1m"
		dim      = "\033[2m"
		reset    = "\033[0m"
	)
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			// subcommands keep cobra's default help, which lists their flags
			cmd.SetHelpFunc(nil)
			_ = cmd.Usage()
			return
		}
		out := cmd.OutOrStdout()
		write := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }
		writeln := func(line string) { _, _ = fmt.Fprintln(out, line) }

		write("%svoxdesk%s — speech-to-text terminal client %s(v%s)%s\n", boldBlue, reset, dim, version, reset)
		write("%sRecords the mic, transcribes on your server, and edits server model config.%s\n\n", dim, reset)

		write("%sUsage%s\n", bold, reset)
		write("  voxdesk [command] [flags]\n\n")

		write("%sKey commands%s\n", bold, reset)
		writeln("  ui                          interactive recorder + config editor")
		writeln("  record [-d 5s]              record once, print transcript")
		writeln("  transcribe <wav> [--hook]   upload a WAV file")
		writeln("  play [wav]                  play the last recording")
		writeln("  models list|current|config|set  server model management")
		writeln("  mic list|set                select input device (alias: microphone, mics)")
		writeln("  notify test|permission      desktop notifications")
		writeln("  history                     recent transcripts")
		writeln("  doctor                      check backend/portaudio/hook/config")
		writeln("  tail-log                    show last log lines")
		writeln("  test-hook \"text\"            invoke hook manually")
		writeln("")

		write("%sNotable flags & env%s\n", bold, reset)
		writeln("  -c, --config <path>     config file (default ~/.config/voxdesk/config.toml)")
		writeln("  Env: VOXDESK_BACKEND_URL=http://host:8000, VOXDESK_BACKEND_SCHEMA=items|map,")
		writeln("       VOXDESK_LOG_LEVEL=debug, VOXDESK_LOG_FORMAT=json,")
		writeln("       VOXDESK_NOTIFY_ENABLED=0, VOXDESK_TRANSCRIPTS_ENABLED=0")
		writeln("  A .env file in the working directory is loaded first; real env wins.")
		writeln("")

		write("%sExamples%s\n", bold, reset)
		writeln("  voxdesk ui")
		writeln("  voxdesk record --duration 5s")
		writeln("  voxdesk transcribe meeting.wav --hook")
		writeln("  voxdesk models config whisper -o yaml")
		writeln("  voxdesk models set whisper device=cuda language=en")
		writeln("  voxdesk notify permission granted")
		writeln("")

		write("%sCommands%s\n", bold, reset)
		for _, c := range cmd.Commands() {
			if c.Hidden {
				continue
			}
			write("  %s%-15s%s %s\n", green, c.Name(), reset, c.Short)
		}
	})
}
