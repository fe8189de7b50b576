package control

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"voxdesk/internal/editor"
	"voxdesk/internal/models"
	"voxdesk/internal/notify"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	msgChangeOK     = "Model config changed successfully!"
	msgChangeFailed = "Error changing model config."
)

// NewModelsCmd wires up the models subcommands (list/current/config/set).
func NewModelsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List server models and view or change their config",
	}
	cmd.AddCommand(newModelsListCmd(cfgPath))
	cmd.AddCommand(newModelsCurrentCmd(cfgPath))
	cmd.AddCommand(newModelsConfigCmd(cfgPath))
	cmd.AddCommand(newModelsSetCmd(cfgPath))
	return cmd
}

func newModelsListCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models offered by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			names, err := a.models().ListModels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(names)
			}
			current, _ := a.models().CurrentModel(cmd.Context())
			for _, n := range names {
				mark := ""
				if n == current {
					mark = " (current)"
				}
				_, _ = fmt.Fprintf(out, "- %s%s\n", n, mark)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

func newModelsCurrentCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the model loaded by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			name, err := a.models().CurrentModel(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

// configEntry is the printable form of one config item.
type configEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Attribute   string   `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Options     []string `json:"options" yaml:"options"`
}

func newModelsConfigCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <model>",
		Short: "Show the configurable options of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			cfg, err := a.models().GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			return printConfig(cmd.OutOrStdout(), cfg, format)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func printConfig(out io.Writer, cfg models.Config, format string) error {
	entries := make([]configEntry, len(cfg.Items))
	for i, it := range cfg.Items {
		entries[i] = configEntry{Name: it.Name, Description: it.Description, Attribute: it.Attribute, Options: it.Options}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		for _, it := range cfg.Items {
			_, _ = fmt.Fprintf(out, "%s: %s\n", it.Label(), strings.Join(it.Options, " | "))
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func newModelsSetCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <model> [key=value ...]",
		Short: "Change a model's config; unset keys use their first option",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			pairs, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			client := a.models()
			model := args[0]
			cfg, err := client.GetConfig(cmd.Context(), model)
			if err != nil {
				return err
			}
			form := editor.NewForm(model, cfg)
			for _, p := range pairs {
				if err := form.SelectValue(p[0], p[1]); err != nil {
					return err
				}
			}
			svc := a.notifier(notify.TerminalPrompter{In: os.Stdin, Out: cmd.ErrOrStderr()})
			defer svc.Wait()
			if err := client.SetConfig(cmd.Context(), model, form.Payload()); err != nil {
				a.logger.Errorf("Error changing model config: %v", err)
				svc.Notify(cmd.Context(), msgChangeFailed, notify.KindError)
				return fmt.Errorf("%s: %w", msgChangeFailed, err)
			}
			svc.Notify(cmd.Context(), msgChangeOK, notify.KindSuccess)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), msgChangeOK)
			return nil
		},
	}
}

// parseAssignments splits key=value arguments.
func parseAssignments(args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected key=value, got %q", a)
		}
		out = append(out, [2]string{strings.TrimSpace(k), v})
	}
	return out, nil
}
