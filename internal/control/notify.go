package control

import (
	"fmt"
	"os"

	"voxdesk/internal/config"
	"voxdesk/internal/notify"

	"github.com/spf13/cobra"
)

// NewNotifyCmd groups notification subcommands.
func NewNotifyCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Desktop notification settings",
	}
	cmd.AddCommand(newNotifyTestCmd(cfgPath))
	cmd.AddCommand(newNotifyPermissionCmd(cfgPath))
	return cmd
}

func newNotifyTestCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "test [message]",
		Short: "Show a test notification (asks for permission if undecided)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			msg := "voxdesk notifications are working"
			if len(args) == 1 {
				msg = args[0]
			}
			svc := a.notifier(notify.TerminalPrompter{In: os.Stdin, Out: cmd.ErrOrStderr()})
			svc.Notify(cmd.Context(), msg, notify.KindSuccess)
			svc.Wait()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "permission: %s\n", svc.Permission())
			return nil
		},
	}
}

func newNotifyPermissionCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "permission [granted|denied|default]",
		Short:     "Show or set the notification permission",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{config.PermissionGranted, config.PermissionDenied, config.PermissionDefault},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				_, _ = fmt.Fprintln(out, notify.ParsePermission(a.cfg.Notify.Permission))
				return nil
			}
			p := notify.Permission(args[0])
			if p != notify.Granted && p != notify.Denied && p != notify.Default {
				return fmt.Errorf("permission must be granted, denied or default")
			}
			if err := a.notifier(nil).SetPermission(p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "permission set to %s in %s\n", p, a.cfg.Paths.ConfigPath)
			return nil
		},
	}
}
