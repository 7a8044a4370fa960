package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"attentionos/internal/application/commands"
)

var notifyDueOnly bool

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage reminders",
	Long: `Turn reminders on or off for everything and inspect what is scheduled.

Examples:
  attentionos-cli notify on
  attentionos-cli notify status
  attentionos-cli notify pending --due`,
}

var notifyOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setNotifications(cmd, true)
	},
}

var notifyOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setNotifications(cmd, false)
	},
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether reminders are on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewNotificationStatusCommand(GetDeps(), GetApp().Reminders).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		state := "off"
		if result.Enabled {
			state = "on"
		}
		fmt.Fprintf(out, "Reminders: %s\n", state)
		if result.Listed {
			fmt.Fprintf(out, "Pending: %d\n", len(result.Pending))
		}
		return nil
	},
}

var notifyPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status := commands.NewNotificationStatusCommand(GetDeps(), GetApp().Reminders)
		status.DueOnly = notifyDueOnly
		result, err := status.Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Pending) == 0 {
			fmt.Fprintln(out, "No pending reminders")
			return nil
		}
		for _, p := range result.Pending {
			fmt.Fprintf(out, "  %s  %s  %s\n", p.At.Local().Format(reviewLayout), p.Title, p.Key)
		}
		return nil
	},
}

func setNotifications(cmd *cobra.Command, enabled bool) error {
	result, err := commands.NewSetNotificationsCommand(GetDeps(), enabled).Execute(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

func init() {
	notifyPendingCmd.Flags().BoolVar(&notifyDueOnly, "due", false, "only reminders that are already due")

	notifyCmd.AddCommand(notifyOnCmd)
	notifyCmd.AddCommand(notifyOffCmd)
	notifyCmd.AddCommand(notifyStatusCmd)
	notifyCmd.AddCommand(notifyPendingCmd)
	rootCmd.AddCommand(notifyCmd)
}
