package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"attentionos/internal/application/commands"
)

var triageKind string

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Apply a quick action to an item, case or attempt",
	Long: `Apply one of the quick review actions.

  do-now    activate, mark do-now and clear the review date
  schedule  set a review date and a reminder
  drop      mark done and cancel the reminder

Examples:
  attentionos-cli triage do-now 6f1c...
  attentionos-cli triage schedule 6f1c... tomorrow
  attentionos-cli triage drop --kind case 9a0b...`,
}

var triageDoNowCmd = &cobra.Command{
	Use:   "do-now <id>",
	Short: "Mark something to do now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTriage(cmd, args[0], commands.TriageDoNow, time.Time{})
	},
}

var triageScheduleCmd = &cobra.Command{
	Use:   "schedule <id> <date>",
	Short: "Schedule a review",
	Long: `Schedule a review date. Dates accept today, tomorrow, +Nd,
YYYY-MM-DD or "YYYY-MM-DD HH:MM".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate("date", args[1])
		if err != nil {
			return err
		}
		return runTriage(cmd, args[0], commands.TriageSchedule, date)
	},
}

var triageDropCmd = &cobra.Command{
	Use:   "drop <id>",
	Short: "Drop something",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTriage(cmd, args[0], commands.TriageDrop, time.Time{})
	},
}

func runTriage(cmd *cobra.Command, id string, action commands.TriageAction, date time.Time) error {
	kind, err := commands.ParseKind(triageKind)
	if err != nil {
		return err
	}

	result, err := commands.NewTriageCommand(GetDeps(), kind, id, action, date).Execute(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

func init() {
	triageCmd.PersistentFlags().StringVar(&triageKind, "kind", "inbox", "target kind: inbox, case or attempt")
	triageCmd.AddCommand(triageDoNowCmd)
	triageCmd.AddCommand(triageScheduleCmd)
	triageCmd.AddCommand(triageDropCmd)
	rootCmd.AddCommand(triageCmd)
}
