package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"attentionos/internal/application/commands"
)

var reviewAt string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the review buckets",
	Long: `Show inbox items grouped into Due, Inbox, Do Now and Scheduled,
followed by cases and attempts whose review date has passed.

Examples:
  attentionos-cli review
  attentionos-cli review --at tomorrow`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		at := GetDeps().Clock()
		if reviewAt != "" {
			var err error
			if at, err = parseDate("at", reviewAt); err != nil {
				return err
			}
		}

		result, err := commands.NewReviewCommand(GetDeps(), at).Execute(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, section := range result.Sections() {
			fmt.Fprintf(out, "%s (%d)\n", section.Title, len(section.Items))
			if len(section.Items) == 0 {
				fmt.Fprintf(out, "  %s\n", section.Empty)
			}
			for _, item := range section.Items {
				printInboxItem(out, item)
			}
		}

		if len(result.DueCases) > 0 {
			fmt.Fprintf(out, "Due cases (%d)\n", len(result.DueCases))
			for _, c := range result.DueCases {
				printCase(out, c)
			}
		}
		if len(result.DueAttempts) > 0 {
			fmt.Fprintf(out, "Due attempts (%d)\n", len(result.DueAttempts))
			for _, a := range result.DueAttempts {
				printAttempt(out, a)
			}
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewAt, "at", "", "review as of this date (default now)")
	rootCmd.AddCommand(reviewCmd)
}
