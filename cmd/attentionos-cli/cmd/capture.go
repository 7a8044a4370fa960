package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"attentionos/internal/application/commands"
)

var captureWhy string

var captureCmd = &cobra.Command{
	Use:   "capture <thought>",
	Short: "Capture a thought into the inbox",
	Long: `Capture a raw thought into the inbox for later triage.

New items start undecided with importance 5 and urgency 3.

Examples:
  attentionos-cli capture "renew passport"
  attentionos-cli capture "call the bank" --why "card expires in May"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		result, err := commands.NewCaptureCommand(GetDeps(), args[0], captureWhy).Execute(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintf(out, "ID: %s\n", result.Item.ID)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureWhy, "why", "", "why this matters")
	rootCmd.AddCommand(captureCmd)
}
