package cmd

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"attentionos/internal/application"
	"attentionos/internal/application/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cases as Markdown files",
	Long: `Export cases as Markdown files into a granted directory.

Examples:
  attentionos-cli export grant ~/notes/cases
  attentionos-cli export run
  attentionos-cli export run 9a0b... 1d2e...
  attentionos-cli export copy 9a0b...`,
}

var exportGrantCmd = &cobra.Command{
	Use:   "grant <dir>",
	Short: "Choose the export directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewGrantExportCommand(GetApp().Grants, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var exportRunCmd = &cobra.Command{
	Use:   "run [case-id...]",
	Short: "Write cases to the export directory",
	Long: `Write cases to the export directory, all of them when no IDs are
given. A case that fails to export does not stop the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewExportCommand(GetDeps(), GetApp().Grants, args...).Execute(context.Background())
		if err != nil {
			if application.IsGrantError(err) {
				return fmt.Errorf("%w (run 'attentionos-cli export grant <dir>' first)", err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		for _, name := range result.Written {
			fmt.Fprintf(out, "  wrote   %s\n", name)
		}
		for _, name := range result.Removed {
			fmt.Fprintf(out, "  removed %s\n", name)
		}
		for _, f := range result.Failures {
			fmt.Fprintf(out, "  failed  %s\n", f.Error())
		}
		return nil
	},
}

var exportCopyCmd = &cobra.Command{
	Use:   "copy <case-id>",
	Short: "Copy a case as Markdown to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewShowCaseCommand(GetDeps(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		if err := clipboard.WriteAll(result.Markdown); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to clipboard\n", result.Filename)
		return nil
	},
}

func init() {
	exportCmd.AddCommand(exportGrantCmd)
	exportCmd.AddCommand(exportRunCmd)
	exportCmd.AddCommand(exportCopyCmd)
	rootCmd.AddCommand(exportCmd)
}
