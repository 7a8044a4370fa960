package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"attentionos/internal/adapters/editor"
	"attentionos/internal/application"
	"attentionos/internal/application/commands"
)

var (
	caseTitle      string
	caseBrief      string
	caseDetails    string
	caseImportance int
	caseUrgency    int
	caseDecision   string
	caseReview     string
	caseListState  string
	caseUseEditor  bool
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage cases",
}

var caseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a case",
	Long: `Create a case. Importance and urgency range from 0 to 10.

Examples:
  attentionos-cli case create --title "Launch" --brief "ship v1"
  attentionos-cli case create --title "Taxes" --decision schedule --review +7d`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		decision, err := application.ParseDecision(caseDecision)
		if err != nil {
			return err
		}
		review, err := optionalDate("review", caseReview)
		if err != nil {
			return err
		}

		fields := application.CaseFields{
			Title:      caseTitle,
			Brief:      caseBrief,
			Details:    caseDetails,
			Importance: caseImportance,
			Urgency:    caseUrgency,
			Decision:   decision,
			NextReview: review,
		}
		result, err := commands.NewCreateCaseCommand(GetDeps(), fields).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintf(out, "ID: %s\n", result.Case.ID)
		return nil
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var state application.State
		if caseListState != "" {
			var err error
			if state, err = application.ParseState(caseListState); err != nil {
				return err
			}
		}

		result, err := commands.NewListCasesCommand(GetDeps(), state).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Cases) == 0 {
			fmt.Fprintln(out, "No cases found")
			return nil
		}
		for _, c := range result.Cases {
			printCase(out, c)
		}
		return nil
	},
}

var caseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a case as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewShowCaseCommand(GetDeps(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), result.Markdown)
		return nil
	},
}

var caseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a case",
	Long: `Edit a case. Only the flags given are changed.

With --editor the details open in $EDITOR.

Examples:
  attentionos-cli case edit 9a0b... --urgency 5
  attentionos-cli case edit 9a0b... --editor`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		caseID := args[0]
		flags := cmd.Flags()

		var decision application.Decision
		if flags.Changed("decision") {
			var err error
			if decision, err = application.ParseDecision(caseDecision); err != nil {
				return err
			}
		}
		review, err := optionalDate("review", caseReview)
		if err != nil {
			return err
		}

		details := caseDetails
		if caseUseEditor {
			shown, err := commands.NewShowCaseCommand(GetDeps(), caseID).Execute(ctx)
			if err != nil {
				return err
			}
			if details, err = editor.NewOpener().EditText(shown.Case.Details, "attentionos-*.md"); err != nil {
				return fmt.Errorf("failed to edit details: %w", err)
			}
		}

		edit := func(f application.CaseFields) application.CaseFields {
			if flags.Changed("title") {
				f.Title = caseTitle
			}
			if flags.Changed("brief") {
				f.Brief = caseBrief
			}
			if flags.Changed("details") || caseUseEditor {
				f.Details = details
			}
			if flags.Changed("importance") {
				f.Importance = caseImportance
			}
			if flags.Changed("urgency") {
				f.Urgency = caseUrgency
			}
			if flags.Changed("decision") {
				f.Decision = decision
			}
			if flags.Changed("review") {
				f.NextReview = review
			}
			return f
		}

		result, err := commands.NewEditCaseCommand(GetDeps(), caseID, edit).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var caseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a case and its attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteCaseCommand(GetDeps(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func addCaseFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&caseTitle, "title", "", "case title")
	cmd.Flags().StringVar(&caseBrief, "brief", "", "one-line summary")
	cmd.Flags().StringVar(&caseDetails, "details", "", "longer notes")
	cmd.Flags().IntVar(&caseImportance, "importance", 0, "importance (0-10)")
	cmd.Flags().IntVar(&caseUrgency, "urgency", 0, "urgency (0-10)")
	cmd.Flags().StringVar(&caseDecision, "decision", "undecided", "undecided, doNow, schedule, delegate or drop")
	cmd.Flags().StringVar(&caseReview, "review", "", "next review date")
}

func init() {
	addCaseFieldFlags(caseCreateCmd)
	addCaseFieldFlags(caseEditCmd)
	caseEditCmd.Flags().BoolVar(&caseUseEditor, "editor", false, "edit details in $EDITOR")
	caseListCmd.Flags().StringVar(&caseListState, "state", "", "only cases in this state (inbox, active, paused, done)")

	caseCmd.AddCommand(caseCreateCmd)
	caseCmd.AddCommand(caseListCmd)
	caseCmd.AddCommand(caseShowCmd)
	caseCmd.AddCommand(caseEditCmd)
	caseCmd.AddCommand(caseDeleteCmd)
	rootCmd.AddCommand(caseCmd)
}
