package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"attentionos/internal/application"
	"attentionos/internal/application/commands"
)

var (
	attemptNote       string
	attemptOutcome    string
	attemptState      string
	attemptDecision   string
	attemptBenefit    float64
	attemptFriction   float64
	attemptImportance int
	attemptUrgency    int
	attemptReview     string

	attemptEditState    string
	attemptEditDecision string
)

var attemptCmd = &cobra.Command{
	Use:   "attempt",
	Short: "Manage attempts on a case",
	Long: `Manage attempts, the bounded efforts made on a case.

At most one attempt is active at any time across all cases.`,
}

var attemptStartCmd = &cobra.Command{
	Use:   "start <case-id>",
	Short: "Start an attempt on a case",
	Long: `Start an attempt on a case. The attempt is active unless --state says
otherwise, and starting fails while another attempt is active.

Examples:
  attentionos-cli attempt start 9a0b... --note "draft the outline"
  attentionos-cli attempt start 9a0b... --state paused --review +3d`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := application.ParseState(attemptState)
		if err != nil {
			return err
		}
		decision, err := application.ParseDecision(attemptDecision)
		if err != nil {
			return err
		}
		review, err := optionalDate("review", attemptReview)
		if err != nil {
			return err
		}

		fields := application.AttemptFields{
			Note:       attemptNote,
			Decision:   decision,
			Benefit:    attemptBenefit,
			Friction:   attemptFriction,
			State:      state,
			NextReview: review,
		}
		result, err := commands.NewStartAttemptCommand(GetDeps(), args[0], fields).Execute(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)
		fmt.Fprintf(out, "ID: %s\n", result.Attempt.ID)
		return nil
	},
}

var attemptCompleteCmd = &cobra.Command{
	Use:   "complete <attempt-id>",
	Short: "Complete an attempt with an outcome",
	Long: `Complete an attempt. A decision other than undecided and an outcome
are required.

Examples:
  attentionos-cli attempt complete 1d2e... --decision drop --outcome "not worth it"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decision, err := application.ParseDecision(attemptDecision)
		if err != nil {
			return err
		}

		values := application.CompletionValues{
			Decision: decision,
			Benefit:  attemptBenefit,
			Friction: attemptFriction,
			Outcome:  attemptOutcome,
		}
		result, err := commands.NewCompleteAttemptCommand(GetDeps(), args[0], values).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var attemptPauseCmd = &cobra.Command{
	Use:   "pause <attempt-id> <until>",
	Short: "Pause an active attempt until a review date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		until, err := parseDate("until", args[1])
		if err != nil {
			return err
		}

		result, err := commands.NewPauseAttemptCommand(GetDeps(), args[0], until).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var attemptEditCmd = &cobra.Command{
	Use:   "edit <attempt-id>",
	Short: "Edit an attempt",
	Long: `Edit an attempt. Only the flags given are changed. A done attempt
stays done.

Examples:
  attentionos-cli attempt edit 1d2e... --state active
  attentionos-cli attempt edit 1d2e... --benefit 7.5 --friction 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		var (
			state    application.State
			decision application.Decision
			err      error
		)
		if flags.Changed("state") {
			if state, err = application.ParseState(attemptEditState); err != nil {
				return err
			}
		}
		if flags.Changed("decision") {
			if decision, err = application.ParseDecision(attemptEditDecision); err != nil {
				return err
			}
		}
		review, err := optionalDate("review", attemptReview)
		if err != nil {
			return err
		}

		edit := func(e application.AttemptEdit) application.AttemptEdit {
			if flags.Changed("note") {
				e.Note = attemptNote
			}
			if flags.Changed("outcome") {
				e.Outcome = attemptOutcome
			}
			if flags.Changed("importance") {
				e.Importance = attemptImportance
			}
			if flags.Changed("urgency") {
				e.Urgency = attemptUrgency
			}
			if flags.Changed("state") {
				e.State = state
			}
			if flags.Changed("decision") {
				e.Decision = decision
			}
			if flags.Changed("benefit") {
				e.Benefit = attemptBenefit
			}
			if flags.Changed("friction") {
				e.Friction = attemptFriction
			}
			if flags.Changed("review") {
				e.NextReview = review
			}
			return e
		}

		result, err := commands.NewEditAttemptCommand(GetDeps(), args[0], edit).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	attemptStartCmd.Flags().StringVar(&attemptNote, "note", "", "what this attempt is about")
	attemptStartCmd.Flags().StringVar(&attemptState, "state", "active", "initial state (active or paused)")
	attemptStartCmd.Flags().StringVar(&attemptDecision, "decision", "undecided", "decision")
	attemptStartCmd.Flags().Float64Var(&attemptBenefit, "benefit", 0, "expected benefit (0-10, step 0.5)")
	attemptStartCmd.Flags().Float64Var(&attemptFriction, "friction", 0, "expected friction (0-10, step 0.5)")
	attemptStartCmd.Flags().StringVar(&attemptReview, "review", "", "next review date")

	attemptCompleteCmd.Flags().StringVar(&attemptOutcome, "outcome", "", "what happened")
	attemptCompleteCmd.Flags().StringVar(&attemptDecision, "decision", "undecided", "doNow, schedule, delegate or drop")
	attemptCompleteCmd.Flags().Float64Var(&attemptBenefit, "benefit", 0, "benefit (0-10, step 0.5)")
	attemptCompleteCmd.Flags().Float64Var(&attemptFriction, "friction", 0, "friction (0-10, step 0.5)")

	attemptEditCmd.Flags().StringVar(&attemptNote, "note", "", "note")
	attemptEditCmd.Flags().StringVar(&attemptOutcome, "outcome", "", "outcome")
	attemptEditCmd.Flags().IntVar(&attemptImportance, "importance", 0, "importance (0-10)")
	attemptEditCmd.Flags().IntVar(&attemptUrgency, "urgency", 0, "urgency (0-10)")
	attemptEditCmd.Flags().StringVar(&attemptEditState, "state", "", "inbox, active, paused or done")
	attemptEditCmd.Flags().StringVar(&attemptEditDecision, "decision", "", "decision")
	attemptEditCmd.Flags().Float64Var(&attemptBenefit, "benefit", 0, "benefit (0-10, step 0.5)")
	attemptEditCmd.Flags().Float64Var(&attemptFriction, "friction", 0, "friction (0-10, step 0.5)")
	attemptEditCmd.Flags().StringVar(&attemptReview, "review", "", "next review date")

	attemptCmd.AddCommand(attemptStartCmd)
	attemptCmd.AddCommand(attemptCompleteCmd)
	attemptCmd.AddCommand(attemptPauseCmd)
	attemptCmd.AddCommand(attemptEditCmd)
	rootCmd.AddCommand(attemptCmd)
}
