package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"attentionos/internal/app"
	"attentionos/internal/application"
	"attentionos/internal/application/commands"
	"attentionos/internal/config"
)

var (
	configPath string
	dbPath     string
	current    *app.App
)

var rootCmd = &cobra.Command{
	Use:   "attentionos-cli",
	Short: "Capture, triage and review what deserves your attention",
	Long: `attentionos-cli is a command-line interface for AttentionOS.

Capture raw thoughts into an inbox, triage them (do now, schedule, drop),
track cases and the attempts made on them, and export cases as Markdown.
Reminders follow each item's review date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return openApp()
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	if closeErr := closeApp(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/attentionos/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database")
}

func openApp() error {
	if current != nil {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	current = a
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// closeApp waits for reminder work and releases the store
func closeApp() error {
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}

// GetDeps returns the initialized command dependencies
func GetDeps() *commands.Deps {
	return current.Deps
}

// GetApp returns the initialized application
func GetApp() *app.App {
	return current
}

// parseDate resolves a user date relative to the command clock
func parseDate(field, value string) (time.Time, error) {
	return application.ParseDate(field, value, GetDeps().Clock())
}

// optionalDate parses value when given
func optionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
