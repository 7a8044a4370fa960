package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"attentionos/internal/adapters/editor"
	"attentionos/internal/adapters/tui"
	"attentionos/internal/app"
	"attentionos/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	dbFlag := flag.String("db", "", "path to the SQLite database")
	flag.Parse()

	if err := run(*configFlag, *dbFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logger := cfg.NewLogger(os.Stderr)

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(tui.NewApp(a.Deps, editor.NewOpener()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
