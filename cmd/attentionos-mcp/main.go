package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "attentionos/internal/adapters/mcp"
	"attentionos/internal/app"
	"attentionos/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	dbFlag := flag.String("db", "", "path to the SQLite database")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("attentionos-mcp: %v", err)
	}
	if *dbFlag != "" {
		cfg.Database.Path = *dbFlag
	}

	// stdout carries the protocol
	logger := cfg.NewLogger(os.Stderr)

	a, err := app.Open(cfg, logger)
	if err != nil {
		log.Fatalf("attentionos-mcp: %v", err)
	}
	defer a.Close()

	mcpServer := server.NewMCPServer(
		"attentionos-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, a.Deps)
	mcpadapter.RegisterWriteTools(mcpServer, a.Deps, a.Grants)

	if err := server.ServeStdio(mcpServer); err != nil {
		a.Close()
		log.Fatalf("attentionos-mcp: %v", err)
	}
}
