package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/encounter-forge/internal/config"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools over stdio",
	Long: `Run an MCP server on stdin/stdout so an assistant can forge encounters and
track battles. Logs go to stderr.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout carries the protocol
	slog.SetDefault(cfg.Logger(os.Stderr))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	server, err := mcp.NewServer(&mcp.Config{
		EncounterService: svc.encounters,
		BattleService:    svc.battles,
		Version:          version,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create mcp server")
	}

	return server.RunStdio(ctx)
}
