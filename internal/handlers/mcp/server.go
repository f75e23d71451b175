package mcp

import (
	"context"
	"log/slog"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
)

// ServerName is the MCP implementation name
const ServerName = "encounter-forge"

// Config holds dependencies for the MCP server
type Config struct {
	EncounterService encounter.Service
	BattleService    battle.Service
	Version          string
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	return vb.Build()
}

// Server wraps an MCP server with every tool registered
type Server struct {
	server *gomcp.Server
}

// NewServer registers the tools against the given services
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := gomcp.NewServer(&gomcp.Implementation{Name: ServerName, Version: version}, nil)
	gomcp.AddTool(server, generateEncounterTool(), generateEncounterHandler(cfg.EncounterService))
	gomcp.AddTool(server, randomEncounterTool(), randomEncounterHandler(cfg.EncounterService))
	gomcp.AddTool(server, startBattleTool(), startBattleHandler(cfg.BattleService))
	gomcp.AddTool(server, applyDamageTool(), applyDamageHandler(cfg.BattleService))
	gomcp.AddTool(server, getBattleTool(), getBattleHandler(cfg.BattleService))

	return &Server{server: server}, nil
}

// Run serves over transport until ctx is done or the client disconnects
func (s *Server) Run(ctx context.Context, transport gomcp.Transport) error {
	slog.Info("mcp server starting", "name", ServerName)
	if err := s.server.Run(ctx, transport); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "mcp server stopped")
	}
	return nil
}

// RunStdio serves on stdin/stdout
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &gomcp.StdioTransport{})
}
