// Package srd lists monsters from the D&D 5e SRD API for enemy type suggestions
package srd

//go:generate mockgen -destination=mock/mock_client.go -package=srdmock github.com/KirkDiggler/encounter-forge/internal/clients/srd Client

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

// Client defines the interface for SRD lookups
type Client interface {
	// ListMonsterNames returns every SRD monster name, sorted
	ListMonsterNames(ctx context.Context) ([]string, error)
}

// Config configures the SRD client
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return nil
}

type client struct {
	dnd5eClient dnd5e.Interface
}

// New creates a new SRD client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create D&D 5e API client: %w", err)
	}

	return &client{
		dnd5eClient: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL),
	}, nil
}

func (c *client) ListMonsterNames(ctx context.Context) ([]string, error) {
	// the dnd5e client takes no context; honor cancellation before the call
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.GetCode(err), "monster lookup canceled")
	}

	refs, err := c.dnd5eClient.ListMonsters()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list monsters from D&D 5e API")
	}

	seen := make(map[string]struct{}, len(refs))
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
