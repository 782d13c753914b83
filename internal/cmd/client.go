// Package cmd holds the non-interactive studio subcommands.
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/config"
)

// commandTimeout bounds each remote call made by a subcommand.
const commandTimeout = 30 * time.Second

// NewClient builds an API client from the loaded config. A nil config
// talks to the default server without a key.
func NewClient(cfg *config.Config) *api.Client {
	if cfg == nil {
		return api.NewDefaultClient("")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	return api.NewClient(baseURL, cfg.APIKey)
}

func loadClient() (*api.Client, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewClient(cfg), nil
}
