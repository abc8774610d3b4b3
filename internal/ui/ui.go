// Package ui renders the Scam Alert Pro terminal client with bubbletea.
//
// The model never trusts fetched payloads for social state: likes, saves,
// follows and their counters are read from the shared cache at render time,
// so a toggle on one screen is visible on every other screen on the next
// frame. Remote settlement results and cross-screen cache changes arrive as
// messages through channels, keeping the update loop the only writer of
// model state.
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/config"
	"github.com/scamalert/alertpro/internal/session"
	"github.com/scamalert/alertpro/internal/social"
	"github.com/scamalert/alertpro/internal/state"
)

// Options configure the TUI.
type Options struct {
	Context     context.Context
	Client      *api.Client
	Store       *state.Store
	Cache       *social.Cache
	Bus         *social.Bus
	Config      *config.Config
	Session     session.Session
	SessionPath string
	ThemeName   string
	Compact     bool
	PrefsPath   string
	Log         *zap.SugaredLogger
}

// Run starts the TUI and blocks until quit or context cancellation.
func Run(opts Options) error {
	if opts.Client == nil || opts.Cache == nil || opts.Bus == nil || opts.Store == nil {
		return fmt.Errorf("ui: missing client, cache, bus or store")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := newModel(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(opts.Context),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
