package app

import (
	"context"
	"fmt"
	"time"

	"github.com/scamalert/alertpro/internal/api"
	"github.com/scamalert/alertpro/internal/config"
	"github.com/scamalert/alertpro/internal/logging"
	"github.com/scamalert/alertpro/internal/prefs"
	"github.com/scamalert/alertpro/internal/session"
	"github.com/scamalert/alertpro/internal/social"
	"github.com/scamalert/alertpro/internal/state"
	"github.com/scamalert/alertpro/internal/ui"
)

// Options configure the alertpro application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/alertpro/prefs.toml
	PollEvery  int    // seconds; zero uses the configured value
	Debug      bool
}

// Run boots the alertpro TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logging.New(cfg.LogPath(), opts.Debug)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	sess, err := session.Load(cfg.SessionPath())
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	client.SetDeviceID(sess.DeviceID)
	if sess.Authenticated() {
		client.SetToken(sess.Token)
	}

	store := &state.Store{}
	cache := social.NewCache()
	bus := social.NewBus()

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	StartPoller(ctx, store, client, interval, log)

	// Populate the store before the first frame renders.
	refresh(ctx, store, client, log)

	log.Infow("starting ui", "api_url", cfg.APIURL, "authenticated", sess.Authenticated())

	uiOpts := ui.Options{
		Context:     ctx,
		Client:      client,
		Store:       store,
		Cache:       cache,
		Bus:         bus,
		Config:      &cfg,
		Session:     sess,
		SessionPath: cfg.SessionPath(),
		ThemeName:   userPrefs.Theme,
		Compact:     userPrefs.CompactPosts,
		PrefsPath:   opts.PrefsPath,
		Log:         log,
	}
	return ui.Run(uiOpts)
}
