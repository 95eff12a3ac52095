package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"timesheet/internal/config"
	"timesheet/internal/server"
	"timesheet/internal/spotify"
)

// ServeCommand runs the HTTP API
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

func (c *ServeCommand) Name() string {
	return "serve"
}

// Cobra builds the serve command
func (c *ServeCommand) Cobra() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Long: `Serve the JSON API until interrupted. Pending migrations are applied on start.

The Spotify token proxy is enabled when spotify.client_id is configured and a
client secret is available from the config file, TIMESHEET_SPOTIFY_CLIENT_SECRET
or the OS keyring (see "timesheet spotify secret set").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides TIMESHEET_SERVER_ADDR)")
	return cmd
}

func (c *ServeCommand) serve(cmd *cobra.Command) error {
	// the server runs until interrupted, so no command timeout applies
	ctx := cmd.Context()
	cfg := c.app.config
	logger := c.app.logger

	store, err := c.app.openStore(ctx)
	if err != nil {
		return err
	}
	b, err := c.app.businessAPI(ctx)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		API:     b,
		Health:  store,
		Spotify: c.spotifyClient(cfg),
		Logger:  logger,
		Info: server.Info{
			Name:    cfg.Application.Name,
			Version: cfg.Application.Version,
			Mode:    cfg.Application.Mode,
		},
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	return srv.ListenAndServe(ctx)
}

func (c *ServeCommand) spotifyClient(cfg *config.Config) *spotify.Client {
	if cfg.Spotify.ClientID == "" {
		c.app.logger.Debug("Spotify integration disabled: no client id")
		return nil
	}
	secret, err := cfg.SpotifyClientSecret()
	if err != nil {
		if !errors.Is(err, config.ErrSecretNotFound) {
			c.app.logger.Warn("Spotify client secret unavailable", "err", err)
		}
		return nil
	}
	return spotify.NewClient(cfg.Spotify.ClientID, secret, cfg.Spotify.TokenURL)
}
