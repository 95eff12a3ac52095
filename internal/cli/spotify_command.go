package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"timesheet/internal/config"
)

// SpotifyCommand manages the Spotify client secret in the OS keyring
type SpotifyCommand struct {
	app *App
}

// NewSpotifyCommand creates a new spotify command handler
func NewSpotifyCommand(app *App) *SpotifyCommand {
	return &SpotifyCommand{app: app}
}

func (c *SpotifyCommand) Name() string {
	return "spotify"
}

// Cobra builds the spotify command tree
func (c *SpotifyCommand) Cobra() *cobra.Command {
	secret := &cobra.Command{
		Use:   "secret",
		Short: "Store or remove the Spotify client secret",
	}
	secret.AddCommand(
		&cobra.Command{
			Use:   "set [SECRET]",
			Short: "Store the client secret in the OS keyring",
			Long: `Store the Spotify client secret in the OS keyring. Without an argument the
secret is read from the first line of standard input, which keeps it out of
shell history.`,
			Args: cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := secretFromArgs(cmd, args)
				if err != nil {
					return err
				}
				if err := config.StoreSpotifySecret(value); err != nil {
					return err
				}
				c.app.success("Spotify client secret stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the client secret from the OS keyring",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				err := config.DeleteSpotifySecret()
				if errors.Is(err, config.ErrSecretNotFound) {
					c.app.println(mutedStyle.Render("No Spotify client secret stored"))
					return nil
				}
				if err != nil {
					return err
				}
				c.app.success("Spotify client secret removed")
				return nil
			},
		},
	)

	cmd := &cobra.Command{
		Use:   "spotify",
		Short: "Spotify token proxy settings",
	}
	cmd.AddCommand(secret)
	return cmd
}

func secretFromArgs(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no secret given on standard input")
	}
	return strings.TrimSpace(line), nil
}
