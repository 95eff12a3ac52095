package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// ConfigCommand shows and initialises the configuration file
type ConfigCommand struct {
	app *App
}

// NewConfigCommand creates a new config command handler
func NewConfigCommand(app *App) *ConfigCommand {
	return &ConfigCommand{app: app}
}

func (c *ConfigCommand) Name() string {
	return "config"
}

// Cobra builds the config command tree
func (c *ConfigCommand) Cobra() *cobra.Command {
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.app.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := c.app.config.Save(path); err != nil {
				return err
			}
			c.app.success("Wrote " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Long: `Print the configuration after the file, environment and flags were applied.
The Spotify client secret is never printed.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.show()
			},
		},
		initCmd,
	)
	return cmd
}

func (c *ConfigCommand) show() error {
	redacted := *c.app.config
	if redacted.Spotify.ClientSecret != "" {
		redacted.Spotify.ClientSecret = "********"
	}
	c.app.println(mutedStyle.Render("# " + c.app.configPath))
	return toml.NewEncoder(c.app.out).Encode(redacted)
}
