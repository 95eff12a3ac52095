package cli

import (
	"github.com/spf13/cobra"
)

// Command is one top-level command group of the CLI
type Command interface {
	Name() string
	Cobra() *cobra.Command
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands []Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{}

	registry.Register(NewServeCommand(app))
	registry.Register(NewMigrateCommand(app))
	registry.Register(NewEntryCommand(app))
	registry.Register(NewReportCommand(app))
	registry.Register(NewCategoryCommand(app))
	registry.Register(NewTaskCommand(app))
	registry.Register(NewExportCommand(app))
	registry.Register(NewSpotifyCommand(app))
	registry.Register(NewConfigCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(command Command) {
	r.commands = append(r.commands, command)
}

// Lookup finds a registered command group by name
func (r *CommandRegistry) Lookup(name string) (Command, bool) {
	for _, c := range r.commands {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Commands builds the cobra commands in registration order
func (r *CommandRegistry) Commands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(r.commands))
	for _, c := range r.commands {
		cmds = append(cmds, c.Cobra())
	}
	return cmds
}
