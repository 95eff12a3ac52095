package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"timesheet/internal/api"
	"timesheet/internal/config"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlstore"
	"timesheet/internal/services"
)

// App holds the dependencies shared by every command. Anything not injected
// through an Option is built from the loaded configuration on first use.
type App struct {
	api    api.BusinessAPI
	store  *sqlstore.Store
	config *config.Config
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	// configPath is the file config show/init refer to
	configPath string
}

// Option configures an App
type Option func(*App)

// WithBusinessAPI injects the API instead of opening the configured database
func WithBusinessAPI(b api.BusinessAPI) Option {
	return func(a *App) {
		a.api = b
	}
}

// WithConfig skips loading configuration from file and environment
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithOutput redirects command output and diagnostics
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithClock replaces time.Now for "today" defaults
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(opts ...Option) *App {
	a := &App{
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the command line in args
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.Close()

	root := NewRootCommand(a)
	root.cmd.SetArgs(args)
	root.cmd.SetOut(a.out)
	root.cmd.SetErr(a.errOut)
	err := root.cmd.ExecuteContext(ctx)
	if err != nil {
		logging.Debugln("command failed:", args, err)
	}
	return err
}

// Close releases the database, if one was opened
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// setup finishes configuration once flags are parsed
func (a *App) setup(path string, overrides *config.ConfigOverrides) error {
	loader := config.NewLoader(path)
	a.configPath = loader.Path()

	if a.config == nil {
		cfg, err := loader.LoadWithOverrides(overrides)
		if err != nil {
			return err
		}
		a.config = cfg
	} else {
		overrides.Apply(a.config)
		if err := a.config.Validate(); err != nil {
			return err
		}
	}

	if a.logger == nil {
		lc := a.config.LoggerConfig()
		lc.Output = a.errOut
		logger, err := logging.New(lc)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	logging.Debugf("config: %s (driver %s, output %s)\n", a.configPath, a.config.Database.Driver, a.config.Display.OutputFormat)
	return nil
}

// businessAPI returns the injected API or one backed by the configured database
func (a *App) businessAPI(ctx context.Context) (api.BusinessAPI, error) {
	if a.api != nil {
		return a.api, nil
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	container := services.NewServiceContainer(store, a.logger)
	a.api = api.NewBusinessAPI(container, api.WithClock(a.now))
	return a.api, nil
}

func (a *App) openStore(ctx context.Context) (*sqlstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := config.CreateRepository(ctx, a.config)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}
