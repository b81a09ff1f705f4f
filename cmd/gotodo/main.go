package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"gotodo/internal/app"
	"gotodo/internal/config"
	"gotodo/internal/tui"
	"gotodo/internal/utils"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	apiURL     string
	verbose    bool
}

// loadConfig reads the config file and applies the --api-url override
func (g *globalFlags) loadConfig() (*config.Config, error) {
	path, err := config.GetConfigPath(g.configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if g.apiURL != "" {
		if err := utils.ValidateBaseURL(g.apiURL); err != nil {
			return nil, utils.ErrInvalidConfig("--api-url", err.Error())
		}
		cfg.APIURL = g.apiURL
	}
	return cfg, nil
}

// loadApp builds the client wiring for commands that talk to the API
func (g *globalFlags) loadApp() (*app.App, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.NewApp(cfg)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gotodo",
		Short: "Terminal todo list synced with a REST backend",
		Long: `gotodo manages a todo list stored behind a REST API.

Without a subcommand it opens the interactive list. Every change is sent to
the server and the whole list is fetched again afterwards.

Examples:
  gotodo                              # Interactive list
  gotodo list                         # Print all todos
  gotodo add "Buy milk"               # Create a todo
  gotodo toggle 1718000000000         # Flip completion
  gotodo serve --storage sqlite       # Run a local backend`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetVerboseMode(flags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.loadApp()
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), a)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file or directory (default: $XDG_CONFIG_HOME/gotodo/config.json)")
	rootCmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "todo collection URL, overrides api_url")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newListCmd(flags),
		newAddCmd(flags),
		newEditCmd(flags),
		newToggleCmd(flags),
		newRemoveCmd(flags),
		newServeCmd(flags),
		newConfigCmd(flags),
		newCredentialsCmd(flags),
	)

	return rootCmd
}

// runTUI starts the interactive list. Logging moves to a file while the
// alternate screen is active.
func runTUI(ctx context.Context, a *app.App) error {
	if dir, err := utils.CacheDir(); err == nil {
		if restore, err := redirectLog(filepath.Join(dir, "gotodo.log")); err == nil {
			defer restore()
		}
	}

	return tui.Run(ctx, a.Controller(), tui.Options{
		AlertDuration: a.Config().GetAlertDuration(),
	})
}

// redirectLog sends the log to the file at path until restore is called
func redirectLog(path string) (restore func(), err error) {
	closer, err := utils.RedirectToFile(path)
	if err != nil {
		return nil, err
	}
	return func() {
		utils.GetLogger().SetOutput(os.Stderr)
		if err := closer.Close(); err != nil {
			utils.Debugf("failed to close log file: %v", err)
		}
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
