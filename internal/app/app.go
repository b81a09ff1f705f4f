package app

import (
	"fmt"

	"gotodo/backend"
	"gotodo/backend/rest"
	"gotodo/internal/cache"
	"gotodo/internal/config"
	"gotodo/internal/credentials"
	todosync "gotodo/internal/sync"
	"gotodo/internal/utils"
)

// App holds the client-side wiring shared by the TUI and the CLI commands
type App struct {
	config     *config.Config
	client     *rest.APIClient
	controller *todosync.Controller
	cache      *cache.Cache
	source     credentials.Source
}

// NewApp builds the REST client and sync controller described by cfg.
// A cache failure is not fatal: the app then runs without snapshots.
func NewApp(cfg *config.Config) (*App, error) {
	return newApp(cfg, credentials.NewResolver())
}

func newApp(cfg *config.Config, resolver *credentials.Resolver) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	creds, err := resolver.Resolve(cfg.APIURL, cfg.APIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve API token: %w", err)
	}
	utils.Debugf("API token source: %s", creds.Source)

	client := rest.NewAPIClient(cfg.APIURL,
		rest.WithToken(creds.Token),
		rest.WithTimeout(cfg.GetRequestTimeout()),
	)

	a := &App{
		config: cfg,
		client: client,
		source: creds.Source,
	}

	opts := todosync.Options{
		PreserveCompletionOnEdit: cfg.PreserveCompletionOnEdit,
		ToggleAlert:              todosync.ToggleAlertMode(cfg.GetToggleAlert()),
	}
	if c, err := cache.Default(); err != nil {
		utils.Debugf("cache disabled: %v", err)
	} else {
		a.cache = c
		opts.OnFetched = c.Recorder(client.BaseURL())
	}

	a.controller = todosync.NewController(client, backend.NewIDGenerator(), opts)
	return a, nil
}

// Config returns the loaded configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Controller returns the sync controller
func (a *App) Controller() *todosync.Controller {
	return a.controller
}

// Cache returns the list snapshot cache, nil when unavailable
func (a *App) Cache() *cache.Cache {
	return a.cache
}

// BaseURL returns the collection URL requests go to
func (a *App) BaseURL() string {
	return a.client.BaseURL()
}

// TokenSource reports where the API token came from
func (a *App) TokenSource() credentials.Source {
	return a.source
}

// Explain turns a request failure into an error with a suggestion
func (a *App) Explain(err error) error {
	return utils.ExplainBackendError(err, a.BaseURL())
}
