package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gotodo/backend"
	"gotodo/backend/sqlite"
	"gotodo/internal/config"
	"gotodo/internal/server"
	"gotodo/internal/utils"
)

// openStore returns the storage named by the server config
func openStore(cfg config.ServerConfig) (backend.Store, error) {
	switch cfg.Storage {
	case "", "memory":
		return backend.NewMemoryStore(), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath)
	default:
		return nil, utils.ErrInvalidConfig("server.storage", fmt.Sprintf("unknown storage %q (use memory or sqlite)", cfg.Storage))
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		storage string
		dbPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a todo REST backend",
		Long: `Serve the todo collection on /todos.

Examples:
  gotodo serve                                  # In-memory, :8080
  gotodo serve --storage sqlite                 # Persist to the data dir
  gotodo serve --addr 127.0.0.1:9000 --db ./todos.db --storage sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			srvCfg := cfg.Server
			if cmd.Flags().Changed("addr") {
				srvCfg.Addr = addr
			}
			if cmd.Flags().Changed("storage") {
				srvCfg.Storage = storage
			}
			if cmd.Flags().Changed("db") {
				srvCfg.DBPath = dbPath
			}

			store, err := openStore(srvCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			utils.Infof("storage: %s", srvCfg.Storage)
			srv := server.New(store, server.Options{
				Addr:           srvCfg.Addr,
				AuthToken:      srvCfg.AuthToken,
				RateLimitRPS:   srvCfg.RateLimitRPS,
				RateLimitBurst: srvCfg.RateLimitBurst,
			})
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storage, "storage", "memory", "storage backend: memory or sqlite")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: $XDG_DATA_HOME/gotodo/todos.db)")
	return cmd
}
