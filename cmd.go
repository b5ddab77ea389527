package main

import (
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/config"
	"todo-tracker/backend/internal/database"
	"todo-tracker/backend/internal/logging"
	"todo-tracker/backend/internal/server"
)

// NewRootCmd creates the root command for the backend CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "backend",
		Short:         "Todo tracker API server",
		Long:          `Multi-user todo tracker: cookie sessions, per-user task CRUD and account settings. Configuration comes from the environment.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if addr == "" {
				addr = cfg.GetServerAddr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := server.Open(ctx, cfg, logger)
			if err != nil {
				logging.Error(logger, "startup failed", err)
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logging.Error(logger, "shutdown cleanup failed", err)
				}
			}()

			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HOST and PORT")
	return cmd
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pool, err := database.NewDatabasePool(database.PoolConfigFrom(cfg, logger))
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("driver", cfg.Database.Driver).Wrap(err)
			}
			defer pool.Close()

			if err := pool.Migrate(cmd.Context()); err != nil {
				return oops.Code("MIGRATION_FAILED").Wrap(err)
			}

			logger.Info("migrations completed", zap.String("driver", cfg.Database.Driver))
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg, logger, nil
}
