package main

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"pharmalocator/m/internal/config"
	"pharmalocator/m/internal/database"
	"pharmalocator/m/internal/locator"
	"pharmalocator/m/internal/observe"
	"pharmalocator/m/internal/store"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "locator",
		Short:         "Pharmacy locator search API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), nearbyCmd())
	return root
}

// bootstrap loads configuration and opens the shared store handle. Any
// failure here is a configuration error and stops the process.
func bootstrap(ctx context.Context) (config.Config, *sqlx.DB, *locator.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := observe.InitLogger(cfg.LogLevel)

	db, err := database.Connect(ctx, cfg.StoreURL, cfg.StoreKey)
	if err != nil {
		logger.Error("store unavailable", "err", err)
		return config.Config{}, nil, nil, err
	}
	logger.Info("connected to pharmacy store", "driver", db.DriverName())

	svc := locator.New(store.New(db, cfg.QueryTimeout), slog.Default())
	return cfg, db, svc, nil
}
