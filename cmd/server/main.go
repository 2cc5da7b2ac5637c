package main // Entry point package

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/database"
	"github.com/iliyamo/rental-booking/internal/logger"
	"github.com/iliyamo/rental-booking/internal/repository"
	"github.com/iliyamo/rental-booking/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "rental-booking",
		Short:        "Vacation rental booking API",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// A missing .env is normal outside development.
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file seeding the environment")

	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd())
	// Running the binary bare starts the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

// setup loads configuration and builds the process logger shared by
// every subcommand.
func setup() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// openStores builds the storage backend named by cfg.Storage.  migrate
// applies the schema first on the relational backend.
func openStores(ctx context.Context, cfg config.Config, log logrus.FieldLogger, migrate bool) (*storage.Stores, error) {
	switch cfg.Storage {
	case storage.KindMemory:
		return storage.NewMemory(), nil
	case storage.KindFile:
		return storage.NewFile(cfg.DataDir, log)
	case storage.KindRelational:
		db, err := database.Open(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := repository.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return repository.NewStores(db, log), nil
	default:
		return nil, fmt.Errorf("unsupported storage kind %q", cfg.Storage)
	}
}
