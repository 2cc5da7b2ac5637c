package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/rental-booking/internal/database"
	"github.com/iliyamo/rental-booking/internal/repository"
	"github.com/iliyamo/rental-booking/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the relational schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if cfg.Storage != storage.KindRelational {
				return errors.New("migrate needs STORAGE_KIND=relational")
			}
			db, err := database.Open(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := repository.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.WithField("driver", cfg.DB.Driver).Info("schema applied")
			return nil
		},
	}
}
