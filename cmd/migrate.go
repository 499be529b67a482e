package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/starcatalog-backend/internal/app"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log, err := app.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := app.OpenStore(cfg, log, true)
			if err != nil {
				return err
			}
			log.Info("Schema up to date", "driver", cfg.DB.Driver)
			return store.Close()
		},
	}
}
