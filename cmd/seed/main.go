package main

import (
	"context"
	"os"

	"teamops/internal/audit"
	"teamops/internal/config"
	"teamops/internal/logger"
	"teamops/internal/model"
	"teamops/internal/service"

	"github.com/spf13/cobra"
)

func main() {
	var configFile, rosterFile, actor string

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Migrate the schema and load the team roster",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger.Init(cfg.Log)

			db, err := cfg.OpenGormDB()
			if err != nil {
				return err
			}
			// Step 1: schema
			if err := db.AutoMigrate(model.All()...); err != nil {
				return err
			}

			// Step 2: roster
			roster, err := loadRoster(rosterFile)
			if err != nil {
				return err
			}
			team := service.NewTeamService(db, audit.NewWriter(db))
			added, skipped, err := seedRoster(context.Background(), team, roster, actor)
			if err != nil {
				return err
			}
			logger.Info("seed done", "added", added, "skipped", skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().StringVar(&rosterFile, "roster", "etc/roster.yaml", "team roster YAML")
	cmd.Flags().StringVar(&actor, "actor", "seed", "user id recorded in the history log")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
