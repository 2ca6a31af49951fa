package main

import (
	"github.com/spf13/cobra"

	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-eco-scores",
	Short: "Computes eco scores for items stored without one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Configure(cfg.Environment)

		app, err := newApplication(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		updated, err := app.itemUseCase.BackfillEcoScores(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("Backfilled eco scores for %d items", updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}
