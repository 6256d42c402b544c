package main

import (
	"fmt"

	"om-api/pkg/database"

	"github.com/spf13/cobra"
)

var migratePrint bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables and the chunk search function",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "print the schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migratePrint {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), database.Schema(cfg.EmbeddingDimensions))
		return err
	}

	ctx := cmd.Context()
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, cfg.EmbeddingDimensions); err != nil {
		return err
	}

	appLog.Info().
		Int("dimensions", cfg.EmbeddingDimensions).
		Msg("Schema applied")
	return nil
}
