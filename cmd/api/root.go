package main

import (
	"fmt"

	"om-api/pkg/config"
	"om-api/pkg/logger"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	appLog *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "om-api",
	Short: "Offering memorandum ingestion and question answering",
	Long: `om-api ingests offering memorandum PDFs, extracts their headline
financial metrics and answers questions about them from the stored text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		appLog = logger.New(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}
