package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Kartik4138/Resume-enhancer/internal/maintenance"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Run one retention cleanup pass",
	Long:  "Delete expired OTPs, refresh tokens, resume versions and cache rows, plus analyses and job descriptions past retention.",
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	cfg, logger, logCloser, err := loadConfig()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx := cmd.Context()
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	objects, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	report, runErr := maintenance.NewCleaner(database, objects, cfg.Cleanup.Retention, logger).RunOnce(ctx)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	return runErr
}
