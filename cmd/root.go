// Package cmd provides CLI commands for elements-migrate.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "elements-migrate",
	Short: "Extract contributor names from faculty activity reports",
	Long: `elements-migrate prepares faculty activity data for import into
Elements. Its core job is turning free-text contributor strings like
"Ledger H, Bar H, and CE Heath" into structured person rows, matched
against the record owner's known identity.

Examples:
  elements-migrate persons --profile publication -i merged.csv -o persons.csv
  elements-migrate parse "Ledger H, Bar H, and CE Heath"
  elements-migrate review timeouts --db review.db`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Optional local settings, e.g. LOG_LEVEL.
	_ = godotenv.Load()
	setupLogger()
	rootCmd.AddCommand(personsCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(profilesCmd)
}
