package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Signal-driven auto-trading engine",
	Long: `Quant is the quantitative core of a trading application.

It provides tools for:
  - Computing rolling technical indicators over price history
  - Generating bounded alpha signals per instrument
  - Evaluating signals into risk-limited trade decisions
  - Running the auto-trading scheduler against a paper broker`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; missing file is fine.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
