package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "studyflow",
	Short: "Adaptive study session planner",
	Long: `studyflow builds structured study session plans from free-text goals,
adapts timings to your recent focus scores, and tracks completed sessions.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show studyflow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studyflow version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(startCmd, stopCmd, statusCmd, versionCmd)
	rootCmd.AddCommand(planCmd, recordCmd, statsCmd, configCmd)
}

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
