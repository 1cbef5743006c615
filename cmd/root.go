package cmd

import (
	"fmt"
	"os"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/config"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	policyFile  string
	memoryStore bool
)

var rootCmd = &cobra.Command{
	Use:   "carrier-engine",
	Short: "Carrier performance scoring, tiering and load matching",
	Long: `carrier-engine scores carriers weekly, resolves their tier, gates them on
compliance and ranks them against posted loads.

Run "carrier-engine serve" to start the HTTP API and scheduled jobs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&policyFile, "policy", "p", "", "Scoring policy file (overrides SCORING_POLICY_FILE)")
	rootCmd.PersistentFlags().BoolVar(&memoryStore, "memory", false, "Use the in-memory store (overrides USE_MEMORY_STORE)")

	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd)
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig() *config.Config {
	cfg := config.FromEnv()
	if policyFile != "" {
		cfg.PolicyFile = policyFile
	}
	if memoryStore {
		cfg.UseMemoryStore = true
	}
	return cfg
}
