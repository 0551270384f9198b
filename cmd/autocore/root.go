package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/autocore/internal/config"
)

var rootConfigPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autocore",
	Short: "Autocore - autonomy core for a self-hosted embedded assistant",
	Long: `Autocore is the autonomy core of a self-hosted assistant: it decides,
without anyone driving it, when to act. It emits periodic status and
heartbeat dispatches, fires calendar-based daily reminders, triggers
cron-style recurring jobs, and tracks LLM provider health for
fault-tolerant routing.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "./config.toml", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(providerCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads .env, the config file, and validates it, exiting with
// a message on any problem. Shared by every subcommand that needs state.
func loadConfig() *config.Config {
	if err := config.LoadEnvOptional("./.env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "invalid configuration:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		os.Exit(1)
	}

	return cfg
}
