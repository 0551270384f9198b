package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
	"github.com/aatumaykin/autocore/internal/provider"
	"github.com/aatumaykin/autocore/internal/workspace"
)

var providerResetAll bool

// providerCmd groups the LLM provider failover commands.
var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Inspect and reset LLM provider failover state",
}

var providerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show provider health and configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		tracker := openTracker()

		for _, id := range provider.Priority {
			state := "healthy"
			if tracker.IsFailed(id) {
				state = fmt.Sprintf("failed (http %d)", tracker.LastStatus(id))
			}
			configured := "no"
			if cfg.Providers.Configured(id) {
				configured = "yes"
			}
			fmt.Printf("%-10s configured=%-3s model=%-28s %s\n",
				id, configured, cfg.Providers.Model(id), state)
		}

		if fallback, ok := tracker.Fallback(""); ok {
			fmt.Printf("\nnext routing target: %s\n", fallback)
		} else {
			fmt.Println("\nno routable provider (none configured and healthy)")
		}
	},
}

var providerResetCmd = &cobra.Command{
	Use:   "reset [provider]",
	Short: "Clear provider failure state",
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker()

		if providerResetAll {
			tracker.ResetAll()
			fmt.Println("all provider failure state cleared")
			return
		}

		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "expected a provider name or --all")
			os.Exit(1)
		}
		id, err := provider.Parse(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		tracker.Reset(id)
		fmt.Printf("failure state cleared for %s\n", id)
	},
}

func init() {
	providerResetCmd.Flags().BoolVar(&providerResetAll, "all", false, "reset every provider")
	providerCmd.AddCommand(providerStatusCmd)
	providerCmd.AddCommand(providerResetCmd)
}

// openTracker loads the provider tracker for CLI use.
func openTracker() *provider.Tracker {
	cfg := loadConfig()
	ws := workspace.New(cfg.Workspace.Path)
	if err := ws.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "workspace error: %v\n", err)
		os.Exit(1)
	}

	tracker := provider.NewTracker(ws.Path(), clock.NewSystemSource(), &cfg.Providers,
		cfg.Providers.RetryWindowSeconds, logger.Discard(), nil)
	tracker.Init()
	return tracker
}
