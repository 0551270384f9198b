package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/autocore/internal/provider"
)

// configCmd represents the config inspection command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		fmt.Printf("workspace: %s\n", cfg.Workspace.Path)
		fmt.Printf("logging: level=%s format=%s output=%s\n",
			cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
		fmt.Printf("scheduler: tick=%dms status=%v/%ds heartbeat=%v/%ds grace=%dm tz=%s\n",
			cfg.Scheduler.TickIntervalMillis,
			cfg.Scheduler.StatusEnabled, cfg.Scheduler.StatusIntervalSeconds,
			cfg.Scheduler.HeartbeatEnabled, cfg.Scheduler.HeartbeatIntervalSeconds,
			cfg.Scheduler.ReminderGraceMinutes, cfg.Scheduler.Timezone)
		fmt.Printf("providers: retry_window=%ds\n", cfg.Providers.RetryWindowSeconds)
		for _, id := range provider.Priority {
			key := "unset"
			if cfg.Providers.Configured(id) {
				key = "set"
			}
			fmt.Printf("  %-10s api_key=%-5s model=%s\n", id, key, cfg.Providers.Model(id))
		}
		fmt.Printf("metrics: enabled=%v addr=%s namespace=%s\n",
			cfg.Metrics.Enabled, cfg.Metrics.ListenAddr, cfg.Metrics.Namespace)
	},
}
