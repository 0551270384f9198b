package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
	"github.com/aatumaykin/autocore/internal/persona"
	"github.com/aatumaykin/autocore/internal/workspace"
)

// timeCmd represents the time debug command
var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Show resolved timezone and clock sync state",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ws := workspace.New(cfg.Workspace.Path)

		store := persona.NewStore(ws.Path(), logger.Discard())
		store.Init()

		tz := cfg.Scheduler.Timezone
		if override := store.Timezone(); override != "" {
			tz = override
		}

		resolver := clock.NewResolver(clock.NewSystemSource(), nil, logger.Discard())
		resolver.Configure(tz)
		fmt.Println(resolver.DebugString())
	},
}
