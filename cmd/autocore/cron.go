package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/autocore/internal/cron"
	"github.com/aatumaykin/autocore/internal/logger"
	"github.com/aatumaykin/autocore/internal/workspace"
)

// cronCmd groups the operator-facing cron job commands.
var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage recurring cron jobs",
	Long: `Manage the persisted cron job document. Jobs are one line each:

  minute hour day month weekday | command

where each schedule field is * (any) or a number in its range
(minute 0-59, hour 0-23, day 1-31, month 1-12, weekday 0-6, 0=Sunday).`,
}

var cronAddCmd = &cobra.Command{
	Use:   "add \"minute hour day month weekday | command\"",
	Short: "Add a cron job",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openCronStore()
		job, err := store.Add(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot add job: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("added: %s\n", job.String())
	},
}

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached cron jobs",
	Run: func(cmd *cobra.Command, args []string) {
		store := openCronStore()
		jobs := store.Jobs()
		if len(jobs) == 0 {
			fmt.Println("no cron jobs")
			return
		}
		for i, job := range jobs {
			fmt.Printf("%d. %s\n", i+1, job.String())
		}
	},
}

var cronClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cron jobs",
	Run: func(cmd *cobra.Command, args []string) {
		store := openCronStore()
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "cannot clear jobs: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("all cron jobs cleared")
	},
}

var cronShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the raw cron document",
	Run: func(cmd *cobra.Command, args []string) {
		store := openCronStore()
		content, err := store.Content()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read cron document: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(content)
	},
}

func init() {
	cronCmd.AddCommand(cronAddCmd)
	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronClearCmd)
	cronCmd.AddCommand(cronShowCmd)
}

// openCronStore loads the cron store for CLI use, exiting on failure.
func openCronStore() *cron.Store {
	cfg := loadConfig()
	ws := workspace.New(cfg.Workspace.Path)
	if err := ws.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "workspace error: %v\n", err)
		os.Exit(1)
	}

	store := cron.NewStore(ws.Path(), logger.Discard())
	if err := store.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "cron store error: %v\n", err)
		os.Exit(1)
	}
	return store
}
