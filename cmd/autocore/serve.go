package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/cron"
	"github.com/aatumaykin/autocore/internal/dispatch"
	"github.com/aatumaykin/autocore/internal/heartbeat"
	"github.com/aatumaykin/autocore/internal/logger"
	"github.com/aatumaykin/autocore/internal/metrics"
	"github.com/aatumaykin/autocore/internal/persona"
	"github.com/aatumaykin/autocore/internal/scheduler"
	"github.com/aatumaykin/autocore/internal/status"
	"github.com/aatumaykin/autocore/internal/version"
	"github.com/aatumaykin/autocore/internal/workspace"
)

var serveLogLevel string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the autonomy core tick loop (main command)",
	Long: `Start the autonomy core: initialize the workspace, the clock
resolver, the cron engine, and the event scheduler, then run the
cooperative tick loop until interrupted. Dispatched commands are consumed
by the built-in handler, which executes status reports locally and logs
the commands meant for the agent layer.`,
	Run: serveHandler,
}

func init() {
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "override configured log level")
}

func serveHandler(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log.Info(version.Summary())

	ws := workspace.New(cfg.Workspace.Path)
	if err := ws.EnsureDir(); err != nil {
		log.Error("workspace initialization failed", err)
		os.Exit(1)
	}

	source := clock.NewSystemSource()
	resolver := clock.NewResolver(source, nil, log)

	personaStore := persona.NewStore(ws.Path(), log)
	personaStore.Init()

	cronStore := cron.NewStore(ws.Path(), log)
	if err := cronStore.Init(); err != nil {
		log.Error("cron store initialization failed", err)
		os.Exit(1)
	}
	sweeper := cron.NewSweeper(ws.Path(), cronStore, log)
	sweeper.Init()

	heartbeatLoader := heartbeat.NewLoader(ws.Path(), log)
	reporter := status.NewReporter(resolver, cronStore, log)

	m := metrics.New(cfg.Metrics.Namespace)
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			log.Info("metrics listener started",
				logger.Field{Key: "addr", Value: cfg.Metrics.ListenAddr})
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
				log.Error("metrics listener failed", err)
			}
		}()
	}

	queue := dispatch.NewQueue(cfg.Scheduler.DispatchQueueSize, log)

	sched := scheduler.New(scheduler.Config{
		StatusEnabled:     cfg.Scheduler.StatusEnabled,
		StatusInterval:    time.Duration(cfg.Scheduler.StatusIntervalSeconds) * time.Second,
		HeartbeatEnabled:  cfg.Scheduler.HeartbeatEnabled,
		HeartbeatInterval: time.Duration(cfg.Scheduler.HeartbeatIntervalSeconds) * time.Second,
		ReminderGrace:     cfg.Scheduler.ReminderGraceMinutes,
		DefaultTimezone:   cfg.Scheduler.Timezone,
	}, source, resolver, func(command string) {
		// Dispatch is fire-and-forget; a full queue only drops this
		// occurrence and the timer reschedules as usual.
		_ = queue.Publish(command)
	}, log, m)

	sched.SetHeartbeatSource(heartbeatLoader)
	sched.SetReminderSource(personaStore)
	sched.SetTimezoneSource(personaStore)
	sched.SetJobSource(cronStore)
	sched.SetSweeper(sweeper, func(missed []cron.MissedJob) {
		for _, mj := range missed {
			log.Warn("missed cron job (not re-dispatched)",
				logger.Field{Key: "command", Value: mj.Command},
				logger.Field{Key: "at", Value: fmt.Sprintf("%04d-%02d-%02d %02d:%02d",
					mj.At.Year, mj.At.Month, mj.At.Day, mj.At.Hour, mj.At.Minute)})
		}
	})
	sched.Init()

	go consumeDispatches(queue, reporter, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.Scheduler.TickIntervalMillis) * time.Millisecond)
	defer ticker.Stop()

	log.Info("autonomy core started",
		logger.Field{Key: "workspace", Value: ws.Path()},
		logger.Field{Key: "tick_ms", Value: cfg.Scheduler.TickIntervalMillis})

	for {
		select {
		case <-stop:
			log.Info("shutting down")
			queue.Close()
			return
		case <-ticker.C:
			sched.Tick()
		}
	}
}

// consumeDispatches routes scheduler commands. Status reports execute
// locally; everything else is for the agent layer, which in this build
// is surfaced through the log.
func consumeDispatches(queue *dispatch.Queue, reporter *status.Reporter, log *logger.Logger) {
	for d := range queue.C() {
		switch d.Command {
		case scheduler.CommandStatus:
			log.Info("status report",
				logger.Field{Key: "dispatch_id", Value: d.ID},
				logger.Field{Key: "report", Value: reporter.Report()})
		default:
			log.Info("command dispatched to agent layer",
				logger.Field{Key: "dispatch_id", Value: d.ID},
				logger.Field{Key: "command", Value: d.Command})
		}
	}
}
