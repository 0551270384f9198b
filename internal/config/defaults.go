package config

// Default timer periods, chosen to match the device firmware cadence.
const (
	DefaultTickIntervalMillis       = 250
	DefaultStatusIntervalSeconds    = 1800
	DefaultHeartbeatIntervalSeconds = 900
	DefaultReminderGraceMinutes     = 10
	DefaultRetryWindowSeconds       = 300
	DefaultDispatchQueueSize        = 16
	DefaultMetricsNamespace         = "autocore"
)

// applyDefaults fills unset fields after decoding.
func applyDefaults(c *Config) {
	if c.Workspace.Path == "" {
		c.Workspace.Path = "~/.autocore"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Scheduler.TickIntervalMillis <= 0 {
		c.Scheduler.TickIntervalMillis = DefaultTickIntervalMillis
	}
	if c.Scheduler.StatusIntervalSeconds <= 0 {
		c.Scheduler.StatusIntervalSeconds = DefaultStatusIntervalSeconds
	}
	if c.Scheduler.HeartbeatIntervalSeconds <= 0 {
		c.Scheduler.HeartbeatIntervalSeconds = DefaultHeartbeatIntervalSeconds
	}
	if c.Scheduler.ReminderGraceMinutes <= 0 {
		c.Scheduler.ReminderGraceMinutes = DefaultReminderGraceMinutes
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "UTC"
	}
	if c.Scheduler.DispatchQueueSize <= 0 {
		c.Scheduler.DispatchQueueSize = DefaultDispatchQueueSize
	}

	if c.Providers.RetryWindowSeconds <= 0 {
		c.Providers.RetryWindowSeconds = DefaultRetryWindowSeconds
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = "127.0.0.1:9090"
	}
}
