package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath     string
	FeedConfig string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	LogFile   string
	Version   string
}

// SchedulerIntervalDuration is zero when scheduled runs are disabled.
func (c *Cfg) SchedulerIntervalDuration() time.Duration {
	if c.SchedulerInterval <= 0 {
		return 0
	}
	return time.Duration(c.SchedulerInterval) * time.Second
}
