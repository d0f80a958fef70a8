package config

// CronJob pairs a cron schedule with a job function.
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs maps job names to statically configured jobs. Most jobs register
// themselves through cron.Register from init(); this map exists for wiring
// jobs whose schedule must be fixed at build time.
var CronJobs = map[string]CronJob{}
