package config

import "os"

const (
	envListenAddr    = "LENDING_LISTEN_ADDR"
	envSweepSchedule = "LENDING_SWEEP_SCHEDULE"

	defaultListenAddr = ":8080"

	// defaultSweepSchedule runs the overdue sweep daily at midnight.
	defaultSweepSchedule = "0 0 * * *"
)

// ListenAddr returns the HTTP listen address from LENDING_LISTEN_ADDR,
// falling back to ":8080".
func ListenAddr() string {
	if addr := os.Getenv(envListenAddr); addr != "" {
		return addr
	}

	return defaultListenAddr
}

// SweepSchedule returns the cron expression for the overdue sweep from
// LENDING_SWEEP_SCHEDULE, falling back to daily at midnight.
func SweepSchedule() string {
	if schedule := os.Getenv(envSweepSchedule); schedule != "" {
		return schedule
	}

	return defaultSweepSchedule
}
