// Package sweeper schedules the daily overdue sweep. It wraps a cron
// scheduler around the sweep command handler; the handler itself stays
// schedule-agnostic and can be run on demand.
package sweeper
