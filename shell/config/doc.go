// Package config provides configuration helpers for the lending engine:
// PostgreSQL connection factories for the supported drivers (pgx.Pool,
// sql.DB, sqlx.DB), the HTTP listen address, and the overdue sweep schedule.
//
// All settings come from environment variables with sensible defaults, so a
// bare `lendingd` starts against a local database.
package config
