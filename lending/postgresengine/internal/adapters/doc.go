// Package adapters provides database abstraction for the lending store,
// supporting pgx.Pool, sql.DB, and sqlx.DB connections behind a common
// interface with transaction support.
package adapters
