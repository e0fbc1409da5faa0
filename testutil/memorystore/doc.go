// Package memorystore provides an in-memory lending store for tests.
//
// It mirrors the semantics of the Postgres engine exactly: the same typed
// errors, the same conditional-update guards, the same atomicity for the
// issue and return transitions (a single mutex stands in for the database
// transaction). Feature and HTTP tests run against it without a database.
package memorystore
