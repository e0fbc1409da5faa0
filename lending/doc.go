// Package lending contains the core domain model of the lending and fine
// lifecycle engine: loans, fines, book copy counters, the eligibility policy,
// the fine accrual formula, and the error taxonomy shared by every component.
//
// Everything in this package is pure: no I/O, no clocks, no storage. The
// imperative pieces live in the feature packages and in postgresengine.
package lending
