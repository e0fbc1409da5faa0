// Package shell holds the imperative-shell plumbing shared by every feature
// slice: handler contracts, retry logic for concurrency conflicts, and the
// observability vocabulary (metric names, log attributes, label builders).
package shell
