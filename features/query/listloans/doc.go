// Package listloans implements the List Loans query: a filtered, paginated
// view over the loan ledger for approver dashboards and audit.
package listloans
