// Package listfines implements the List Fines query: a filtered view over
// the fine ledger for accounting.
package listfines
