package adapters

import (
	"context"
	"database/sql"
)

// stdRows wraps standard library sql.Rows to implement the DBRows interface.
// Shared by the sql.DB and sqlx.DB adapters.
type stdRows struct {
	rows *sql.Rows
}

// Next advances to the next row.
func (s *stdRows) Next() bool {
	return s.rows.Next()
}

// Scan copies row values into provided destinations.
func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

// Close closes the rows iterator.
func (s *stdRows) Close() error {
	return s.rows.Close()
}

// Err returns any error encountered during iteration.
func (s *stdRows) Err() error {
	return s.rows.Err()
}

// stdResult wraps standard library sql.Result to implement the DBResult interface.
type stdResult struct {
	result sql.Result
}

// RowsAffected returns the number of rows affected by the command.
func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// stdTx wraps *sql.Tx to implement the DBTx interface.
// sql.Tx commits and rolls back without a context; the interface keeps the
// context parameter so the pgx adapter can pass it through.
type stdTx struct {
	tx *sql.Tx
}

func (t *stdTx) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func (t *stdTx) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := t.tx.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

func (t *stdTx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t *stdTx) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}
