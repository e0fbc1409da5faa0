package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/lending/postgresengine/internal/adapters"
)

const (
	booksTableName    = "books"
	studentsTableName = "students"
	loansTableName    = "loans"
	finesTableName    = "fines"

	colID              = "id"
	colTotalCopies     = "total_copies"
	colAvailableCopies = "available_copies"
	colAccountStatus   = "account_status"
	colMaxBooks        = "max_books"
	colStudentID       = "student_id"
	colBookID          = "book_id"
	colStatus          = "status"
	colRequestedAt     = "requested_at"
	colIssuedAt        = "issued_at"
	colDueAt           = "due_at"
	colReturnedAt      = "returned_at"
	colLoanID          = "loan_id"
	colAmount          = "amount"
	colReason          = "reason"
	colIssuedDate      = "issued_date"
	colDueDate         = "due_date"
	colPaidDate        = "paid_date"

	dialectPostgres = "postgres"

	logMsgBuildQueryFailed = "failed to build query"
	logMsgQueryFailed      = "database query execution failed"
	logMsgExecFailed       = "database execution failed"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgRowsAffected     = "failed to get rows affected count"
	logMsgTxBeginFailed    = "failed to begin transaction"
	logMsgTxCommitFailed   = "failed to commit transaction"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "lending store operation: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrDurationMS      = "duration_ms"
	logAttrLoanID          = "loan_id"
	logAttrBookID          = "book_id"
	logAttrStudentID       = "student_id"
	logAttrRowsAffected    = "rows_affected"
)

// LendingStore is the Postgres-backed storage for books, students, loans and
// fines. It owns every atomic guarantee of the lending engine; see the
// package documentation for the schema and locking strategy.
type LendingStore struct {
	db               adapters.DBAdapter
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
}

// ErrNilDatabaseConnection is returned by the constructors when no database
// connection is supplied.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// NewLendingStoreFromPGXPool creates a new LendingStore using a pgx pool with
// optional configuration.
func NewLendingStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*LendingStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newLendingStore(adapters.NewPGXAdapter(db), options...)
}

// NewLendingStoreFromSQLDB creates a new LendingStore using a sql.DB with
// optional configuration.
func NewLendingStoreFromSQLDB(db *sql.DB, options ...Option) (*LendingStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newLendingStore(adapters.NewSQLAdapter(db), options...)
}

// NewLendingStoreFromSQLX creates a new LendingStore using a sqlx.DB with
// optional configuration.
func NewLendingStoreFromSQLX(db *sqlx.DB, options ...Option) (*LendingStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newLendingStore(adapters.NewSQLXAdapter(db), options...)
}

func newLendingStore(db adapters.DBAdapter, options ...Option) (*LendingStore, error) {
	store := &LendingStore{db: db}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// execSQL runs a statement through an executor (pool or transaction), logs it
// with timing, and returns the rows affected.
func (s *LendingStore) execSQL(ctx context.Context, exec sqlExecutor, sqlQuery string, action string) (int64, error) {
	start := time.Now()
	result, execErr := exec.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, action, duration)

	if execErr != nil {
		s.logError(ctx, logMsgExecFailed, execErr, logAttrQuery, sqlQuery)
		s.recordErrorMetric(action)

		return 0, errors.Join(lending.ErrStorageUnavailable, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		s.logError(ctx, logMsgRowsAffected, rowsErr)

		return 0, errors.Join(lending.ErrStorageUnavailable, rowsErr)
	}

	return rowsAffected, nil
}

// querySQL runs a select through an executor and logs it with timing.
func (s *LendingStore) querySQL(ctx context.Context, exec sqlExecutor, sqlQuery string, action string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := exec.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		s.logError(ctx, logMsgQueryFailed, queryErr, logAttrQuery, sqlQuery)
		s.recordErrorMetric(action)

		return nil, errors.Join(lending.ErrStorageUnavailable, queryErr)
	}

	return rows, nil
}

// sqlExecutor is the subset of operations shared by the pool adapter and an
// open transaction.
type sqlExecutor interface {
	Query(ctx context.Context, query string) (adapters.DBRows, error)
	Exec(ctx context.Context, query string) (adapters.DBResult, error)
}

func (s *LendingStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// withinTx runs fn inside a transaction, rolling back on error.
func (s *LendingStore) withinTx(ctx context.Context, fn func(tx adapters.DBTx) error) error {
	tx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		s.logError(ctx, logMsgTxBeginFailed, beginErr)

		return errors.Join(lending.ErrStorageUnavailable, beginErr)
	}

	if fnErr := fn(tx); fnErr != nil {
		_ = tx.Rollback(ctx)

		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		_ = tx.Rollback(ctx)
		s.logError(ctx, logMsgTxCommitFailed, commitErr)

		return errors.Join(lending.ErrStorageUnavailable, commitErr)
	}

	return nil
}

func buildQueryError(err error) error {
	return errors.Join(lending.ErrStorageUnavailable, err)
}
