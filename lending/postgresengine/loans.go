package postgresengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/lending/postgresengine/internal/adapters"
)

const (
	actionInsertLoan       = "insert requested loan"
	actionGetLoan          = "get loan"
	actionRejectLoan       = "reject loan"
	actionIssueLoan        = "issue loan"
	actionReturnLoan       = "return loan"
	actionListLoans        = "list loans"
	actionListOverdueLoans = "list overdue loans"
	actionCountLoans       = "count loans"
)

var loanColumns = []any{
	colID, colStudentID, colBookID, colStatus,
	colRequestedAt, colIssuedAt, colDueAt, colReturnedAt,
}

// InsertRequestedLoan records a new borrow request. The insert is conditional
// on no open loan existing for the same (student, book) pair; a racing or
// repeated request selects zero rows and returns ErrDuplicateRequest. Any
// other constraint violation (an id collision) surfaces as a storage error.
func (s *LendingStore) InsertRequestedLoan(ctx context.Context, loan lending.Loan) error {
	sqlQuery, buildErr := buildInsertRequestedLoanQuery(loan)
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return buildQueryError(buildErr)
	}

	rowsAffected, execErr := s.execSQL(ctx, s.db, sqlQuery, actionInsertLoan)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return lending.ErrDuplicateRequest
	}

	s.logOperation(ctx, actionInsertLoan,
		logAttrLoanID, loan.ID.String(),
		logAttrStudentID, loan.StudentID.String(),
		logAttrBookID, loan.BookID.String())

	return nil
}

// GetLoan returns a single loan by id.
func (s *LendingStore) GetLoan(ctx context.Context, loanID lending.LoanID) (lending.Loan, error) {
	return s.getLoan(ctx, s.db, loanID, false)
}

// RejectLoan moves a loan from requested to rejected. The rejected row stays
// in the ledger as a terminal record; copy counters are untouched because a
// requested loan never held a copy.
func (s *LendingStore) RejectLoan(ctx context.Context, loanID lending.LoanID) (lending.Loan, error) {
	var empty lending.Loan

	sqlQuery, _, buildErr := builder().
		Update(loansTableName).
		Set(goqu.Record{colStatus: string(lending.LoanStatusRejected)}).
		Where(
			goqu.C(colID).Eq(loanID),
			goqu.C(colStatus).Eq(string(lending.LoanStatusRequested)),
		).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, buildQueryError(buildErr)
	}

	rowsAffected, execErr := s.execSQL(ctx, s.db, sqlQuery, actionRejectLoan)
	if execErr != nil {
		return empty, execErr
	}

	if rowsAffected == 0 {
		if _, getErr := s.GetLoan(ctx, loanID); getErr != nil {
			return empty, getErr
		}

		return empty, lending.ErrInvalidState
	}

	s.logOperation(ctx, actionRejectLoan, logAttrLoanID, loanID.String())

	return s.GetLoan(ctx, loanID)
}

// CommitIssue performs the atomic issue transition: it locks the loan and the
// student rows, re-derives the eligibility snapshot under the lock, reserves a
// copy, and flips the loan to issued with its lending window. Everything
// commits together or not at all.
//
// The student row lock serializes concurrent issues for the same student, so
// the borrow limit holds even under interleaved requests.
func (s *LendingStore) CommitIssue(
	ctx context.Context,
	loanID lending.LoanID,
	issuedAt time.Time,
	dueAt time.Time,
) (lending.Loan, error) {

	var issued lending.Loan

	txErr := s.withinTx(ctx, func(tx adapters.DBTx) error {
		loan, getErr := s.getLoan(ctx, tx, loanID, true)
		if getErr != nil {
			return getErr
		}

		if loan.Status != lending.LoanStatusRequested {
			return lending.ErrInvalidState
		}

		snapshot, snapErr := s.eligibilitySnapshot(ctx, tx, loan.StudentID, true)
		if snapErr != nil {
			return snapErr
		}

		if policyErr := lending.CheckEligibility(snapshot); policyErr != nil {
			return policyErr
		}

		if reserveErr := s.reserveCopy(ctx, tx, loan.BookID); reserveErr != nil {
			return reserveErr
		}

		sqlQuery, _, buildErr := builder().
			Update(loansTableName).
			Set(goqu.Record{
				colStatus:   string(lending.LoanStatusIssued),
				colIssuedAt: issuedAt,
				colDueAt:    dueAt,
			}).
			Where(
				goqu.C(colID).Eq(loanID),
				goqu.C(colStatus).Eq(string(lending.LoanStatusRequested)),
			).
			ToSQL()
		if buildErr != nil {
			s.logError(ctx, logMsgBuildQueryFailed, buildErr)
			return buildQueryError(buildErr)
		}

		rowsAffected, execErr := s.execSQL(ctx, tx, sqlQuery, actionIssueLoan)
		if execErr != nil {
			return execErr
		}

		if rowsAffected == 0 {
			return lending.ErrConcurrencyConflict
		}

		issued = loan
		issued.Status = lending.LoanStatusIssued
		issued.IssuedAt = &issuedAt
		issued.DueAt = &dueAt

		return nil
	})
	if txErr != nil {
		return lending.Loan{}, txErr
	}

	s.logOperation(ctx, actionIssueLoan,
		logAttrLoanID, loanID.String(),
		logAttrStudentID, issued.StudentID.String(),
		logAttrBookID, issued.BookID.String())

	return issued, nil
}

// CommitReturn performs the atomic return transition: it locks the loan row,
// flips it to returned, releases the copy, and records the overdue fine when
// one is due. The boolean result reports whether a fine row was created; a
// fine skipped by the duplicate guard is not an error, the return still
// commits.
func (s *LendingStore) CommitReturn(
	ctx context.Context,
	loanID lending.LoanID,
	returnedAt time.Time,
	fine *lending.Fine,
) (lending.Loan, bool, error) {

	var returned lending.Loan
	fineCreated := false

	txErr := s.withinTx(ctx, func(tx adapters.DBTx) error {
		loan, getErr := s.getLoan(ctx, tx, loanID, true)
		if getErr != nil {
			return getErr
		}

		if loan.Status != lending.LoanStatusIssued || loan.ReturnedAt != nil {
			return lending.ErrInvalidState
		}

		sqlQuery, _, buildErr := builder().
			Update(loansTableName).
			Set(goqu.Record{
				colStatus:     string(lending.LoanStatusReturned),
				colReturnedAt: returnedAt,
			}).
			Where(
				goqu.C(colID).Eq(loanID),
				goqu.C(colStatus).Eq(string(lending.LoanStatusIssued)),
				goqu.C(colReturnedAt).IsNull(),
			).
			ToSQL()
		if buildErr != nil {
			s.logError(ctx, logMsgBuildQueryFailed, buildErr)
			return buildQueryError(buildErr)
		}

		rowsAffected, execErr := s.execSQL(ctx, tx, sqlQuery, actionReturnLoan)
		if execErr != nil {
			return execErr
		}

		if rowsAffected == 0 {
			return lending.ErrConcurrencyConflict
		}

		if releaseErr := s.releaseCopy(ctx, tx, loan.BookID); releaseErr != nil {
			return releaseErr
		}

		if fine != nil {
			created, fineErr := s.insertFine(ctx, tx, *fine)
			if fineErr != nil {
				return fineErr
			}

			fineCreated = created
		}

		returned = loan
		returned.Status = lending.LoanStatusReturned
		returned.ReturnedAt = &returnedAt

		return nil
	})
	if txErr != nil {
		return lending.Loan{}, false, txErr
	}

	s.logOperation(ctx, actionReturnLoan,
		logAttrLoanID, loanID.String(),
		logAttrBookID, returned.BookID.String())

	return returned, fineCreated, nil
}

// ListLoans returns a page of loans matching the filter, newest requests
// first, plus the pagination envelope for the full result set.
func (s *LendingStore) ListLoans(ctx context.Context, filter lending.LoanFilter) (lending.LoanPage, error) {
	var empty lending.LoanPage

	filter = filter.Normalize()
	conditions := loanFilterConditions(filter)

	countQuery, _, countBuildErr := builder().
		From(loansTableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(conditions...).
		ToSQL()
	if countBuildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, countBuildErr)
		return empty, buildQueryError(countBuildErr)
	}

	totalRecords, countErr := s.scanCount(ctx, s.db, countQuery, actionCountLoans)
	if countErr != nil {
		return empty, countErr
	}

	pageQuery, _, pageBuildErr := builder().
		From(loansTableName).
		Select(loanColumns...).
		Where(conditions...).
		Order(goqu.C(colRequestedAt).Desc()).
		Limit(uint(filter.PageSize)).                      //nolint:gosec
		Offset(uint((filter.Page - 1) * filter.PageSize)). //nolint:gosec
		ToSQL()
	if pageBuildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, pageBuildErr)
		return empty, buildQueryError(pageBuildErr)
	}

	loans, queryErr := s.queryLoans(ctx, s.db, pageQuery, actionListLoans)
	if queryErr != nil {
		return empty, queryErr
	}

	return lending.LoanPage{
		Loans:      loans,
		Pagination: lending.BuildPagination(filter.Page, filter.PageSize, totalRecords),
	}, nil
}

// ListOverdueLoans returns every issued loan whose due date lies strictly
// before asOf. The sweep walks this list.
func (s *LendingStore) ListOverdueLoans(ctx context.Context, asOf time.Time) ([]lending.Loan, error) {
	sqlQuery, _, buildErr := builder().
		From(loansTableName).
		Select(loanColumns...).
		Where(
			goqu.C(colStatus).Eq(string(lending.LoanStatusIssued)),
			goqu.C(colDueAt).Lt(asOf),
		).
		Order(goqu.C(colDueAt).Asc()).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return nil, buildQueryError(buildErr)
	}

	return s.queryLoans(ctx, s.db, sqlQuery, actionListOverdueLoans)
}

func buildInsertRequestedLoanQuery(loan lending.Loan) (string, error) {
	openPairStmt := builder().
		From(loansTableName).
		Select(goqu.V(1)).
		Where(
			goqu.C(colStudentID).Eq(loan.StudentID),
			goqu.C(colBookID).Eq(loan.BookID),
			goqu.C(colStatus).In(
				string(lending.LoanStatusRequested),
				string(lending.LoanStatusIssued),
			),
		)

	selectStmt := builder().
		Select(
			goqu.V(loan.ID),
			goqu.V(loan.StudentID),
			goqu.V(loan.BookID),
			goqu.V(string(lending.LoanStatusRequested)),
			goqu.V(loan.RequestedAt),
		).
		Where(goqu.L("NOT EXISTS ?", openPairStmt))

	sqlQuery, _, buildErr := builder().
		Insert(loansTableName).
		Cols(colID, colStudentID, colBookID, colStatus, colRequestedAt).
		FromQuery(selectStmt).
		ToSQL()

	return sqlQuery, buildErr
}

func loanFilterConditions(filter lending.LoanFilter) []exp.Expression {
	conditions := make([]exp.Expression, 0, 3)

	if filter.Status != "" {
		conditions = append(conditions, goqu.C(colStatus).Eq(string(filter.Status)))
	}

	if filter.StudentID.Valid {
		conditions = append(conditions, goqu.C(colStudentID).Eq(filter.StudentID.UUID))
	}

	if filter.BookID.Valid {
		conditions = append(conditions, goqu.C(colBookID).Eq(filter.BookID.UUID))
	}

	return conditions
}

func (s *LendingStore) getLoan(
	ctx context.Context,
	exec sqlExecutor,
	loanID lending.LoanID,
	forUpdate bool,
) (lending.Loan, error) {

	var empty lending.Loan

	selectStmt := builder().
		From(loansTableName).
		Select(loanColumns...).
		Where(goqu.C(colID).Eq(loanID))

	if forUpdate {
		selectStmt = selectStmt.ForUpdate(exp.Wait)
	}

	sqlQuery, _, buildErr := selectStmt.ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, buildQueryError(buildErr)
	}

	rows, queryErr := s.querySQL(ctx, exec, sqlQuery, actionGetLoan)
	if queryErr != nil {
		return empty, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return empty, buildQueryError(rowsErr)
		}

		return empty, lending.ErrNotFound
	}

	loan, scanErr := s.scanLoan(ctx, rows)
	if scanErr != nil {
		return empty, scanErr
	}

	return loan, nil
}

func (s *LendingStore) queryLoans(ctx context.Context, exec sqlExecutor, sqlQuery string, action string) ([]lending.Loan, error) {
	rows, queryErr := s.querySQL(ctx, exec, sqlQuery, action)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	loans := make([]lending.Loan, 0)

	for rows.Next() {
		loan, scanErr := s.scanLoan(ctx, rows)
		if scanErr != nil {
			return nil, scanErr
		}

		loans = append(loans, loan)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, buildQueryError(rowsErr)
	}

	return loans, nil
}

func (s *LendingStore) scanLoan(ctx context.Context, rows adapters.DBRows) (lending.Loan, error) {
	var (
		loan       lending.Loan
		status     string
		issuedAt   sql.NullTime
		dueAt      sql.NullTime
		returnedAt sql.NullTime
	)

	scanErr := rows.Scan(
		&loan.ID, &loan.StudentID, &loan.BookID, &status,
		&loan.RequestedAt, &issuedAt, &dueAt, &returnedAt,
	)
	if scanErr != nil {
		s.logError(ctx, logMsgScanRowFailed, scanErr)
		return lending.Loan{}, buildQueryError(scanErr)
	}

	loan.Status = lending.LoanStatus(status)

	if issuedAt.Valid {
		loan.IssuedAt = &issuedAt.Time
	}
	if dueAt.Valid {
		loan.DueAt = &dueAt.Time
	}
	if returnedAt.Valid {
		loan.ReturnedAt = &returnedAt.Time
	}

	return loan, nil
}
