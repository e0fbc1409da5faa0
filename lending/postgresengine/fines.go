package postgresengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/libreshelf/lending-engine/lending"
	"github.com/libreshelf/lending-engine/lending/postgresengine/internal/adapters"
)

const (
	actionInsertFine   = "insert fine"
	actionGetFine      = "get fine"
	actionMarkFinePaid = "mark fine paid"
	actionListFines    = "list fines"

	logAttrFineID = "fine_id"
)

var fineColumns = []any{
	colID, colLoanID, colStudentID, colAmount, colReason,
	colStatus, colIssuedDate, colDueDate, colPaidDate,
}

// InsertFine records a new fine. For loan-linked fines the insert is guarded
// by a partial unique index on active fines per loan; a second active fine for
// the same loan returns ErrDuplicateFine. Manual fines carry a null loan id
// and are never deduplicated.
func (s *LendingStore) InsertFine(ctx context.Context, fine lending.Fine) error {
	created, insertErr := s.insertFine(ctx, s.db, fine)
	if insertErr != nil {
		return insertErr
	}

	if !created {
		return lending.ErrDuplicateFine
	}

	s.logOperation(ctx, actionInsertFine,
		logAttrFineID, fine.ID.String(),
		logAttrStudentID, fine.StudentID.String())

	return nil
}

// insertFine runs the guarded insert on the given executor so the return
// transaction can share it. It reports whether a row was actually created;
// an insert skipped by the duplicate guard is not an error here.
func (s *LendingStore) insertFine(ctx context.Context, exec sqlExecutor, fine lending.Fine) (bool, error) {
	record := goqu.Record{
		colID:         fine.ID,
		colStudentID:  fine.StudentID,
		colAmount:     fine.Amount.String(),
		colReason:     fine.Reason,
		colStatus:     string(fine.Status),
		colIssuedDate: fine.IssuedDate,
	}

	if fine.LoanID.Valid {
		record[colLoanID] = fine.LoanID.UUID
	}
	if fine.DueDate != nil {
		record[colDueDate] = *fine.DueDate
	}

	sqlQuery, _, buildErr := builder().
		Insert(finesTableName).
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return false, buildQueryError(buildErr)
	}

	rowsAffected, execErr := s.execSQL(ctx, exec, sqlQuery, actionInsertFine)
	if execErr != nil {
		return false, execErr
	}

	return rowsAffected > 0, nil
}

// GetFine returns a single fine by id.
func (s *LendingStore) GetFine(ctx context.Context, fineID lending.FineID) (lending.Fine, error) {
	var empty lending.Fine

	sqlQuery, _, buildErr := builder().
		From(finesTableName).
		Select(fineColumns...).
		Where(goqu.C(colID).Eq(fineID)).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, buildQueryError(buildErr)
	}

	rows, queryErr := s.querySQL(ctx, s.db, sqlQuery, actionGetFine)
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

	return s.scanFine(ctx, rows)
}

// MarkFinePaid settles an unpaid fine. Settlement is terminal: paying an
// already paid or waived fine returns ErrAlreadySettled, so two concurrent
// payment confirmations resolve to exactly one success.
func (s *LendingStore) MarkFinePaid(ctx context.Context, fineID lending.FineID, paidAt time.Time) (lending.Fine, error) {
	var empty lending.Fine

	sqlQuery, _, buildErr := builder().
		Update(finesTableName).
		Set(goqu.Record{
			colStatus:   string(lending.FineStatusPaid),
			colPaidDate: paidAt,
		}).
		Where(
			goqu.C(colID).Eq(fineID),
			goqu.C(colStatus).Eq(string(lending.FineStatusUnpaid)),
		).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, buildQueryError(buildErr)
	}

	rowsAffected, execErr := s.execSQL(ctx, s.db, sqlQuery, actionMarkFinePaid)
	if execErr != nil {
		return empty, execErr
	}

	if rowsAffected == 0 {
		if _, getErr := s.GetFine(ctx, fineID); getErr != nil {
			return empty, getErr
		}

		return empty, lending.ErrAlreadySettled
	}

	s.logOperation(ctx, actionMarkFinePaid, logAttrFineID, fineID.String())

	return s.GetFine(ctx, fineID)
}

// ListFines returns every fine matching the filter, newest first.
func (s *LendingStore) ListFines(ctx context.Context, filter lending.FineFilter) ([]lending.Fine, error) {
	conditions := make([]exp.Expression, 0, 3)

	if filter.StudentID.Valid {
		conditions = append(conditions, goqu.C(colStudentID).Eq(filter.StudentID.UUID))
	}

	if filter.Status != "" {
		conditions = append(conditions, goqu.C(colStatus).Eq(string(filter.Status)))
	}

	if filter.CreatedOn != nil {
		dayStart := filter.CreatedOn.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		conditions = append(conditions,
			goqu.C(colIssuedDate).Gte(dayStart),
			goqu.C(colIssuedDate).Lt(dayEnd),
		)
	}

	sqlQuery, _, buildErr := builder().
		From(finesTableName).
		Select(fineColumns...).
		Where(conditions...).
		Order(goqu.C(colIssuedDate).Desc()).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return nil, buildQueryError(buildErr)
	}

	rows, queryErr := s.querySQL(ctx, s.db, sqlQuery, actionListFines)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	fines := make([]lending.Fine, 0)

	for rows.Next() {
		fine, scanErr := s.scanFine(ctx, rows)
		if scanErr != nil {
			return nil, scanErr
		}

		fines = append(fines, fine)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, buildQueryError(rowsErr)
	}

	return fines, nil
}

func (s *LendingStore) scanFine(ctx context.Context, rows adapters.DBRows) (lending.Fine, error) {
	var (
		fine     lending.Fine
		loanID   sql.NullString
		amount   string
		status   string
		dueDate  sql.NullTime
		paidDate sql.NullTime
	)

	scanErr := rows.Scan(
		&fine.ID, &loanID, &fine.StudentID, &amount, &fine.Reason,
		&status, &fine.IssuedDate, &dueDate, &paidDate,
	)
	if scanErr != nil {
		s.logError(ctx, logMsgScanRowFailed, scanErr)
		return lending.Fine{}, buildQueryError(scanErr)
	}

	fine.Status = lending.FineStatus(status)

	parsedAmount, amountErr := decimal.NewFromString(amount)
	if amountErr != nil {
		s.logError(ctx, logMsgScanRowFailed, amountErr)
		return lending.Fine{}, buildQueryError(amountErr)
	}
	fine.Amount = parsedAmount

	if loanID.Valid {
		parsedLoanID, idErr := uuid.Parse(loanID.String)
		if idErr != nil {
			s.logError(ctx, logMsgScanRowFailed, idErr)
			return lending.Fine{}, buildQueryError(idErr)
		}
		fine.LoanID.UUID = parsedLoanID
		fine.LoanID.Valid = true
	}

	if dueDate.Valid {
		fine.DueDate = &dueDate.Time
	}
	if paidDate.Valid {
		fine.PaidDate = &paidDate.Time
	}

	return fine, nil
}
