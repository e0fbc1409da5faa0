package postgresengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/libreshelf/lending-engine/lending"
)

const (
	actionGetStudent  = "get student"
	actionSaveStudent = "save student"
	actionSnapshot    = "eligibility snapshot"
)

// GetStudent returns the account slice of a student record.
func (s *LendingStore) GetStudent(ctx context.Context, studentID lending.StudentID) (lending.Student, error) {
	return s.getStudent(ctx, s.db, studentID, false)
}

// SaveStudent inserts or updates a student record. This is the write surface
// for the identity collaborator; loan logic never calls it.
func (s *LendingStore) SaveStudent(ctx context.Context, student lending.Student) error {
	sqlQuery, _, buildErr := builder().
		Insert(studentsTableName).
		Rows(goqu.Record{
			colID:            student.ID,
			colAccountStatus: string(student.AccountStatus),
			colMaxBooks:      student.MaxBooks,
		}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{
			colAccountStatus: string(student.AccountStatus),
			colMaxBooks:      student.MaxBooks,
		})).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return buildQueryError(buildErr)
	}

	if _, execErr := s.execSQL(ctx, s.db, sqlQuery, actionSaveStudent); execErr != nil {
		return execErr
	}

	return nil
}

// EligibilitySnapshot derives the student's current standing for the
// eligibility policy. The snapshot is computed fresh on every call and is
// advisory outside a transaction; the issue transition re-derives it under
// a student row lock.
func (s *LendingStore) EligibilitySnapshot(ctx context.Context, studentID lending.StudentID) (lending.EligibilitySnapshot, error) {
	return s.eligibilitySnapshot(ctx, s.db, studentID, false)
}

func (s *LendingStore) eligibilitySnapshot(
	ctx context.Context,
	exec sqlExecutor,
	studentID lending.StudentID,
	lockStudentRow bool,
) (lending.EligibilitySnapshot, error) {

	var empty lending.EligibilitySnapshot

	student, studentErr := s.getStudent(ctx, exec, studentID, lockStudentRow)
	if studentErr != nil {
		return empty, studentErr
	}

	issuedCount, countErr := s.countIssuedLoans(ctx, exec, studentID)
	if countErr != nil {
		return empty, countErr
	}

	hasUnpaidFine, fineErr := s.hasUnpaidFine(ctx, exec, studentID)
	if fineErr != nil {
		return empty, fineErr
	}

	return lending.EligibilitySnapshot{
		AccountStatus:   student.AccountStatus,
		IssuedLoanCount: issuedCount,
		HasUnpaidFine:   hasUnpaidFine,
		MaxBooks:        student.EffectiveMaxBooks(),
	}, nil
}

func (s *LendingStore) getStudent(
	ctx context.Context,
	exec sqlExecutor,
	studentID lending.StudentID,
	forUpdate bool,
) (lending.Student, error) {

	var empty lending.Student

	selectStmt := builder().
		From(studentsTableName).
		Select(colID, colAccountStatus, colMaxBooks).
		Where(goqu.C(colID).Eq(studentID))

	if forUpdate {
		selectStmt = selectStmt.ForUpdate(exp.Wait)
	}

	sqlQuery, _, buildErr := selectStmt.ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, buildQueryError(buildErr)
	}

	rows, queryErr := s.querySQL(ctx, exec, sqlQuery, actionGetStudent)
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

	student := lending.Student{}
	var accountStatus string

	if scanErr := rows.Scan(&student.ID, &accountStatus, &student.MaxBooks); scanErr != nil {
		s.logError(ctx, logMsgScanRowFailed, scanErr)
		return empty, buildQueryError(scanErr)
	}

	student.AccountStatus = lending.AccountStatus(accountStatus)

	return student, nil
}

func (s *LendingStore) countIssuedLoans(ctx context.Context, exec sqlExecutor, studentID lending.StudentID) (int, error) {
	sqlQuery, _, buildErr := builder().
		From(loansTableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colStudentID).Eq(studentID),
			goqu.C(colStatus).Eq(string(lending.LoanStatusIssued)),
		).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return 0, buildQueryError(buildErr)
	}

	return s.scanCount(ctx, exec, sqlQuery, actionSnapshot)
}

func (s *LendingStore) hasUnpaidFine(ctx context.Context, exec sqlExecutor, studentID lending.StudentID) (bool, error) {
	sqlQuery, _, buildErr := builder().
		From(finesTableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colStudentID).Eq(studentID),
			goqu.C(colStatus).Eq(string(lending.FineStatusUnpaid)),
		).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return false, buildQueryError(buildErr)
	}

	count, countErr := s.scanCount(ctx, exec, sqlQuery, actionSnapshot)
	if countErr != nil {
		return false, countErr
	}

	return count > 0, nil
}

// scanCount executes a single-value count query and scans the result.
func (s *LendingStore) scanCount(ctx context.Context, exec sqlExecutor, sqlQuery string, action string) (int, error) {
	rows, queryErr := s.querySQL(ctx, exec, sqlQuery, action)
	if queryErr != nil {
		return 0, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return 0, buildQueryError(rowsErr)
		}

		return 0, nil
	}

	var count int
	if scanErr := rows.Scan(&count); scanErr != nil {
		s.logError(ctx, logMsgScanRowFailed, scanErr)
		return 0, buildQueryError(scanErr)
	}

	return count, nil
}
