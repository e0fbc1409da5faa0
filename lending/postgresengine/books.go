package postgresengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/libreshelf/lending-engine/lending"
)

const (
	actionGetBook     = "get book"
	actionSaveBook    = "save book"
	actionReserveCopy = "reserve copy"
	actionReleaseCopy = "release copy"
)

// GetBook returns the copy counters for a book.
func (s *LendingStore) GetBook(ctx context.Context, bookID lending.BookID) (lending.Book, error) {
	var empty lending.Book

	sqlQuery, buildErr := buildGetBookQuery(bookID)
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return empty, buildQueryError(buildErr)
	}

	rows, queryErr := s.querySQL(ctx, s.db, sqlQuery, actionGetBook)
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

	book := lending.Book{}
	if scanErr := rows.Scan(&book.ID, &book.TotalCopies, &book.AvailableCopies); scanErr != nil {
		s.logError(ctx, logMsgScanRowFailed, scanErr)
		return empty, buildQueryError(scanErr)
	}

	return book, nil
}

// SaveBook inserts or updates a book's copy counters. This is the write
// surface for the catalogue collaborator; loan logic never calls it.
func (s *LendingStore) SaveBook(ctx context.Context, book lending.Book) error {
	sqlQuery, _, buildErr := builder().
		Insert(booksTableName).
		Rows(goqu.Record{
			colID:              book.ID,
			colTotalCopies:     book.TotalCopies,
			colAvailableCopies: book.AvailableCopies,
		}).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{
			colTotalCopies:     book.TotalCopies,
			colAvailableCopies: book.AvailableCopies,
		})).
		ToSQL()
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return buildQueryError(buildErr)
	}

	if _, execErr := s.execSQL(ctx, s.db, sqlQuery, actionSaveBook); execErr != nil {
		return execErr
	}

	return nil
}

// ReserveCopy atomically decrements a book's available copies.
// Two concurrent reservations for the last copy resolve to exactly one
// success; the loser gets ErrBookUnavailable.
func (s *LendingStore) ReserveCopy(ctx context.Context, bookID lending.BookID) error {
	return s.reserveCopy(ctx, s.db, bookID)
}

// ReleaseCopy atomically increments a book's available copies. A release
// that would push the counter past total copies fails loudly with
// ErrCopyCountCorrupted instead of clamping: it signals a bug elsewhere.
func (s *LendingStore) ReleaseCopy(ctx context.Context, bookID lending.BookID) error {
	return s.releaseCopy(ctx, s.db, bookID)
}

// reserveCopy runs the conditional decrement on the given executor so the
// issue transaction can share it.
func (s *LendingStore) reserveCopy(ctx context.Context, exec sqlExecutor, bookID lending.BookID) error {
	sqlQuery, buildErr := buildReserveCopyQuery(bookID)
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return buildQueryError(buildErr)
	}

	rowsAffected, execErr := s.execSQL(ctx, exec, sqlQuery, actionReserveCopy)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		if _, getErr := s.GetBook(ctx, bookID); getErr != nil {
			return getErr
		}

		return lending.ErrBookUnavailable
	}

	s.logOperation(ctx, actionReserveCopy, logAttrBookID, bookID.String())

	return nil
}

// releaseCopy runs the conditional increment on the given executor so the
// return transaction can share it.
func (s *LendingStore) releaseCopy(ctx context.Context, exec sqlExecutor, bookID lending.BookID) error {
	sqlQuery, buildErr := buildReleaseCopyQuery(bookID)
	if buildErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, buildErr)
		return buildQueryError(buildErr)
	}

	rowsAffected, execErr := s.execSQL(ctx, exec, sqlQuery, actionReleaseCopy)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		if _, getErr := s.GetBook(ctx, bookID); getErr != nil {
			return getErr
		}

		return lending.ErrCopyCountCorrupted
	}

	s.logOperation(ctx, actionReleaseCopy, logAttrBookID, bookID.String())

	return nil
}

func buildGetBookQuery(bookID lending.BookID) (string, error) {
	sqlQuery, _, err := builder().
		From(booksTableName).
		Select(colID, colTotalCopies, colAvailableCopies).
		Where(goqu.C(colID).Eq(bookID)).
		ToSQL()

	return sqlQuery, err
}

func buildReserveCopyQuery(bookID lending.BookID) (string, error) {
	sqlQuery, _, err := builder().
		Update(booksTableName).
		Set(goqu.Record{colAvailableCopies: goqu.L(colAvailableCopies + " - 1")}).
		Where(
			goqu.C(colID).Eq(bookID),
			goqu.C(colAvailableCopies).Gt(0),
		).
		ToSQL()

	return sqlQuery, err
}

func buildReleaseCopyQuery(bookID lending.BookID) (string, error) {
	sqlQuery, _, err := builder().
		Update(booksTableName).
		Set(goqu.Record{colAvailableCopies: goqu.L(colAvailableCopies + " + 1")}).
		Where(
			goqu.C(colID).Eq(bookID),
			goqu.C(colAvailableCopies).Lt(goqu.C(colTotalCopies)),
		).
		ToSQL()

	return sqlQuery, err
}
