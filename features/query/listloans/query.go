package listloans

import (
	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

const queryType = "ListLoans"

// Query represents a request for a page of loans, optionally narrowed by
// status, student, or book.
type Query struct {
	Status    lending.LoanStatus
	StudentID uuid.NullUUID
	BookID    uuid.NullUUID
	Page      int
	PageSize  int
}

// QueryType returns the type identifier for this query, used for
// observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(status lending.LoanStatus, studentID uuid.NullUUID, bookID uuid.NullUUID, page int, pageSize int) Query {
	return Query{
		Status:    status,
		StudentID: studentID,
		BookID:    bookID,
		Page:      page,
		PageSize:  pageSize,
	}
}

func (q Query) filter() lending.LoanFilter {
	return lending.LoanFilter{
		Status:    q.Status,
		StudentID: q.StudentID,
		BookID:    q.BookID,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}
}
