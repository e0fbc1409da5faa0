package listfines

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/lending-engine/lending"
)

const queryType = "ListFines"

// Query represents a request for fines, optionally narrowed by student,
// settlement status, or the calendar day they were issued on.
type Query struct {
	StudentID uuid.NullUUID
	Status    lending.FineStatus
	CreatedOn *time.Time
}

// QueryType returns the type identifier for this query, used for
// observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(studentID uuid.NullUUID, status lending.FineStatus, createdOn *time.Time) Query {
	return Query{
		StudentID: studentID,
		Status:    status,
		CreatedOn: createdOn,
	}
}

func (q Query) filter() lending.FineFilter {
	return lending.FineFilter{
		StudentID: q.StudentID,
		Status:    q.Status,
		CreatedOn: q.CreatedOn,
	}
}
