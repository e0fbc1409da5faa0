package submitborrowrequest

import (
	"time"

	"github.com/google/uuid"
)

const commandType = "SubmitBorrowRequest"

// Command represents the intent to submit a borrow request for a book.
type Command struct {
	StudentID   uuid.UUID
	BookID      uuid.UUID
	RequestedAt time.Time
}

// CommandType returns the type identifier for this command, used for
// observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(studentID uuid.UUID, bookID uuid.UUID, requestedAt time.Time) Command {
	return Command{
		StudentID:   studentID,
		BookID:      bookID,
		RequestedAt: requestedAt,
	}
}
