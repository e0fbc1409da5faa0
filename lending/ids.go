package lending

import "github.com/google/uuid"

// ID aliases keep signatures readable without introducing wrapper types.
type (
	BookID    = uuid.UUID
	StudentID = uuid.UUID
	LoanID    = uuid.UUID
	FineID    = uuid.UUID
)
