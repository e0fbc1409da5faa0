package lending

import "github.com/google/uuid"

// Book is the slice of the catalogue collaborator's data the engine reads and
// writes: the copy counters. Metadata stays with the catalogue.
//
// Invariant: 0 <= AvailableCopies <= TotalCopies, at all times. The counters
// are mutated only through the inventory reserve/release operations.
type Book struct {
	ID              uuid.UUID
	TotalCopies     int
	AvailableCopies int
}

// HasAvailableCopy reports whether a reservation could currently succeed.
// Advisory only - the authoritative check is the atomic reserve itself.
func (b Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}
