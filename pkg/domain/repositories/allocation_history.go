package repositories

import "github.com/reliefops/donations/pkg/domain/entities"

// AllocationHistory is the last-in-first-out sequence of committed
// allocation records that backs undo
type AllocationHistory interface {
	// Push appends a record to the top of the stack.
	Push(record *entities.AllocationRecord)

	// Pop removes and returns the top record. It returns
	// ErrEmptyHistory when the stack is empty.
	Pop() (*entities.AllocationRecord, error)

	// Peek returns the top record without removing it, or nil.
	Peek() *entities.AllocationRecord

	// Len returns the number of records on the stack.
	Len() int

	// Records returns all records oldest-first, for reporting and
	// persistence.
	Records() []*entities.AllocationRecord
}
