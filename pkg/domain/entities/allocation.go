package entities

import "time"

// Transfer records one inventory movement from a donation to a request
type Transfer struct {
	DonationID string
	Quantity   Quantity
}

// AllocationRecord is the undo unit for a single committed allocation
// step. It captures the donation-level transfers and the queue position
// the request occupied before the step, so the step can be reversed
// exactly. Records are immutable once pushed onto the history.
type AllocationRecord struct {
	ID            string
	RequestID     string
	Category      Category
	Transfers     []Transfer
	Quantity      Quantity
	Priority      Priority
	QueuePosition int
	Removed       bool
	CommittedAt   time.Time
}
