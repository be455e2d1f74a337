package entities

import (
	"fmt"
	"time"
)

// Priority represents the urgency tier of a request
type Priority int

const (
	High Priority = iota
	Medium
	Low
)

// String method for Priority enum
func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

// ParsePriority converts a priority name to its Priority value
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	default:
		return 0, fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, s)
	}
}

// Priorities lists all tiers in service order, highest first
var Priorities = []Priority{High, Medium, Low}

// Request represents a need for donated items in one category. Fulfilled
// grows toward Needed as inventory is allocated; once they are equal the
// request leaves the queue and becomes immutable history.
type Request struct {
	ID          string
	Requester   string
	Category    Category
	Needed      Quantity
	Fulfilled   Quantity
	Priority    Priority
	RequestedAt time.Time
}

// NewRequest creates a validated Request
func NewRequest(id, requester string, category Category, needed Quantity, priority Priority, requestedAt time.Time) (*Request, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: request id cannot be empty", ErrInvalidRequest)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", ErrInvalidRequest)
	}
	if needed <= 0 {
		return nil, fmt.Errorf("%w: needed quantity must be positive, got %d", ErrInvalidRequest, needed)
	}

	return &Request{
		ID:          id,
		Requester:   requester,
		Category:    category,
		Needed:      needed,
		Priority:    priority,
		RequestedAt: requestedAt,
	}, nil
}

// Outstanding returns the quantity still required to fulfill the request
func (r *Request) Outstanding() Quantity {
	return r.Needed - r.Fulfilled
}

// IsFulfilled reports whether the request is fully satisfied
func (r *Request) IsFulfilled() bool {
	return r.Fulfilled >= r.Needed
}
