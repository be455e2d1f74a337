package repositories

import "github.com/reliefops/donations/pkg/domain/entities"

// RequestQueue holds pending requests in three FIFO lanes, one per
// priority tier. Within a tier, requests are served strictly in arrival
// order; across tiers, high is always served before medium before low.
type RequestQueue interface {
	// Enqueue appends the request to the tail of its priority lane.
	Enqueue(request *entities.Request)

	// Next returns the request at the head of the highest non-empty
	// lane without removing it, or nil when all lanes are empty.
	Next() *entities.Request

	// NextAfter returns the first request in service order whose id is
	// not in skip, or nil when none remains. Used by drain passes to
	// step past requests whose category has no matching inventory.
	NextAfter(skip map[string]bool) *entities.Request

	// Remove removes the request from whichever lane holds it. It is a
	// no-op when the id is not queued.
	Remove(id string)

	// ReinsertFront puts a request back at the head of its priority
	// lane, preserving the relative order of the requests behind it.
	// Used only by undo.
	ReinsertFront(request *entities.Request)

	// ReinsertAt puts a request back into its priority lane at the
	// given zero-based position, clamped to the lane length. Undo uses
	// this to restore a request removed mid-lane during a drain pass.
	ReinsertAt(request *entities.Request, position int)

	// Position reports the lane and zero-based position currently held
	// by the request id.
	Position(id string) (entities.Priority, int, bool)

	// Pending returns all queued requests in service order.
	Pending() []*entities.Request

	// Get returns the queued request with the given id, or nil.
	Get(id string) *entities.Request
}
