package memory

import (
	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/domain/repositories"
)

// RequestQueue provides in-memory request storage as three FIFO lanes
// selected in fixed priority order. Three independent sequences keep
// arrival-order tie-breaking deterministic, which a generic heap would
// not guarantee without a secondary sort key.
type RequestQueue struct {
	lanes map[entities.Priority][]*entities.Request
	byID  map[string]*entities.Request
}

// NewRequestQueue creates a new in-memory request queue
func NewRequestQueue() *RequestQueue {
	return &RequestQueue{
		lanes: make(map[entities.Priority][]*entities.Request),
		byID:  make(map[string]*entities.Request),
	}
}

// Verify interface compliance
var _ repositories.RequestQueue = (*RequestQueue)(nil)

// Enqueue appends the request to the tail of its priority lane
func (q *RequestQueue) Enqueue(request *entities.Request) {
	q.lanes[request.Priority] = append(q.lanes[request.Priority], request)
	q.byID[request.ID] = request
}

// Next returns the head of the highest non-empty lane without removing
// it, or nil when all lanes are empty
func (q *RequestQueue) Next() *entities.Request {
	for _, priority := range entities.Priorities {
		if lane := q.lanes[priority]; len(lane) > 0 {
			return lane[0]
		}
	}
	return nil
}

// NextAfter returns the first request in service order whose id is not
// in skip, or nil when none remains
func (q *RequestQueue) NextAfter(skip map[string]bool) *entities.Request {
	for _, priority := range entities.Priorities {
		for _, request := range q.lanes[priority] {
			if !skip[request.ID] {
				return request
			}
		}
	}
	return nil
}

// Remove removes the request from whichever lane holds it. No-op when
// the id is not queued.
func (q *RequestQueue) Remove(id string) {
	request, ok := q.byID[id]
	if !ok {
		return
	}
	lane := q.lanes[request.Priority]
	for i, queued := range lane {
		if queued.ID == id {
			q.lanes[request.Priority] = append(lane[:i], lane[i+1:]...)
			break
		}
	}
	delete(q.byID, id)
}

// ReinsertFront puts a request back at the head of its priority lane,
// preserving the relative order of the requests behind it
func (q *RequestQueue) ReinsertFront(request *entities.Request) {
	q.ReinsertAt(request, 0)
}

// ReinsertAt puts a request back into its priority lane at the given
// zero-based position, clamped to the lane length
func (q *RequestQueue) ReinsertAt(request *entities.Request, position int) {
	lane := q.lanes[request.Priority]
	if position < 0 {
		position = 0
	}
	if position > len(lane) {
		position = len(lane)
	}
	lane = append(lane, nil)
	copy(lane[position+1:], lane[position:])
	lane[position] = request
	q.lanes[request.Priority] = lane
	q.byID[request.ID] = request
}

// Position reports the lane and zero-based position held by the id
func (q *RequestQueue) Position(id string) (entities.Priority, int, bool) {
	request, ok := q.byID[id]
	if !ok {
		return 0, 0, false
	}
	for i, queued := range q.lanes[request.Priority] {
		if queued.ID == id {
			return request.Priority, i, true
		}
	}
	return 0, 0, false
}

// Pending returns all queued requests in service order
func (q *RequestQueue) Pending() []*entities.Request {
	var pending []*entities.Request
	for _, priority := range entities.Priorities {
		pending = append(pending, q.lanes[priority]...)
	}
	return pending
}

// Get returns the queued request with the given id, or nil
func (q *RequestQueue) Get(id string) *entities.Request {
	return q.byID[id]
}
