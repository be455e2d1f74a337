package allocation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/domain/repositories"
)

// StepOutcome reports the result of a single allocation step. No match
// and queue empty are expected terminal states, not errors.
type StepOutcome int

const (
	StepCommitted StepOutcome = iota
	StepNoMatch
	StepQueueEmpty
)

// String method for StepOutcome enum
func (o StepOutcome) String() string {
	switch o {
	case StepCommitted:
		return "committed"
	case StepNoMatch:
		return "no match"
	case StepQueueEmpty:
		return "queue empty"
	default:
		return "unknown"
	}
}

// StepResult describes one allocation step
type StepResult struct {
	Outcome StepOutcome
	Record  *entities.AllocationRecord
}

// DrainResult describes a full drain pass over the queue
type DrainResult struct {
	Committed []*entities.AllocationRecord
	Stuck     int
}

// Config holds configuration for the allocation service
type Config struct {
	// Logger receives one line per committed or undone allocation.
	// Nil disables operation logging.
	Logger *log.Logger
	// NewID generates allocation record ids.
	NewID func() string
}

// Service reconciles the pending request queue against categorized
// inventory. It selects the next eligible request in priority order,
// transfers matching inventory oldest-first, and records every commit
// on the history stack so it can be reversed exactly.
//
// All state lives in the repositories handed to the constructor; the
// service itself is driven by a single logical actor at a time.
type Service struct {
	inventory repositories.InventoryRepository
	queue     repositories.RequestQueue
	history   repositories.AllocationHistory

	fulfilled      map[string]*entities.Request
	fulfilledOrder []string

	logger *log.Logger
	newID  func() string
}

// NewService creates an allocation service with default configuration
func NewService(
	inventory repositories.InventoryRepository,
	queue repositories.RequestQueue,
	history repositories.AllocationHistory,
) *Service {
	return NewServiceWithConfig(inventory, queue, history, Config{})
}

// NewServiceWithConfig creates an allocation service with custom
// configuration
func NewServiceWithConfig(
	inventory repositories.InventoryRepository,
	queue repositories.RequestQueue,
	history repositories.AllocationHistory,
	config Config,
) *Service {
	newID := config.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		inventory: inventory,
		queue:     queue,
		history:   history,
		fulfilled: make(map[string]*entities.Request),
		logger:    config.Logger,
		newID:     newID,
	}
}

// Step performs one allocation cycle against the head of the queue: it
// takes up to the outstanding quantity from the request's category,
// credits the request, and pushes an undo record. A fully satisfied
// request is removed from the queue. When the head request's category
// has no remaining inventory the step reports StepNoMatch and leaves
// all state untouched.
func (s *Service) Step(ctx context.Context) (StepResult, error) {
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}

	request := s.queue.Next()
	if request == nil {
		return StepResult{Outcome: StepQueueEmpty}, nil
	}

	record, err := s.commit(request)
	if err != nil {
		return StepResult{}, err
	}
	if record == nil {
		return StepResult{Outcome: StepNoMatch}, nil
	}
	return StepResult{Outcome: StepCommitted, Record: record}, nil
}

// Drain runs allocation steps until no further progress can be made.
// A request whose category has no remaining inventory is skipped for
// the rest of the pass, keeping its lane position, so one starved
// category never blocks requests of other categories. Draining an
// empty queue is a no-op.
func (s *Service) Drain(ctx context.Context) (DrainResult, error) {
	var result DrainResult
	skip := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		request := s.queue.NextAfter(skip)
		if request == nil {
			return result, nil
		}

		record, err := s.commit(request)
		if err != nil {
			return result, err
		}
		if record == nil || !record.Removed {
			// Either no inventory matched, or a partial fill drained the
			// category. The request keeps its position and stops being
			// eligible for this pass.
			skip[request.ID] = true
			if record == nil {
				result.Stuck++
			}
		}
		if record != nil {
			result.Committed = append(result.Committed, record)
		}
	}
}

// commit transfers inventory to the request and records the step. It
// returns nil when no inventory matched; the queue position is captured
// before any mutation so the record can reverse the step exactly.
func (s *Service) commit(request *entities.Request) (*entities.AllocationRecord, error) {
	priority, position, ok := s.queue.Position(request.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not queued", entities.ErrUnknownRequest, request.ID)
	}

	transfers, taken := s.inventory.Take(request.Category, request.Outstanding())
	if taken == 0 {
		return nil, nil
	}

	request.Fulfilled += taken
	record := &entities.AllocationRecord{
		ID:            s.newID(),
		RequestID:     request.ID,
		Category:      request.Category,
		Transfers:     transfers,
		Quantity:      taken,
		Priority:      priority,
		QueuePosition: position,
		Removed:       request.IsFulfilled(),
		CommittedAt:   time.Now(),
	}
	s.history.Push(record)

	if record.Removed {
		s.queue.Remove(request.ID)
		s.fulfilled[request.ID] = request
		s.fulfilledOrder = append(s.fulfilledOrder, request.ID)
	}

	if s.logger != nil {
		s.logger.Printf("allocated %d units of %q to request %s (%d/%d fulfilled)",
			taken, request.Category, request.ID, request.Fulfilled, request.Needed)
	}
	return record, nil
}

// UndoLast reverses the most recent allocation step: transferred
// quantities return to their donations, the request's fulfilled count
// is decremented, and a request that had left the queue is reinserted
// at its original tier and position. ErrEmptyHistory is returned when
// there is nothing to undo; a restore failure indicates corrupted state
// and aborts without retrying.
func (s *Service) UndoLast(ctx context.Context) (*entities.AllocationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := s.history.Pop()
	if err != nil {
		return nil, err
	}

	if err := s.inventory.Restore(record.Transfers); err != nil {
		return nil, fmt.Errorf("undo allocation %s: %w", record.ID, err)
	}

	request := s.queue.Get(record.RequestID)
	if request == nil {
		request = s.fulfilled[record.RequestID]
	}
	if request == nil {
		return nil, fmt.Errorf("undo allocation %s: %w: %s",
			record.ID, entities.ErrUnknownRequest, record.RequestID)
	}

	request.Fulfilled -= record.Quantity
	if record.Removed {
		delete(s.fulfilled, record.RequestID)
		for i, id := range s.fulfilledOrder {
			if id == record.RequestID {
				s.fulfilledOrder = append(s.fulfilledOrder[:i], s.fulfilledOrder[i+1:]...)
				break
			}
		}
		s.queue.ReinsertAt(request, record.QueuePosition)
	}

	if s.logger != nil {
		s.logger.Printf("undid allocation %s: returned %d units of %q from request %s",
			record.ID, record.Quantity, record.Category, record.RequestID)
	}
	return record, nil
}

// FulfilledRequests returns fully satisfied requests in completion order
func (s *Service) FulfilledRequests() []*entities.Request {
	requests := make([]*entities.Request, 0, len(s.fulfilledOrder))
	for _, id := range s.fulfilledOrder {
		requests = append(requests, s.fulfilled[id])
	}
	return requests
}

// RestoreFulfilled reloads previously completed requests, used when
// rebuilding state from a persisted snapshot
func (s *Service) RestoreFulfilled(requests []*entities.Request) {
	for _, request := range requests {
		if _, exists := s.fulfilled[request.ID]; exists {
			continue
		}
		s.fulfilled[request.ID] = request
		s.fulfilledOrder = append(s.fulfilledOrder, request.ID)
	}
}
