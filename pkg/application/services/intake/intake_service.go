package intake

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reliefops/donations/pkg/application/services/allocation"
	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/domain/repositories"
)

// Config holds configuration for the intake service
type Config struct {
	// AutoAllocate runs a drain pass after every donation or request
	// registration, matching new supply and demand immediately.
	AutoAllocate bool
	// Logger receives one line per registration. Nil disables logging.
	Logger *log.Logger
	// NewID generates entity ids.
	NewID func() string
}

// Service registers donors, donations, and requests. All validation
// happens here, before anything reaches the core stores, so a rejected
// registration never mutates state.
type Service struct {
	donors    repositories.DonorRepository
	inventory repositories.InventoryRepository
	queue     repositories.RequestQueue
	allocator *allocation.Service

	autoAllocate bool
	logger       *log.Logger
	newID        func() string
}

// NewService creates an intake service
func NewService(
	donors repositories.DonorRepository,
	inventory repositories.InventoryRepository,
	queue repositories.RequestQueue,
	allocator *allocation.Service,
	config Config,
) *Service {
	newID := config.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		donors:       donors,
		inventory:    inventory,
		queue:        queue,
		allocator:    allocator,
		autoAllocate: config.AutoAllocate,
		logger:       config.Logger,
		newID:        newID,
	}
}

// RegisterDonor registers a new donor
func (s *Service) RegisterDonor(ctx context.Context, name, contact string) (*entities.Donor, error) {
	donor, err := entities.NewDonor(s.newID(), name, contact)
	if err != nil {
		return nil, err
	}
	if err := s.donors.Save(donor); err != nil {
		return nil, err
	}
	s.logf("donor registered: %s (%s)", donor.Name, donor.ID)
	return donor, nil
}

// RegisterDonation accepts a donated item lot into inventory. The donor
// must already be registered.
func (s *Service) RegisterDonation(ctx context.Context, donorID, name string, category entities.Category, quantity entities.Quantity, unitValue decimal.Decimal) (*entities.Donation, error) {
	if _, err := s.donors.Get(donorID); err != nil {
		return nil, fmt.Errorf("register donation: %w", err)
	}
	donation, err := entities.NewDonation(s.newID(), donorID, name, category, quantity, unitValue, time.Now())
	if err != nil {
		return nil, err
	}
	s.inventory.Add(donation)
	s.logf("donation registered: %dx %q in category %q from donor %s",
		donation.Quantity, donation.Name, donation.Category, donorID)

	if err := s.drain(ctx); err != nil {
		return donation, err
	}
	return donation, nil
}

// RegisterRequest enqueues a new need at the tail of its priority lane
func (s *Service) RegisterRequest(ctx context.Context, requester string, category entities.Category, needed entities.Quantity, priority string) (*entities.Request, error) {
	tier, err := entities.ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	request, err := entities.NewRequest(s.newID(), requester, category, needed, tier, time.Now())
	if err != nil {
		return nil, err
	}
	s.queue.Enqueue(request)
	s.logf("request registered: %s needs %dx %q (%s priority)",
		request.Requester, request.Needed, request.Category, request.Priority)

	if err := s.drain(ctx); err != nil {
		return request, err
	}
	return request, nil
}

func (s *Service) drain(ctx context.Context) error {
	if !s.autoAllocate {
		return nil
	}
	if _, err := s.allocator.Drain(ctx); err != nil {
		return fmt.Errorf("auto-allocate: %w", err)
	}
	return nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
