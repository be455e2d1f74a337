package intake

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/reliefops/donations/pkg/application/services/allocation"
	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/infrastructure/repositories/memory"
)

type fixture struct {
	donors    *memory.DonorRepository
	inventory *memory.InventoryRepository
	queue     *memory.RequestQueue
	history   *memory.HistoryStack
	service   *Service
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()
	donors := memory.NewDonorRepository()
	inventory := memory.NewInventoryRepository()
	queue := memory.NewRequestQueue()
	history := memory.NewHistoryStack()
	allocator := allocation.NewService(inventory, queue, history)

	if config.NewID == nil {
		sequence := 0
		config.NewID = func() string {
			sequence++
			return fmt.Sprintf("id-%d", sequence)
		}
	}
	return &fixture{
		donors:    donors,
		inventory: inventory,
		queue:     queue,
		history:   history,
		service:   NewService(donors, inventory, queue, allocator, config),
	}
}

func TestService_RegisterDonor(t *testing.T) {
	f := newFixture(t, Config{})

	donor, err := f.service.RegisterDonor(context.Background(), "Maria Silva", "maria@example.com")
	if err != nil {
		t.Fatalf("Failed to register donor: %v", err)
	}
	if donor.ID == "" {
		t.Error("Expected generated donor id")
	}

	retrieved, err := f.donors.Get(donor.ID)
	if err != nil {
		t.Fatalf("Failed to get registered donor: %v", err)
	}
	if retrieved.Name != "Maria Silva" {
		t.Errorf("Expected name Maria Silva, got %q", retrieved.Name)
	}
}

func TestService_RegisterDonorDuplicateID(t *testing.T) {
	f := newFixture(t, Config{NewID: func() string { return "fixed-id" }})
	ctx := context.Background()

	if _, err := f.service.RegisterDonor(ctx, "Maria Silva", ""); err != nil {
		t.Fatalf("Failed to register first donor: %v", err)
	}
	_, err := f.service.RegisterDonor(ctx, "Joao Pereira", "")
	if !errors.Is(err, entities.ErrDuplicateDonor) {
		t.Errorf("Expected ErrDuplicateDonor, got %v", err)
	}
}

func TestService_RegisterDonationUnknownDonor(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.service.RegisterDonation(context.Background(), "missing", "Beans", "food", 10, decimal.Zero)
	if !errors.Is(err, entities.ErrUnknownDonor) {
		t.Fatalf("Expected ErrUnknownDonor, got %v", err)
	}
	if got := len(f.inventory.AllDonations()); got != 0 {
		t.Errorf("Expected no inventory mutation on failed registration, got %d donations", got)
	}
}

func TestService_RegisterDonationInvalidQuantity(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	donor, err := f.service.RegisterDonor(ctx, "Maria Silva", "")
	if err != nil {
		t.Fatalf("Failed to register donor: %v", err)
	}

	_, err = f.service.RegisterDonation(ctx, donor.ID, "Beans", "food", 0, decimal.Zero)
	if !errors.Is(err, entities.ErrInvalidDonation) {
		t.Fatalf("Expected ErrInvalidDonation, got %v", err)
	}
	if got := len(f.inventory.AllDonations()); got != 0 {
		t.Errorf("Expected no inventory mutation on failed registration, got %d donations", got)
	}
}

func TestService_RegisterRequestValidation(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	testCases := []struct {
		name     string
		quantity entities.Quantity
		priority string
	}{
		{"zero quantity", 0, "medium"},
		{"negative quantity", -1, "medium"},
		{"unknown priority", 5, "urgent"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.RegisterRequest(ctx, "Family A", "food", tc.quantity, tc.priority)
			if !errors.Is(err, entities.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}

	if next := f.queue.Next(); next != nil {
		t.Errorf("Expected rejected requests to never enter the queue, got %v", next)
	}
}

func TestService_AutoAllocate(t *testing.T) {
	f := newFixture(t, Config{AutoAllocate: true})
	ctx := context.Background()

	donor, err := f.service.RegisterDonor(ctx, "Maria Silva", "")
	if err != nil {
		t.Fatalf("Failed to register donor: %v", err)
	}
	if _, err := f.service.RegisterDonation(ctx, donor.ID, "Beans", "food", 10, decimal.Zero); err != nil {
		t.Fatalf("Failed to register donation: %v", err)
	}

	request, err := f.service.RegisterRequest(ctx, "Family A", "food", 4, "high")
	if err != nil {
		t.Fatalf("Failed to register request: %v", err)
	}

	// Registration triggered a drain: the request is already satisfied.
	if !request.IsFulfilled() {
		t.Errorf("Expected auto-allocated request to be fulfilled, got %d of %d",
			request.Fulfilled, request.Needed)
	}
	if f.inventory.Available("food") != 6 {
		t.Errorf("Expected 6 units left, got %d", f.inventory.Available("food"))
	}
	if f.history.Len() != 1 {
		t.Errorf("Expected 1 history record, got %d", f.history.Len())
	}
}

func TestService_NoAutoAllocateByDefault(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	donor, err := f.service.RegisterDonor(ctx, "Maria Silva", "")
	if err != nil {
		t.Fatalf("Failed to register donor: %v", err)
	}
	if _, err := f.service.RegisterDonation(ctx, donor.ID, "Beans", "food", 10, decimal.Zero); err != nil {
		t.Fatalf("Failed to register donation: %v", err)
	}
	request, err := f.service.RegisterRequest(ctx, "Family A", "food", 4, "high")
	if err != nil {
		t.Fatalf("Failed to register request: %v", err)
	}

	if request.Fulfilled != 0 {
		t.Errorf("Expected no allocation without AutoAllocate, got %d", request.Fulfilled)
	}
	if f.history.Len() != 0 {
		t.Errorf("Expected empty history, got %d", f.history.Len())
	}
}
