package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/reliefops/donations/pkg/application/services/allocation"
	"github.com/reliefops/donations/pkg/application/services/intake"
	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/infrastructure/persistence/sqlite"
	"github.com/reliefops/donations/pkg/infrastructure/repositories/memory"
)

// RegisterConfig holds configuration for the register command. Exactly
// one of Donor, Donation, or Request is expected per invocation.
type RegisterConfig struct {
	// Donor is "name|contact".
	Donor string
	// Donation is "donor_id|item name|category|quantity[|unit_value]".
	Donation string
	// Request is "requester|category|quantity|priority".
	Request string

	DBPath  string
	Verbose bool
}

// RegisterCommand registers a donor, donation, or request against
// persisted state, auto-allocating after each mutation the way the
// intake surface always has
type RegisterCommand struct {
	config RegisterConfig
}

// NewRegisterCommand creates a new register command
func NewRegisterCommand(config RegisterConfig) *RegisterCommand {
	return &RegisterCommand{config: config}
}

// Execute runs the register command
func (c *RegisterCommand) Execute(ctx context.Context) error {
	specified := 0
	for _, value := range []string{c.config.Donor, c.config.Donation, c.config.Request} {
		if value != "" {
			specified++
		}
	}
	if specified != 1 {
		return fmt.Errorf("validation error: exactly one of -add-donor, -add-donation, -add-request is required")
	}
	if c.config.DBPath == "" {
		return fmt.Errorf("validation error: registration requires a database path")
	}

	donors := memory.NewDonorRepository()
	inventory := memory.NewInventoryRepository()
	queue := memory.NewRequestQueue()
	history := memory.NewHistoryStack()

	var logger *log.Logger
	if c.config.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	allocator := allocation.NewServiceWithConfig(inventory, queue, history, allocation.Config{
		Logger: logger,
	})
	registrar := intake.NewService(donors, inventory, queue, allocator, intake.Config{
		AutoAllocate: true,
		Logger:       logger,
	})

	store, err := sqlite.Open(c.config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	snapshot, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	restoreSnapshot(snapshot, donors, inventory, queue, history, allocator)

	if err := c.register(ctx, registrar); err != nil {
		return err
	}

	return store.Persist(buildSnapshot(donors, inventory, queue, history, allocator))
}

func (c *RegisterCommand) register(ctx context.Context, registrar *intake.Service) error {
	switch {
	case c.config.Donor != "":
		fields, err := splitFields(c.config.Donor, 2, 2)
		if err != nil {
			return fmt.Errorf("-add-donor: %w", err)
		}
		donor, err := registrar.RegisterDonor(ctx, fields[0], fields[1])
		if err != nil {
			return err
		}
		fmt.Printf("Registered donor %s (%s).\n", donor.Name, donor.ID)
		return nil

	case c.config.Donation != "":
		fields, err := splitFields(c.config.Donation, 4, 5)
		if err != nil {
			return fmt.Errorf("-add-donation: %w", err)
		}
		quantity, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return fmt.Errorf("-add-donation: invalid quantity %q", fields[3])
		}
		unitValue := decimal.Zero
		if len(fields) == 5 {
			unitValue, err = decimal.NewFromString(fields[4])
			if err != nil {
				return fmt.Errorf("-add-donation: invalid unit value %q", fields[4])
			}
		}
		donation, err := registrar.RegisterDonation(ctx, fields[0], fields[1],
			entities.Category(fields[2]), entities.Quantity(quantity), unitValue)
		if err != nil {
			return err
		}
		fmt.Printf("Registered donation %s: %dx %q.\n", donation.ID, donation.Quantity, donation.Name)
		return nil

	default:
		fields, err := splitFields(c.config.Request, 4, 4)
		if err != nil {
			return fmt.Errorf("-add-request: %w", err)
		}
		quantity, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("-add-request: invalid quantity %q", fields[2])
		}
		request, err := registrar.RegisterRequest(ctx, fields[0],
			entities.Category(fields[1]), entities.Quantity(quantity), fields[3])
		if err != nil {
			return err
		}
		fmt.Printf("Registered request %s: %s needs %dx %q (%s).\n",
			request.ID, request.Requester, request.Needed, request.Category, request.Priority)
		return nil
	}
}

func splitFields(value string, minFields, maxFields int) ([]string, error) {
	fields := strings.Split(value, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < minFields || len(fields) > maxFields {
		return nil, fmt.Errorf("expected %d to %d pipe-separated fields, got %d", minFields, maxFields, len(fields))
	}
	return fields, nil
}
