package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/reliefops/donations/pkg/application/services/allocation"
	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/infrastructure/persistence/sqlite"
	"github.com/reliefops/donations/pkg/infrastructure/repositories/jsonfile"
	"github.com/reliefops/donations/pkg/infrastructure/repositories/memory"
	"github.com/reliefops/donations/pkg/interfaces/cli/output"
)

// Config holds configuration for the allocate command
type Config struct {
	SeedFile   string
	DBPath     string
	Format     string
	Verbose    bool
	SingleStep bool
	Undo       bool
	Help       bool
}

// AllocateCommand loads state, drives the allocation engine, and
// reports the result
type AllocateCommand struct {
	config Config
}

// NewAllocateCommand creates a new allocate command with the given
// configuration
func NewAllocateCommand(config Config) *AllocateCommand {
	return &AllocateCommand{config: config}
}

// Execute runs the allocate command
func (c *AllocateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if c.config.Format != "text" && c.config.Format != "json" {
		return fmt.Errorf("validation error: format must be text or json, got %q", c.config.Format)
	}
	if c.config.SeedFile == "" && c.config.DBPath == "" {
		return fmt.Errorf("validation error: either a seed file or a database path is required")
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

	var store *sqlite.Store
	if c.config.DBPath != "" {
		opened, err := sqlite.Open(c.config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = opened.Close() }()
		store = opened

		snapshot, err := store.Load()
		if err != nil {
			return fmt.Errorf("failed to load database: %w", err)
		}
		restoreSnapshot(snapshot, donors, inventory, queue, history, allocator)
	}

	if c.config.SeedFile != "" {
		if err := c.loadSeed(donors, inventory, queue); err != nil {
			return err
		}
	}

	if err := c.run(ctx, allocator); err != nil {
		return err
	}

	if store != nil {
		snapshot := buildSnapshot(donors, inventory, queue, history, allocator)
		if err := store.Persist(snapshot); err != nil {
			return fmt.Errorf("failed to persist state: %w", err)
		}
	}

	report := buildReport(inventory, queue, history, allocator, c.config.Verbose)
	return output.Generate(report, output.Config{
		Format:  c.config.Format,
		Verbose: c.config.Verbose,
	})
}

// run executes the requested engine operation
func (c *AllocateCommand) run(ctx context.Context, allocator *allocation.Service) error {
	switch {
	case c.config.Undo:
		record, err := allocator.UndoLast(ctx)
		if errors.Is(err, entities.ErrEmptyHistory) {
			fmt.Println("Nothing to undo: allocation history is empty.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("undo failed: %w", err)
		}
		fmt.Printf("Undid allocation %s: returned %d units of %q.\n",
			record.ID, record.Quantity, record.Category)
		return nil

	case c.config.SingleStep:
		result, err := allocator.Step(ctx)
		if err != nil {
			return fmt.Errorf("allocation step failed: %w", err)
		}
		switch result.Outcome {
		case allocation.StepCommitted:
			fmt.Printf("Committed %d units of %q to request %s.\n",
				result.Record.Quantity, result.Record.Category, result.Record.RequestID)
		default:
			fmt.Printf("No allocation made: %s.\n", result.Outcome)
		}
		return nil

	default:
		result, err := allocator.Drain(ctx)
		if err != nil {
			return fmt.Errorf("drain failed: %w", err)
		}
		fmt.Printf("Drain complete: %d allocation(s) committed, %d request(s) without matching inventory.\n",
			len(result.Committed), result.Stuck)
		return nil
	}
}

// loadSeed registers seed records through the same stores the engine
// uses, with auto-allocation off so loading never allocates implicitly
func (c *AllocateCommand) loadSeed(
	donors *memory.DonorRepository,
	inventory *memory.InventoryRepository,
	queue *memory.RequestQueue,
) error {
	seed, err := jsonfile.NewLoader().Load(c.config.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}
	for _, donor := range seed.Donors {
		if err := donors.Save(donor); err != nil {
			return fmt.Errorf("failed to load seed: %w", err)
		}
	}
	for _, donation := range seed.Donations {
		if _, err := donors.Get(donation.DonorID); err != nil {
			return fmt.Errorf("failed to load seed: donation %s: %w", donation.ID, err)
		}
		inventory.Add(donation)
	}
	for _, request := range seed.Requests {
		queue.Enqueue(request)
	}
	if c.config.Verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d donor(s), %d donation(s), %d request(s) from %s\n",
			len(seed.Donors), len(seed.Donations), len(seed.Requests), c.config.SeedFile)
	}
	return nil
}

func restoreSnapshot(
	snapshot *sqlite.Snapshot,
	donors *memory.DonorRepository,
	inventory *memory.InventoryRepository,
	queue *memory.RequestQueue,
	history *memory.HistoryStack,
	allocator *allocation.Service,
) {
	for _, donor := range snapshot.Donors {
		_ = donors.Save(donor)
	}
	for _, donation := range snapshot.Donations {
		inventory.Add(donation)
	}
	// Pending requests are stored in service order, so re-enqueueing
	// preserves every lane's FIFO order.
	for _, request := range snapshot.Pending {
		queue.Enqueue(request)
	}
	allocator.RestoreFulfilled(snapshot.Fulfilled)
	for _, record := range snapshot.History {
		history.Push(record)
	}
}

func buildSnapshot(
	donors *memory.DonorRepository,
	inventory *memory.InventoryRepository,
	queue *memory.RequestQueue,
	history *memory.HistoryStack,
	allocator *allocation.Service,
) *sqlite.Snapshot {
	return &sqlite.Snapshot{
		Donors:    donors.All(),
		Donations: inventory.AllDonations(),
		Pending:   queue.Pending(),
		Fulfilled: allocator.FulfilledRequests(),
		History:   history.Records(),
	}
}

func buildReport(
	inventory *memory.InventoryRepository,
	queue *memory.RequestQueue,
	history *memory.HistoryStack,
	allocator *allocation.Service,
	verbose bool,
) *output.Report {
	report := &output.Report{
		Pending:   queue.Pending(),
		Fulfilled: allocator.FulfilledRequests(),
		History:   history.Records(),
	}
	for _, category := range inventory.Categories() {
		summary := output.CategorySummary{
			Category:  category,
			Remaining: inventory.Available(category),
		}
		for _, donation := range inventory.Donations(category) {
			summary.Donated += donation.Quantity
			summary.Value = summary.Value.Add(donation.Value())
			if verbose {
				summary.Donations = append(summary.Donations, donation)
			}
		}
		report.Inventory = append(report.Inventory, summary)
	}
	return report
}

// showHelp displays usage information
func (c *AllocateCommand) showHelp() {
	fmt.Println("donations - match donated inventory to prioritized requests")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  donations -seed seed.json [options]       Load seed data and drain the queue")
	fmt.Println("  donations -db state.db [options]          Operate on persisted state")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -seed string    Path to JSON seed file (env DONATIONS_SEED)")
	fmt.Println("  -db string      Path to SQLite state database (env DONATIONS_DB)")
	fmt.Println("  -step           Run a single allocation step instead of a full drain")
	fmt.Println("  -undo           Undo the most recent allocation and exit")
	fmt.Println("  -format string  Output format: text, json (env DONATIONS_FORMAT)")
	fmt.Println("  -verbose        Per-donation detail and operation logging")
	fmt.Println("  -help           Show this help message")
}
