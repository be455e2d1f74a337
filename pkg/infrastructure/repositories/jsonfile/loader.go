package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reliefops/donations/pkg/domain/entities"
)

// SeedData holds validated records loaded from a seed file
type SeedData struct {
	Donors    []*entities.Donor
	Donations []*entities.Donation
	Requests  []*entities.Request
}

type seedDocument struct {
	Donors    []donorRecord    `json:"donors"`
	Donations []donationRecord `json:"donations"`
	Requests  []requestRecord  `json:"requests"`
}

type donorRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type donationRecord struct {
	ID         string `json:"id"`
	DonorID    string `json:"donor_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Quantity   int64  `json:"quantity"`
	UnitValue  string `json:"unit_value,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"`
}

type requestRecord struct {
	ID          string `json:"id"`
	Requester   string `json:"requester"`
	Category    string `json:"category"`
	Quantity    int64  `json:"quantity"`
	Priority    string `json:"priority"`
	RequestedAt string `json:"requested_at,omitempty"`
}

// Loader reads seed data from a JSON file
type Loader struct{}

// NewLoader creates a new JSON seed loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and validates a seed file. Every record passes through the
// entity constructors, so invalid seed data is rejected before any of
// it reaches the stores.
func (l *Loader) Load(filename string) (*SeedData, error) {
	payload, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file %s: %w", filename, err)
	}

	var doc seedDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", filename, err)
	}

	seed := &SeedData{}

	for i, record := range doc.Donors {
		donor, err := entities.NewDonor(record.ID, record.Name, record.Contact)
		if err != nil {
			return nil, fmt.Errorf("seed donor %d: %w", i, err)
		}
		seed.Donors = append(seed.Donors, donor)
	}

	for i, record := range doc.Donations {
		donation, err := parseDonation(record)
		if err != nil {
			return nil, fmt.Errorf("seed donation %d: %w", i, err)
		}
		seed.Donations = append(seed.Donations, donation)
	}

	for i, record := range doc.Requests {
		request, err := parseRequest(record)
		if err != nil {
			return nil, fmt.Errorf("seed request %d: %w", i, err)
		}
		seed.Requests = append(seed.Requests, request)
	}

	return seed, nil
}

func parseDonation(record donationRecord) (*entities.Donation, error) {
	unitValue := decimal.Zero
	if record.UnitValue != "" {
		parsed, err := decimal.NewFromString(record.UnitValue)
		if err != nil {
			return nil, fmt.Errorf("invalid unit value %q: %w", record.UnitValue, err)
		}
		unitValue = parsed
	}
	receivedAt, err := parseTimestamp(record.ReceivedAt)
	if err != nil {
		return nil, err
	}
	return entities.NewDonation(
		record.ID,
		record.DonorID,
		record.Name,
		entities.Category(record.Category),
		entities.Quantity(record.Quantity),
		unitValue,
		receivedAt,
	)
}

func parseRequest(record requestRecord) (*entities.Request, error) {
	priority, err := entities.ParsePriority(record.Priority)
	if err != nil {
		return nil, err
	}
	requestedAt, err := parseTimestamp(record.RequestedAt)
	if err != nil {
		return nil, err
	}
	return entities.NewRequest(
		record.ID,
		record.Requester,
		entities.Category(record.Category),
		entities.Quantity(record.Quantity),
		priority,
		requestedAt,
	)
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return ts, nil
}
