package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies both donations and requests for matching purposes
type Category string

// Quantity represents an integer count of donated units
type Quantity int64

// Donation represents a donated item lot. Quantity records the amount
// originally donated and never changes; Remaining is decremented as the
// lot is allocated to requests. A donation with Remaining == 0 is fully
// consumed but retained for audit history.
type Donation struct {
	ID         string
	DonorID    string
	Name       string
	Category   Category
	Quantity   Quantity
	Remaining  Quantity
	UnitValue  decimal.Decimal
	ReceivedAt time.Time
}

// NewDonation creates a validated Donation with Remaining set to the full
// donated quantity
func NewDonation(id, donorID, name string, category Category, quantity Quantity, unitValue decimal.Decimal, receivedAt time.Time) (*Donation, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: donation id cannot be empty", ErrInvalidDonation)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", ErrInvalidDonation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidDonation, quantity)
	}
	if unitValue.IsNegative() {
		return nil, fmt.Errorf("%w: unit value cannot be negative, got %s", ErrInvalidDonation, unitValue)
	}

	return &Donation{
		ID:         id,
		DonorID:    donorID,
		Name:       name,
		Category:   category,
		Quantity:   quantity,
		Remaining:  quantity,
		UnitValue:  unitValue,
		ReceivedAt: receivedAt,
	}, nil
}

// Allocated returns the quantity already transferred out of this donation
func (d *Donation) Allocated() Quantity {
	return d.Quantity - d.Remaining
}

// Value returns the estimated value of the remaining quantity
func (d *Donation) Value() decimal.Decimal {
	return d.UnitValue.Mul(decimal.NewFromInt(int64(d.Remaining)))
}
