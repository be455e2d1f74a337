package memory

import (
	"fmt"

	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory storage grouped by
// category. Donations are kept in receipt order, which is also the
// consumption order.
type InventoryRepository struct {
	byCategory map[entities.Category][]*entities.Donation
	byID       map[string]*entities.Donation
	categories []entities.Category
	order      []*entities.Donation
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		byCategory: make(map[entities.Category][]*entities.Donation),
		byID:       make(map[string]*entities.Donation),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// Add appends a donation to its category's sequence
func (r *InventoryRepository) Add(donation *entities.Donation) {
	if _, seen := r.byCategory[donation.Category]; !seen {
		r.categories = append(r.categories, donation.Category)
	}
	r.byCategory[donation.Category] = append(r.byCategory[donation.Category], donation)
	r.byID[donation.ID] = donation
	r.order = append(r.order, donation)
}

// Take removes up to amount units from the category, consuming donations
// oldest-first. Fully consumed donations are skipped but kept in place
// for audit. The returned total may be less than amount when inventory
// is insufficient.
func (r *InventoryRepository) Take(category entities.Category, amount entities.Quantity) ([]entities.Transfer, entities.Quantity) {
	var transfers []entities.Transfer
	var taken entities.Quantity

	for _, donation := range r.byCategory[category] {
		if taken >= amount {
			break
		}
		if donation.Remaining == 0 {
			continue
		}

		takeQty := amount - taken
		if takeQty > donation.Remaining {
			takeQty = donation.Remaining
		}

		donation.Remaining -= takeQty
		taken += takeQty
		transfers = append(transfers, entities.Transfer{
			DonationID: donation.ID,
			Quantity:   takeQty,
		})
	}

	return transfers, taken
}

// Restore adds previously taken quantities back to the referenced
// donations. A transfer referencing an unknown donation id means the
// history no longer matches the store; nothing useful can be recovered
// from that state, so the error is returned immediately.
func (r *InventoryRepository) Restore(transfers []entities.Transfer) error {
	for _, transfer := range transfers {
		donation, ok := r.byID[transfer.DonationID]
		if !ok {
			return fmt.Errorf("%w: cannot restore %d units to donation %s",
				entities.ErrUnknownDonation, transfer.Quantity, transfer.DonationID)
		}
		donation.Remaining += transfer.Quantity
	}
	return nil
}

// Available returns the total remaining quantity for a category
func (r *InventoryRepository) Available(category entities.Category) entities.Quantity {
	var total entities.Quantity
	for _, donation := range r.byCategory[category] {
		total += donation.Remaining
	}
	return total
}

// Donations returns the category's lots in receipt order
func (r *InventoryRepository) Donations(category entities.Category) []*entities.Donation {
	donations := make([]*entities.Donation, len(r.byCategory[category]))
	copy(donations, r.byCategory[category])
	return donations
}

// Categories returns all known categories in first-seen order
func (r *InventoryRepository) Categories() []entities.Category {
	categories := make([]entities.Category, len(r.categories))
	copy(categories, r.categories)
	return categories
}

// AllDonations returns every lot across categories in receipt order
func (r *InventoryRepository) AllDonations() []*entities.Donation {
	donations := make([]*entities.Donation, len(r.order))
	copy(donations, r.order)
	return donations
}
