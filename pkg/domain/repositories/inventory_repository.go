package repositories

import "github.com/reliefops/donations/pkg/domain/entities"

// InventoryRepository holds donated item lots grouped by category.
// Donations within a category are consumed oldest-first.
type InventoryRepository interface {
	// Add appends a donation with its full remaining quantity to its
	// category's sequence.
	Add(donation *entities.Donation)

	// Take removes up to amount units from the category, consuming
	// donations oldest-first. It returns the transfers actually made and
	// the total taken, which is less than amount when inventory is
	// insufficient. A short take signals partial fulfillment, not an
	// error.
	Take(category entities.Category, amount entities.Quantity) ([]entities.Transfer, entities.Quantity)

	// Restore adds previously taken quantities back to the referenced
	// donations. It returns ErrUnknownDonation if a donation id no
	// longer exists, which indicates corrupted history.
	Restore(transfers []entities.Transfer) error

	// Available returns the total remaining quantity for a category.
	Available(category entities.Category) entities.Quantity

	// Donations returns the category's lots in receipt order, including
	// fully consumed ones kept for audit.
	Donations(category entities.Category) []*entities.Donation

	// Categories returns all known categories in first-seen order.
	Categories() []entities.Category

	// AllDonations returns every lot across categories in receipt order.
	AllDonations() []*entities.Donation
}
