package memory

import (
	"fmt"

	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/domain/repositories"
)

// DonorRepository provides in-memory donor storage
type DonorRepository struct {
	donors map[string]*entities.Donor
	ids    []string
}

// NewDonorRepository creates a new in-memory donor repository
func NewDonorRepository() *DonorRepository {
	return &DonorRepository{
		donors: make(map[string]*entities.Donor),
	}
}

// Verify interface compliance
var _ repositories.DonorRepository = (*DonorRepository)(nil)

// Save stores a donor, rejecting duplicate ids
func (r *DonorRepository) Save(donor *entities.Donor) error {
	if _, exists := r.donors[donor.ID]; exists {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateDonor, donor.ID)
	}
	r.donors[donor.ID] = donor
	r.ids = append(r.ids, donor.ID)
	return nil
}

// Get returns the donor with the given id
func (r *DonorRepository) Get(id string) (*entities.Donor, error) {
	donor, ok := r.donors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownDonor, id)
	}
	return donor, nil
}

// All returns every donor in registration order
func (r *DonorRepository) All() []*entities.Donor {
	donors := make([]*entities.Donor, 0, len(r.ids))
	for _, id := range r.ids {
		donors = append(donors, r.donors[id])
	}
	return donors
}
