package repositories

import "github.com/reliefops/donations/pkg/domain/entities"

// DonorRepository provides access to registered donors
type DonorRepository interface {
	Save(donor *entities.Donor) error
	Get(id string) (*entities.Donor, error)
	All() []*entities.Donor
}
