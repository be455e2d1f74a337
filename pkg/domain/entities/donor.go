package entities

import "fmt"

// Donor represents a registered donor. Donors are immutable once created
// and are referenced, not owned, by donation records.
type Donor struct {
	ID      string
	Name    string
	Contact string
}

// NewDonor creates a validated Donor
func NewDonor(id, name, contact string) (*Donor, error) {
	if id == "" {
		return nil, fmt.Errorf("donor id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("donor name cannot be empty")
	}

	return &Donor{
		ID:      id,
		Name:    name,
		Contact: contact,
	}, nil
}
