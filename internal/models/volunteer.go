package models

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer type values.
const (
	VolunteerTypeIndividual = "individual"
	VolunteerTypeOrg        = "org"
)

// Volunteer is a registered park volunteer, either an individual or an
// organization. OrgName is only set for organizations. The (email, name)
// pair is unique; registering the same pair twice is rejected.
type Volunteer struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	OrgName   *string   `json:"org_name,omitempty"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Skills    []string  `json:"skills"`
	Interests []string  `json:"interests"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
