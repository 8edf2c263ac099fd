// Package volunteers implements the park volunteer registration flow and the
// admin volunteer listing and export.
package volunteers

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/kikuna-park/backend/internal/models"
)

// ErrAlreadyRegistered is returned when the same email and name pair has
// registered before.
var ErrAlreadyRegistered = errors.New("volunteer already registered")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// VolunteerStore persists volunteers. Implemented by *Repository; a fake
// stands in during tests.
type VolunteerStore interface {
	FindByEmailAndName(ctx context.Context, email, name string) (*models.Volunteer, error)
	Create(ctx context.Context, v *models.Volunteer) error
}

// Registration is one submitted registration form. Registration is
// single-step: no draft, no preview.
type Registration struct {
	Type         string
	Name         string
	OrgName      string
	Email        string
	Phone        string
	Address      string
	Skills       []string
	Interests    []string
	Notes        string
	AgreeToTerms bool
}

// Validate returns an ordered list of human-readable error messages. An empty
// list means the registration is valid.
func (r Registration) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "氏名または団体名は必須です")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, "メールアドレスは必須です")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "有効なメールアドレスを入力してください")
	}
	if !r.AgreeToTerms {
		errs = append(errs, "個人情報取扱いに同意する必要があります")
	}
	return errs
}

// Registrar turns a validated registration into a persisted volunteer.
type Registrar struct {
	store VolunteerStore
}

// NewRegistrar creates a volunteer registrar.
func NewRegistrar(store VolunteerStore) *Registrar {
	return &Registrar{store: store}
}

// Register persists one volunteer. A registration with the same email and
// name as an existing volunteer is rejected with ErrAlreadyRegistered. The
// organization name is only kept for organization registrations; an unknown
// type falls back to individual.
func (r *Registrar) Register(ctx context.Context, reg Registration) (*models.Volunteer, error) {
	email := strings.TrimSpace(reg.Email)
	name := strings.TrimSpace(reg.Name)

	existing, err := r.store.FindByEmailAndName(ctx, email, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	vtype := models.VolunteerTypeIndividual
	if reg.Type == models.VolunteerTypeOrg {
		vtype = models.VolunteerTypeOrg
	}

	v := &models.Volunteer{
		Type:      vtype,
		Name:      name,
		Email:     email,
		Phone:     optional(reg.Phone),
		Address:   optional(reg.Address),
		Skills:    cleanList(reg.Skills),
		Interests: cleanList(reg.Interests),
		Notes:     optional(reg.Notes),
	}
	if vtype == models.VolunteerTypeOrg {
		v.OrgName = optional(reg.OrgName)
	}

	if err := r.store.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// cleanList trims the entries and drops empty ones, so blank checkbox or
// comma-separated input never produces empty list items.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
