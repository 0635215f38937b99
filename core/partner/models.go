package partner

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// errors
	ErrNotFound = errors.New("partner not found")
)

// PartnerType buckets the institutions an agency places students with.
type PartnerType string

const (
	TypeUniversity PartnerType = "University"
	TypeAggregator PartnerType = "Aggregator"
	TypeCollege    PartnerType = "College"
)

type Partner struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         PartnerType `json:"type"`
	Country      string      `json:"country"`
	ContactEmail string      `json:"contact_email"`
	// CommissionRate is a percentage of annual tuition.
	CommissionRate float64   `json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

type NewPartner struct {
	Name           string      `json:"name" validate:"required"`
	Type           PartnerType `json:"type" validate:"required,oneof=University Aggregator College"`
	Country        string      `json:"country"`
	ContactEmail   string      `json:"contact_email" validate:"omitempty,email"`
	CommissionRate float64     `json:"commission_rate" validate:"gte=0,lte=100"`
}

func (np *NewPartner) Validate(validate *validator.Validate) error {
	return validate.Struct(np)
}

type UpdatePartner struct {
	Name           string      `json:"name"`
	Type           PartnerType `json:"type" validate:"omitempty,oneof=University Aggregator College"`
	Country        string      `json:"country"`
	ContactEmail   string      `json:"contact_email" validate:"omitempty,email"`
	CommissionRate float64     `json:"commission_rate" validate:"gte=0,lte=100"`
}

func (up *UpdatePartner) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}
