package student

import (
	"errors"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

// ApplicationStatus is the pipeline stage of a Student's application.
// The set is closed; see status.go for the transition policy.
type ApplicationStatus string

const (
	StatusLead          ApplicationStatus = "Lead"
	StatusApplied       ApplicationStatus = "Applied"
	StatusOfferReceived ApplicationStatus = "OfferReceived"
	StatusVisaGranted   ApplicationStatus = "VisaGranted"
	StatusVisaRejected  ApplicationStatus = "VisaRejected"
	StatusAlumni        ApplicationStatus = "Alumni"
	StatusDiscontinued  ApplicationStatus = "Discontinued"
)

var AllStatuses = []ApplicationStatus{
	StatusLead,
	StatusApplied,
	StatusOfferReceived,
	StatusVisaGranted,
	StatusVisaRejected,
	StatusAlumni,
	StatusDiscontinued,
}

// NocStatus tracks the government no-objection clearance, independent of
// the application pipeline.
type NocStatus string

const (
	NocNotRequired NocStatus = "NotRequired"
	NocPending     NocStatus = "Pending"
	NocApplied     NocStatus = "Applied"
	NocApproved    NocStatus = "Approved"
)

// CommissionStatus tracks the partner commission owed on a placement.
type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "Pending"
	CommissionClaimed  CommissionStatus = "Claimed"
	CommissionReceived CommissionStatus = "Received"
)

type Student struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	TargetCountry string            `json:"target_country"`
	Course        string            `json:"course"`
	AnnualTuition float64           `json:"annual_tuition"`
	Status        ApplicationStatus `json:"status"`
	NocStatus     NocStatus         `json:"noc_status"`

	// partner binding; CommissionAmount is a snapshot taken at assignment
	// time and is not recomputed when tuition or rates change later.
	AssignedPartnerID   string           `json:"assigned_partner_id,omitempty"`
	AssignedPartnerName string           `json:"assigned_partner_name,omitempty"`
	CommissionAmount    float64          `json:"commission_amount"`
	CommissionStatus    CommissionStatus `json:"commission_status"`

	Source    string    `json:"source,omitempty"` // lead source (web form, referral, walk-in...)
	BranchID  string    `json:"branch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC, immutable
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewStudent struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone"`
	TargetCountry string  `json:"target_country" validate:"required"`
	Course        string  `json:"course"`
	AnnualTuition float64 `json:"annual_tuition" validate:"gte=0"`
	Source        string  `json:"source"`
	BranchID      string  `json:"branch_id"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = clean(ns.Name)
	ns.Email = cleanLower(ns.Email)
	ns.TargetCountry = clean(ns.TargetCountry)
	return validate.Struct(ns)
}

type UpdateStudent struct {
	Name          string  `json:"name"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone"`
	TargetCountry string  `json:"target_country"`
	Course        string  `json:"course"`
	AnnualTuition float64 `json:"annual_tuition" validate:"gte=0"`
	BranchID      string  `json:"branch_id"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = clean(us.Name)
	us.Email = cleanLower(us.Email)
	us.TargetCountry = clean(us.TargetCountry)
	return validate.Struct(us)
}

// QueryFilter applies AND operation on available fields.
// Search does a case-insensitive match on Name, Email or Phone.
type QueryFilter struct {
	Search      string
	Status      ApplicationStatus
	BranchID    string
	PartnerID   string
	CreatedFrom time.Time
	CreatedTo   time.Time
}

var (
	appStatusTag  = "appstatus"
	appStatusText = "invalid application status"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(appStatusTag, appStatusValidation)
	registerTranslation(validate, translator, appStatusTag, appStatusText)
}

func appStatusValidation(fl validator.FieldLevel) bool {
	return ValidStatus(ApplicationStatus(fl.Field().String()))
}
