package invoice

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// errors
	ErrNotFound = errors.New("invoice not found")
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

type Invoice struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	StudentID     string    `json:"student_id"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

type NewInvoice struct {
	StudentID   string  `json:"student_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
}

func (ni *NewInvoice) Validate(validate *validator.Validate) error {
	return validate.Struct(ni)
}

// NewNumber generates an invoice number for the given date. The 4-digit
// suffix is random; numbers are not guaranteed globally unique beyond it.
func NewNumber(date time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", date.Format("20060102"), rand.Intn(10000))
}
