package invoice

import (
	"context"
	"time"

	"github.com/uniwayhq/uniway/core"
)

type (
	// QueryFilter applies AND operation on available fields.
	QueryFilter struct {
		StudentID string
		Status    Status
	}

	Repository interface {
		CreateInvoice(ctx context.Context, tenant core.Tenant, inv Invoice) (Invoice, error)
		GetInvoice(ctx context.Context, tenant core.Tenant, id string) (Invoice, error)
		QueryInvoices(ctx context.Context, tenant core.Tenant, filter *QueryFilter) ([]Invoice, error)
		UpdateInvoice(ctx context.Context, tenant core.Tenant, inv Invoice) (Invoice, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create issues a counsellor-authored invoice.
func (svc *Service) Create(ctx context.Context, tenant core.Tenant, ni NewInvoice) (Invoice, error) {
	now := time.Now().UTC()
	inv := Invoice{
		InvoiceNumber: NewNumber(now),
		StudentID:     ni.StudentID,
		Amount:        ni.Amount,
		Description:   ni.Description,
		Status:        StatusPending,
		Date:          now,
		CreatedAt:     now,
	}
	return svc.repo.CreateInvoice(ctx, tenant, inv)
}

func (svc *Service) Get(ctx context.Context, tenant core.Tenant, id string) (Invoice, error) {
	return svc.repo.GetInvoice(ctx, tenant, id)
}

func (svc *Service) Query(ctx context.Context, tenant core.Tenant, filter *QueryFilter) ([]Invoice, error) {
	return svc.repo.QueryInvoices(ctx, tenant, filter)
}

func (svc *Service) MarkPaid(ctx context.Context, tenant core.Tenant, id string) (Invoice, error) {
	inv, err := svc.repo.GetInvoice(ctx, tenant, id)
	if err != nil {
		return Invoice{}, err
	}
	inv.Status = StatusPaid
	return svc.repo.UpdateInvoice(ctx, tenant, inv)
}
