package partner

import (
	"context"
	"time"

	"github.com/uniwayhq/uniway/core"
)

type (
	Repository interface {
		CreatePartner(ctx context.Context, tenant core.Tenant, p Partner) (Partner, error)
		GetPartner(ctx context.Context, tenant core.Tenant, id string) (Partner, error)
		QueryAllPartners(ctx context.Context, tenant core.Tenant) ([]Partner, error)
		UpdatePartner(ctx context.Context, tenant core.Tenant, p Partner) (Partner, error)
		DeletePartner(ctx context.Context, tenant core.Tenant, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, tenant core.Tenant, np NewPartner) (Partner, error) {
	now := time.Now().UTC()
	p := Partner{
		Name:           np.Name,
		Type:           np.Type,
		Country:        np.Country,
		ContactEmail:   np.ContactEmail,
		CommissionRate: np.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreatePartner(ctx, tenant, p)
}

func (svc *Service) Get(ctx context.Context, tenant core.Tenant, id string) (Partner, error) {
	return svc.repo.GetPartner(ctx, tenant, id)
}

// GetPartner satisfies student.PartnerDirectory.
func (svc *Service) GetPartner(ctx context.Context, tenant core.Tenant, id string) (Partner, error) {
	return svc.repo.GetPartner(ctx, tenant, id)
}

func (svc *Service) QueryAll(ctx context.Context, tenant core.Tenant) ([]Partner, error) {
	return svc.repo.QueryAllPartners(ctx, tenant)
}

func (svc *Service) Update(ctx context.Context, tenant core.Tenant, id string, up UpdatePartner) (Partner, error) {
	p, err := svc.repo.GetPartner(ctx, tenant, id)
	if err != nil {
		return Partner{}, err
	}
	p.Name = up.Name
	if up.Type != "" {
		p.Type = up.Type
	}
	p.Country = up.Country
	p.ContactEmail = up.ContactEmail
	p.CommissionRate = up.CommissionRate
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePartner(ctx, tenant, p)
}

func (svc *Service) Delete(ctx context.Context, tenant core.Tenant, id string) error {
	return svc.repo.DeletePartner(ctx, tenant, id)
}
