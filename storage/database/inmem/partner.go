package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/partner"
)

type partnerRepository struct {
	db *partnerTable
}

var _ partner.Repository = (*partnerRepository)(nil)

func NewPartnerRepository(db *DB) *partnerRepository {
	return &partnerRepository{db: db.partners}
}

func (repo *partnerRepository) scope(tenant core.Tenant) map[string]*partner.Partner {
	tbl, ok := repo.db.table[tenant.AgencyID]
	if !ok {
		tbl = make(map[string]*partner.Partner)
		repo.db.table[tenant.AgencyID] = tbl
	}
	return tbl
}

func (repo *partnerRepository) CreatePartner(_ context.Context, tenant core.Tenant, p partner.Partner) (partner.Partner, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.New().String()
	repo.scope(tenant)[p.ID] = &p
	return p, nil
}

func (repo *partnerRepository) GetPartner(_ context.Context, tenant core.Tenant, id string) (partner.Partner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[tenant.AgencyID][id]; ok {
		return *p, nil
	}
	return partner.Partner{}, partner.ErrNotFound
}

func (repo *partnerRepository) QueryAllPartners(_ context.Context, tenant core.Tenant) ([]partner.Partner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	partners := make([]partner.Partner, 0, len(repo.db.table[tenant.AgencyID]))
	for _, p := range repo.db.table[tenant.AgencyID] {
		partners = append(partners, *p)
	}
	return partners, nil
}

func (repo *partnerRepository) UpdatePartner(_ context.Context, tenant core.Tenant, p partner.Partner) (partner.Partner, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tenant.AgencyID][p.ID]; !ok {
		return partner.Partner{}, partner.ErrNotFound
	}
	repo.db.table[tenant.AgencyID][p.ID] = &p
	return p, nil
}

func (repo *partnerRepository) DeletePartner(_ context.Context, tenant core.Tenant, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table[tenant.AgencyID], id)
	return nil
}
