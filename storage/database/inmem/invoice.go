package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/invoice"
)

type invoiceRepository struct {
	db *invoiceTable
}

var _ invoice.Repository = (*invoiceRepository)(nil)

func NewInvoiceRepository(db *DB) *invoiceRepository {
	return &invoiceRepository{db: db.invoices}
}

func (repo *invoiceRepository) scope(tenant core.Tenant) map[string]*invoice.Invoice {
	tbl, ok := repo.db.table[tenant.AgencyID]
	if !ok {
		tbl = make(map[string]*invoice.Invoice)
		repo.db.table[tenant.AgencyID] = tbl
	}
	return tbl
}

func (repo *invoiceRepository) CreateInvoice(_ context.Context, tenant core.Tenant, inv invoice.Invoice) (invoice.Invoice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	inv.ID = uuid.New().String()
	repo.scope(tenant)[inv.ID] = &inv
	return inv, nil
}

func (repo *invoiceRepository) GetInvoice(_ context.Context, tenant core.Tenant, id string) (invoice.Invoice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if inv, ok := repo.db.table[tenant.AgencyID][id]; ok {
		return *inv, nil
	}
	return invoice.Invoice{}, invoice.ErrNotFound
}

func (repo *invoiceRepository) QueryInvoices(_ context.Context, tenant core.Tenant, filter *invoice.QueryFilter) ([]invoice.Invoice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	invoices := make([]invoice.Invoice, 0, len(repo.db.table[tenant.AgencyID]))
	for _, inv := range repo.db.table[tenant.AgencyID] {
		if matchInvoice(*inv, filter) {
			invoices = append(invoices, *inv)
		}
	}
	return invoices, nil
}

func matchInvoice(inv invoice.Invoice, filter *invoice.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.StudentID != "" && inv.StudentID != filter.StudentID {
		return false
	}
	if filter.Status != "" && inv.Status != filter.Status {
		return false
	}
	return true
}

func (repo *invoiceRepository) UpdateInvoice(_ context.Context, tenant core.Tenant, inv invoice.Invoice) (invoice.Invoice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tenant.AgencyID][inv.ID]; !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	repo.db.table[tenant.AgencyID][inv.ID] = &inv
	return inv, nil
}
