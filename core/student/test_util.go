package student

import (
	"context"
	"fmt"
	"sync"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/partner"
)

// memRepo is an in-memory Repository for tests.
type memRepo struct {
	mu    sync.Mutex
	seq   int
	table map[string]map[string]*Student // {agencyID: {id: record}}
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{table: make(map[string]map[string]*Student)}
}

func (repo *memRepo) scope(tenant core.Tenant) map[string]*Student {
	tbl, ok := repo.table[tenant.AgencyID]
	if !ok {
		tbl = make(map[string]*Student)
		repo.table[tenant.AgencyID] = tbl
	}
	return tbl
}

func (repo *memRepo) CreateStudent(_ context.Context, tenant core.Tenant, st Student) (Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.seq++
	st.ID = fmt.Sprintf("s%d", repo.seq)
	repo.scope(tenant)[st.ID] = &st
	return st, nil
}

func (repo *memRepo) GetStudent(_ context.Context, tenant core.Tenant, id string) (Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if st, ok := repo.table[tenant.AgencyID][id]; ok {
		return *st, nil
	}
	return Student{}, ErrNotFound
}

func (repo *memRepo) QueryStudents(_ context.Context, tenant core.Tenant, _ *QueryFilter, _ []core.DBOrdering) ([]Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	students := make([]Student, 0, len(repo.table[tenant.AgencyID]))
	for _, st := range repo.table[tenant.AgencyID] {
		students = append(students, *st)
	}
	return students, nil
}

func (repo *memRepo) UpdateStudent(_ context.Context, tenant core.Tenant, st Student) (Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.table[tenant.AgencyID][st.ID]; !ok {
		return Student{}, ErrNotFound
	}
	repo.table[tenant.AgencyID][st.ID] = &st
	return st, nil
}

// memPartnerDirectory resolves partners from a fixed map.
type memPartnerDirectory struct {
	partners map[string]partner.Partner
}

var _ PartnerDirectory = (*memPartnerDirectory)(nil)

func (d *memPartnerDirectory) GetPartner(_ context.Context, _ core.Tenant, id string) (partner.Partner, error) {
	if p, ok := d.partners[id]; ok {
		return p, nil
	}
	return partner.Partner{}, partner.ErrNotFound
}

// recordingAutomation records each committed transition it is invoked for.
type recordingAutomation struct {
	runs []ApplicationStatus
}

var _ Automation = (*recordingAutomation)(nil)

func (a *recordingAutomation) Run(_ context.Context, _ core.Tenant, _ Student, newStatus ApplicationStatus) {
	a.runs = append(a.runs, newStatus)
}

// recordingAudit records logged actions.
type recordingAudit struct {
	actions []string
}

var _ ActivityLogger = (*recordingAudit)(nil)

func (a *recordingAudit) Log(_ context.Context, _ core.Tenant, action, _, _ string) {
	a.actions = append(a.actions, action)
}
