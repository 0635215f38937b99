package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) scope(tenant core.Tenant) map[string]*student.Student {
	tbl, ok := repo.db.table[tenant.AgencyID]
	if !ok {
		tbl = make(map[string]*student.Student)
		repo.db.table[tenant.AgencyID] = tbl
	}
	return tbl
}

func (repo *studentRepository) CreateStudent(_ context.Context, tenant core.Tenant, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.ID = uuid.New().String()
	repo.scope(tenant)[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, tenant core.Tenant, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[tenant.AgencyID][id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, tenant core.Tenant, filter *student.QueryFilter, _ []core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.table[tenant.AgencyID]))
	for _, st := range repo.db.table[tenant.AgencyID] {
		if matchStudent(*st, filter) {
			students = append(students, *st)
		}
	}
	return students, nil
}

func matchStudent(st student.Student, filter *student.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Search != "" {
		s := strings.ToLower(filter.Search)
		if !(strings.Contains(strings.ToLower(st.Name), s) ||
			strings.Contains(strings.ToLower(st.Email), s) ||
			strings.Contains(st.Phone, s)) {
			return false
		}
	}
	if filter.Status != "" && st.Status != filter.Status {
		return false
	}
	if filter.BranchID != "" && st.BranchID != filter.BranchID {
		return false
	}
	if filter.PartnerID != "" && st.AssignedPartnerID != filter.PartnerID {
		return false
	}
	if !filter.CreatedFrom.IsZero() && st.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && st.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func (repo *studentRepository) UpdateStudent(_ context.Context, tenant core.Tenant, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tenant.AgencyID][st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[tenant.AgencyID][st.ID] = &st
	return st, nil
}
