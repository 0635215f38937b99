package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/task"
)

type taskRepository struct {
	db *taskTable
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *DB) *taskRepository {
	return &taskRepository{db: db.tasks}
}

func (repo *taskRepository) scope(tenant core.Tenant) map[string]*task.Task {
	tbl, ok := repo.db.table[tenant.AgencyID]
	if !ok {
		tbl = make(map[string]*task.Task)
		repo.db.table[tenant.AgencyID] = tbl
	}
	return tbl
}

func (repo *taskRepository) CreateTask(_ context.Context, tenant core.Tenant, t task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = uuid.New().String()
	repo.scope(tenant)[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) GetTask(_ context.Context, tenant core.Tenant, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[tenant.AgencyID][id]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryAllTasks(_ context.Context, tenant core.Tenant) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := make([]task.Task, 0, len(repo.db.table[tenant.AgencyID]))
	for _, t := range repo.db.table[tenant.AgencyID] {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(_ context.Context, tenant core.Tenant, t task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tenant.AgencyID][t.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.table[tenant.AgencyID][t.ID] = &t
	return t, nil
}

func (repo *taskRepository) DeleteTask(_ context.Context, tenant core.Tenant, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table[tenant.AgencyID], id)
	return nil
}
