package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/activity"
)

type activityRepository struct {
	db *activityTable
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db.activities}
}

func (repo *activityRepository) CreateActivity(_ context.Context, tenant core.Tenant, act activity.Activity) (activity.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	act.ID = uuid.New().String()
	entries := append(repo.db.table[tenant.AgencyID], act)
	// keep only the most recent MaxEntries
	if excess := len(entries) - activity.MaxEntries; excess > 0 {
		entries = entries[excess:]
	}
	repo.db.table[tenant.AgencyID] = entries
	return act, nil
}

func (repo *activityRepository) QueryActivities(_ context.Context, tenant core.Tenant) ([]activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := repo.db.table[tenant.AgencyID]

	// most recent first
	activities := make([]activity.Activity, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		activities = append(activities, entries[i])
	}
	return activities, nil
}
