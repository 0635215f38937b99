package inmemdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/activity"
)

func TestActivityRepository_cap(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewActivityRepository(db)
	ctx := context.Background()
	tenant := core.Tenant{AgencyID: "agency1", UserID: "u1"}

	for i := 0; i < activity.MaxEntries+20; i++ {
		_, err = repo.CreateActivity(ctx, tenant, activity.Activity{
			Action:  "status_changed",
			Details: fmt.Sprintf("entry %d", i),
		})
		require.NoError(t, err)
	}

	entries, err := repo.QueryActivities(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, entries, activity.MaxEntries)

	// most recent first, oldest 20 dropped
	assert.Equal(t, "entry 119", entries[0].Details)
	assert.Equal(t, "entry 20", entries[len(entries)-1].Details)
}

func TestActivityRepository_tenantIsolation(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	_, err = repo.CreateActivity(ctx, core.Tenant{AgencyID: "agency1"}, activity.Activity{Action: "lead_captured"})
	require.NoError(t, err)

	entries, err := repo.QueryActivities(ctx, core.Tenant{AgencyID: "agency2"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
