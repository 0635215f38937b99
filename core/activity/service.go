package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/uniwayhq/uniway/core"
)

type (
	Repository interface {
		// CreateActivity appends an entry and drops the oldest ones beyond
		// MaxEntries.
		CreateActivity(ctx context.Context, tenant core.Tenant, act Activity) (Activity, error)
		// QueryActivities returns entries, most recent first.
		QueryActivities(ctx context.Context, tenant core.Tenant) ([]Activity, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an audit entry. Best-effort: failures are logged, never
// propagated to the caller.
func (svc *Service) Log(ctx context.Context, tenant core.Tenant, action, entityType, details string) {
	act := Activity{
		Action:     action,
		EntityType: entityType,
		Details:    details,
		UserID:     tenant.UserID,
		Timestamp:  time.Now().UTC(),
	}
	if _, err := svc.repo.CreateActivity(ctx, tenant, act); err != nil {
		svc.logger.Error(fmt.Sprintf("recording activity %q: %v", action, err), err)
	}
}

func (svc *Service) Query(ctx context.Context, tenant core.Tenant) ([]Activity, error) {
	return svc.repo.QueryActivities(ctx, tenant)
}
