package task

import (
	"context"
	"time"

	"github.com/uniwayhq/uniway/core"
)

type (
	Repository interface {
		CreateTask(ctx context.Context, tenant core.Tenant, t Task) (Task, error)
		GetTask(ctx context.Context, tenant core.Tenant, id string) (Task, error)
		QueryAllTasks(ctx context.Context, tenant core.Tenant) ([]Task, error)
		UpdateTask(ctx context.Context, tenant core.Tenant, t Task) (Task, error)
		DeleteTask(ctx context.Context, tenant core.Tenant, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, tenant core.Tenant, nt NewTask) (Task, error) {
	t := Task{
		Text:      nt.Text,
		Priority:  nt.Priority,
		DueTime:   nt.DueTime,
		Day:       nt.Day,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateTask(ctx, tenant, t)
}

func (svc *Service) QueryAll(ctx context.Context, tenant core.Tenant) ([]Task, error) {
	return svc.repo.QueryAllTasks(ctx, tenant)
}

// Toggle flips a task's completed flag.
func (svc *Service) Toggle(ctx context.Context, tenant core.Tenant, id string) (Task, error) {
	t, err := svc.repo.GetTask(ctx, tenant, id)
	if err != nil {
		return Task{}, err
	}
	t.Completed = !t.Completed
	return svc.repo.UpdateTask(ctx, tenant, t)
}

func (svc *Service) Delete(ctx context.Context, tenant core.Tenant, id string) error {
	return svc.repo.DeleteTask(ctx, tenant, id)
}
