package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/invoice"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/task"
)

var NowFunc = time.Now // mockable

type (
	// ActivityLogger records audit entries, fire-and-forget.
	ActivityLogger interface {
		Log(ctx context.Context, tenant core.Tenant, action, entityType, details string)
	}

	// Engine persists what Plan decides. Task creation and invoice creation
	// are independent side effects with no transactional grouping.
	Engine struct {
		tasks    task.Repository
		invoices invoice.Repository
		audit    ActivityLogger
		logger   core.Logger
	}

	// Result reports what a run actually created.
	Result struct {
		Tasks   []task.Task
		Invoice *invoice.Invoice
	}
)

var _ student.Automation = (*Engine)(nil)

func NewEngine(tasks task.Repository, invoices invoice.Repository, audit ActivityLogger, logger core.Logger) *Engine {
	return &Engine{
		tasks:    tasks,
		invoices: invoices,
		audit:    audit,
		logger:   logger,
	}
}

// Run satisfies student.Automation: best-effort, failures logged, the
// committed transition is never rolled back.
func (e *Engine) Run(ctx context.Context, tenant core.Tenant, st student.Student, newStatus student.ApplicationStatus) {
	e.RunDetailed(ctx, tenant, st, newStatus)
}

// RunDetailed evaluates the rule table for a committed transition and
// persists the outcome. Tasks carry no de-duplication guard: re-running for
// the same transition creates them again. The success-fee invoice is guarded
// by scanning the student's existing invoices for the "Visa Success" marker.
func (e *Engine) RunDetailed(ctx context.Context, tenant core.Tenant, st student.Student, newStatus student.ApplicationStatus) Result {
	var res Result
	now := NowFunc().UTC()

	intents, invIntent := Plan(st, newStatus, now)

	for _, in := range intents {
		t := task.Task{
			Text:      in.Text,
			Priority:  in.Priority,
			DueTime:   in.DueTime,
			Day:       in.Day,
			CreatedAt: now,
		}
		created, err := e.tasks.CreateTask(ctx, tenant, t)
		if err != nil {
			e.logger.Error(fmt.Sprintf("automation: creating task %q: %v", in.Text, err), err)
			continue
		}
		res.Tasks = append(res.Tasks, created)
		e.audit.Log(ctx, tenant, "task_created", "task", created.Text)
	}

	if invIntent != nil {
		if inv, created := e.createSuccessFeeInvoice(ctx, tenant, st, *invIntent, now); created {
			res.Invoice = &inv
			e.audit.Log(ctx, tenant, "invoice_created", "invoice", inv.Description)
		}
	}

	return res
}

func (e *Engine) createSuccessFeeInvoice(ctx context.Context, tenant core.Tenant, st student.Student, in InvoiceIntent, now time.Time) (invoice.Invoice, bool) {
	existing, err := e.invoices.QueryInvoices(ctx, tenant, &invoice.QueryFilter{StudentID: st.ID})
	if err != nil {
		e.logger.Error(fmt.Sprintf("automation: checking existing invoices for student %s: %v", st.ID, err), err)
		return invoice.Invoice{}, false
	}
	for _, inv := range existing {
		if strings.Contains(inv.Description, visaSuccessMarker) {
			return invoice.Invoice{}, false // already billed
		}
	}

	inv := invoice.Invoice{
		InvoiceNumber: invoice.NewNumber(now),
		StudentID:     st.ID,
		Amount:        in.Amount,
		Description:   in.Description,
		Status:        in.Status,
		Date:          now,
		CreatedAt:     now,
	}
	inv, err = e.invoices.CreateInvoice(ctx, tenant, inv)
	if err != nil {
		// tasks already created above stay; no rollback
		e.logger.Error(fmt.Sprintf("automation: creating success fee invoice for student %s: %v", st.ID, err), err)
		return invoice.Invoice{}, false
	}
	return inv, true
}
