package student

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/partner"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, tenant core.Tenant, st Student) (Student, error)
		GetStudent(ctx context.Context, tenant core.Tenant, id string) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		QueryStudents(ctx context.Context, tenant core.Tenant, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, tenant core.Tenant, st Student) (Student, error)
	}

	// PartnerDirectory resolves a partner when one is bound inline during a
	// gated transition.
	PartnerDirectory interface {
		GetPartner(ctx context.Context, tenant core.Tenant, id string) (partner.Partner, error)
	}

	// Automation reacts to a committed status transition. It is best-effort:
	// implementations log their own failures and never block the transition.
	Automation interface {
		Run(ctx context.Context, tenant core.Tenant, st Student, newStatus ApplicationStatus)
	}

	// ActivityLogger records audit entries, fire-and-forget.
	ActivityLogger interface {
		Log(ctx context.Context, tenant core.Tenant, action, entityType, details string)
	}

	Service struct {
		repo          Repository
		partners      PartnerDirectory
		automation    Automation
		audit         ActivityLogger
		logger        core.Logger
		onVisaGranted func(Student)
	}
)

func NewService(repo Repository, partners PartnerDirectory, automation Automation, audit ActivityLogger, logger core.Logger) *Service {
	return &Service{
		repo:       repo,
		partners:   partners,
		automation: automation,
		audit:      audit,
		logger:     logger,
	}
}

// OnVisaGranted registers a hook fired after a transition into VisaGranted
// commits (celebration signal, notification email...).
func (svc *Service) OnVisaGranted(fn func(Student)) { svc.onVisaGranted = fn }

// CreateLead captures a new lead; all students enter the pipeline in Lead.
func (svc *Service) CreateLead(ctx context.Context, tenant core.Tenant, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	st := Student{
		Name:             ns.Name,
		Email:            ns.Email,
		Phone:            ns.Phone,
		TargetCountry:    ns.TargetCountry,
		Course:           ns.Course,
		AnnualTuition:    ns.AnnualTuition,
		Status:           StatusLead,
		NocStatus:        NocPending,
		CommissionStatus: CommissionPending,
		Source:           ns.Source,
		BranchID:         ns.BranchID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	st, err := svc.repo.CreateStudent(ctx, tenant, st)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	svc.audit.Log(ctx, tenant, "lead_captured", "student", st.Name)
	return st, nil
}

func (svc *Service) Get(ctx context.Context, tenant core.Tenant, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, tenant, id)
}

func (svc *Service) Query(ctx context.Context, tenant core.Tenant, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, tenant, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, tenant core.Tenant, id string, us UpdateStudent) (Student, error) {
	st, err := svc.repo.GetStudent(ctx, tenant, id)
	if err != nil {
		return Student{}, err
	}
	st.Name = us.Name
	st.Email = us.Email
	st.Phone = us.Phone
	st.TargetCountry = us.TargetCountry
	st.Course = us.Course
	st.AnnualTuition = us.AnnualTuition
	st.BranchID = us.BranchID
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, tenant, st)
}

func (svc *Service) UpdateNocStatus(ctx context.Context, tenant core.Tenant, id string, noc NocStatus) (Student, error) {
	st, err := svc.repo.GetStudent(ctx, tenant, id)
	if err != nil {
		return Student{}, err
	}
	st.NocStatus = noc
	st.UpdatedAt = time.Now().UTC()
	st, err = svc.repo.UpdateStudent(ctx, tenant, st)
	if err != nil {
		return Student{}, err
	}
	svc.audit.Log(ctx, tenant, "noc_updated", "student", fmt.Sprintf("%s -> %s", st.Name, noc))
	return st, nil
}

func (svc *Service) UpdateCommissionStatus(ctx context.Context, tenant core.Tenant, id string, cs CommissionStatus) (Student, error) {
	st, err := svc.repo.GetStudent(ctx, tenant, id)
	if err != nil {
		return Student{}, err
	}
	st.CommissionStatus = cs
	st.UpdatedAt = time.Now().UTC()
	st, err = svc.repo.UpdateStudent(ctx, tenant, st)
	if err != nil {
		return Student{}, err
	}
	svc.audit.Log(ctx, tenant, "commission_updated", "student", fmt.Sprintf("%s -> %s", st.Name, cs))
	return st, nil
}

// TransitionResult is the outcome of a transition request. Suspended means
// the partner gate held the move: the caller must re-submit with a partner
// before the transition can commit. It is required input, not an error.
type TransitionResult struct {
	Student   Student `json:"student"`
	Suspended bool    `json:"suspended"`
}

// RequestTransition moves a student to target. If target is partner-gated and
// the student has no partner bound (and none is supplied inline), the request
// is suspended and the student is untouched. On commit the automation engine
// runs synchronously before returning.
func (svc *Service) RequestTransition(ctx context.Context, tenant core.Tenant, id string, target ApplicationStatus, partnerID string) (TransitionResult, error) {
	if !ValidStatus(target) {
		return TransitionResult{}, core.NewValidationError(
			errors.New("invalid status"),
			core.FieldError{Field: "target_status", Error: appStatusText},
		)
	}

	st, err := svc.repo.GetStudent(ctx, tenant, id)
	if err != nil {
		return TransitionResult{}, err
	}

	if !CanTransition(st.Status, target) {
		return TransitionResult{}, core.NewValidationError(
			errors.Errorf("transition %s -> %s not allowed", st.Status, target),
			core.FieldError{Field: "target_status", Error: "transition not allowed"},
		)
	}

	// partner gate
	if RequiresPartner(target) && st.AssignedPartnerID == "" && partnerID == "" {
		return TransitionResult{Student: st, Suspended: true}, nil
	}

	if partnerID != "" {
		p, err := svc.partners.GetPartner(ctx, tenant, partnerID)
		if err != nil {
			return TransitionResult{}, errors.Wrap(err, "resolving partner")
		}
		st.AssignedPartnerID = p.ID
		st.AssignedPartnerName = p.Name
		// snapshot; never recomputed when tuition or rate change later
		st.CommissionAmount = st.AnnualTuition * p.CommissionRate / 100
	}

	prev := st.Status
	st.Status = target
	if target == StatusVisaGranted {
		// unconditional reset, regardless of prior value
		st.CommissionStatus = CommissionPending
	}
	st.UpdatedAt = time.Now().UTC()

	st, err = svc.repo.UpdateStudent(ctx, tenant, st)
	if err != nil {
		return TransitionResult{}, errors.Wrap(err, "persisting transition")
	}

	svc.audit.Log(ctx, tenant, "status_changed", "student", fmt.Sprintf("%s: %s -> %s", st.Name, prev, target))

	// reactive rules run synchronously; their failures are logged by the
	// engine and never roll back the committed transition
	svc.automation.Run(ctx, tenant, st, target)

	if target == StatusVisaGranted && svc.onVisaGranted != nil {
		svc.onVisaGranted(st)
	}

	return TransitionResult{Student: st}, nil
}
