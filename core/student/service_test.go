package student

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/partner"
)

var testTenant = core.Tenant{AgencyID: "agency1", UserID: "u1"}

func setupService(partners map[string]partner.Partner) (*Service, *memRepo, *recordingAutomation, *recordingAudit) {
	repo := newMemRepo()
	automation := &recordingAutomation{}
	audit := &recordingAudit{}
	svc := NewService(repo, &memPartnerDirectory{partners: partners}, automation, audit, core.NopLogger{})
	return svc, repo, automation, audit
}

func createStudent(t *testing.T, svc *Service, st Student) Student {
	t.Helper()
	created, err := svc.repo.CreateStudent(context.Background(), testTenant, st)
	require.NoError(t, err)
	return created
}

func TestService_CreateLead(t *testing.T) {
	svc, _, _, audit := setupService(nil)

	st, err := svc.CreateLead(context.Background(), testTenant, NewStudent{
		Name:          "Ravi Kumar",
		Email:         "ravi@test.cd",
		TargetCountry: "Australia",
		AnnualTuition: 500000,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, st.ID)
	assert.Equal(t, StatusLead, st.Status)
	assert.Equal(t, NocPending, st.NocStatus)
	assert.Equal(t, CommissionPending, st.CommissionStatus)
	assert.Equal(t, []string{"lead_captured"}, audit.actions)
}

func TestService_RequestTransition_invalidStatus(t *testing.T) {
	svc, _, automation, _ := setupService(nil)
	st := createStudent(t, svc, Student{Name: "Ravi", Status: StatusLead})

	_, err := svc.RequestTransition(context.Background(), testTenant, st.ID, "Enrolled", "")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, automation.runs)
}

func TestService_RequestTransition_notFound(t *testing.T) {
	svc, _, _, _ := setupService(nil)

	_, err := svc.RequestTransition(context.Background(), testTenant, "nope", StatusApplied, "")
	assert.Equal(t, ErrNotFound, err)
}

func TestService_RequestTransition_partnerGateSuspends(t *testing.T) {
	svc, repo, automation, audit := setupService(nil)
	st := createStudent(t, svc, Student{Name: "Ravi", Status: StatusLead})

	res, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusApplied, "")
	require.NoError(t, err)

	// suspended, not an error; the student is untouched and no rules ran
	assert.True(t, res.Suspended)
	assert.Equal(t, StatusLead, res.Student.Status)

	stored, err := repo.GetStudent(context.Background(), testTenant, st.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusLead, stored.Status)
	assert.Empty(t, automation.runs)
	assert.Empty(t, audit.actions)
}

func TestService_RequestTransition_inlinePartnerBindsAndSnapshots(t *testing.T) {
	partners := map[string]partner.Partner{
		"p1": {ID: "p1", Name: "Global Uni Co", CommissionRate: 15},
	}
	svc, _, automation, audit := setupService(partners)
	st := createStudent(t, svc, Student{
		Name:          "Ravi",
		TargetCountry: "Australia",
		AnnualTuition: 500000,
		Status:        StatusLead,
	})

	res, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusApplied, "p1")
	require.NoError(t, err)
	require.False(t, res.Suspended)

	assert.Equal(t, StatusApplied, res.Student.Status)
	assert.Equal(t, "p1", res.Student.AssignedPartnerID)
	assert.Equal(t, "Global Uni Co", res.Student.AssignedPartnerName)
	assert.Equal(t, float64(75000), res.Student.CommissionAmount) // 500000 * 15%
	assert.Equal(t, []ApplicationStatus{StatusApplied}, automation.runs)
	assert.Equal(t, []string{"status_changed"}, audit.actions)
}

func TestService_RequestTransition_snapshotNotRecomputed(t *testing.T) {
	partners := map[string]partner.Partner{
		"p1": {ID: "p1", Name: "Global Uni Co", CommissionRate: 15},
	}
	svc, repo, _, _ := setupService(partners)
	st := createStudent(t, svc, Student{
		Name:          "Ravi",
		AnnualTuition: 500000,
		Status:        StatusLead,
	})

	res, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusApplied, "p1")
	require.NoError(t, err)
	assert.Equal(t, float64(75000), res.Student.CommissionAmount)

	// tuition changes later; the snapshot must not move
	stored, _ := repo.GetStudent(context.Background(), testTenant, st.ID)
	stored.AnnualTuition = 900000
	_, err = repo.UpdateStudent(context.Background(), testTenant, stored)
	require.NoError(t, err)

	res, err = svc.RequestTransition(context.Background(), testTenant, st.ID, StatusOfferReceived, "")
	require.NoError(t, err)
	assert.Equal(t, float64(75000), res.Student.CommissionAmount)
}

func TestService_RequestTransition_visaGrantedResetsCommission(t *testing.T) {
	svc, _, automation, _ := setupService(nil)
	st := createStudent(t, svc, Student{
		Name:              "Ravi",
		Status:            StatusOfferReceived,
		AssignedPartnerID: "p1",
		CommissionStatus:  CommissionReceived,
	})

	res, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusVisaGranted, "")
	require.NoError(t, err)
	require.False(t, res.Suspended)

	// unconditional reset, even from Received
	assert.Equal(t, CommissionPending, res.Student.CommissionStatus)
	assert.Equal(t, []ApplicationStatus{StatusVisaGranted}, automation.runs)
}

func TestService_RequestTransition_visaGrantedHook(t *testing.T) {
	svc, _, _, _ := setupService(nil)
	st := createStudent(t, svc, Student{
		Name:              "Ravi",
		Status:            StatusOfferReceived,
		AssignedPartnerID: "p1",
	})

	var hooked []Student
	svc.OnVisaGranted(func(s Student) { hooked = append(hooked, s) })

	_, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusVisaGranted, "")
	require.NoError(t, err)
	require.Len(t, hooked, 1)
	assert.Equal(t, StatusVisaGranted, hooked[0].Status)

	// hook only fires on VisaGranted
	_, err = svc.RequestTransition(context.Background(), testTenant, st.ID, StatusAlumni, "")
	require.NoError(t, err)
	assert.Len(t, hooked, 1)
}

func TestService_RequestTransition_ungatedNeedsNoPartner(t *testing.T) {
	svc, _, automation, _ := setupService(nil)
	st := createStudent(t, svc, Student{Name: "Ravi", Status: StatusApplied})

	res, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusOfferReceived, "")
	require.NoError(t, err)
	assert.False(t, res.Suspended)
	assert.Equal(t, StatusOfferReceived, res.Student.Status)
	assert.Equal(t, []ApplicationStatus{StatusOfferReceived}, automation.runs)
}

func TestService_RequestTransition_gateSatisfiedByBoundPartner(t *testing.T) {
	svc, _, _, _ := setupService(nil)
	st := createStudent(t, svc, Student{
		Name:              "Ravi",
		Status:            StatusLead,
		AssignedPartnerID: "p1",
	})

	res, err := svc.RequestTransition(context.Background(), testTenant, st.ID, StatusApplied, "")
	require.NoError(t, err)
	assert.False(t, res.Suspended)
	assert.Equal(t, StatusApplied, res.Student.Status)
}

func TestService_UpdateNocStatus(t *testing.T) {
	svc, _, _, audit := setupService(nil)
	st := createStudent(t, svc, Student{Name: "Ravi", Status: StatusLead, NocStatus: NocPending})

	updated, err := svc.UpdateNocStatus(context.Background(), testTenant, st.ID, NocApproved)
	require.NoError(t, err)
	assert.Equal(t, NocApproved, updated.NocStatus)
	assert.Contains(t, audit.actions, "noc_updated")
}

func TestService_UpdateCommissionStatus(t *testing.T) {
	svc, _, _, audit := setupService(nil)
	st := createStudent(t, svc, Student{Name: "Ravi", Status: StatusVisaGranted, CommissionStatus: CommissionPending})

	updated, err := svc.UpdateCommissionStatus(context.Background(), testTenant, st.ID, CommissionClaimed)
	require.NoError(t, err)
	assert.Equal(t, CommissionClaimed, updated.CommissionStatus)
	assert.Contains(t, audit.actions, "commission_updated")
}

func TestService_tenantIsolation(t *testing.T) {
	svc, _, _, _ := setupService(nil)
	st := createStudent(t, svc, Student{Name: "Ravi", Status: StatusLead})

	otherTenant := core.Tenant{AgencyID: "agency2", UserID: "u9"}
	_, err := svc.Get(context.Background(), otherTenant, st.ID)
	assert.Equal(t, ErrNotFound, err)
}
