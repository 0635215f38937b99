package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/partner"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/user"
)

func TestStudentAPI_createLead(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)

	rec := env.do(t, http.MethodPost, "/v1/students", token, student.NewStudent{
		Name:          "Ravi Kumar",
		Email:         "ravi@test.cd",
		TargetCountry: "Australia",
		AnnualTuition: 500000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var st student.Student
	decodeBody(t, rec, &st)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, student.StatusLead, st.Status)
	assert.Equal(t, student.NocPending, st.NocStatus)
	assert.Equal(t, student.CommissionPending, st.CommissionStatus)
}

func TestStudentAPI_createLeadValidation(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)

	rec := env.do(t, http.MethodPost, "/v1/students", token, student.NewStudent{TargetCountry: "Australia"})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var fldErrs map[string]string
	decodeBody(t, rec, &fldErrs)
	assert.Contains(t, fldErrs, "name")
}

func TestStudentAPI_transitionSuspended(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)
	st := env.createStudent(t, student.Student{Name: "Ravi", TargetCountry: "Australia", Status: student.StatusLead})

	rec := env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/transition", token,
		TransitionRequest{TargetStatus: student.StatusApplied})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res student.TransitionResult
	decodeBody(t, rec, &res)
	assert.True(t, res.Suspended)
	assert.Equal(t, student.StatusLead, res.Student.Status)

	// nothing committed, no tasks spawned
	stored, err := env.studentRepo.GetStudent(testCtx(), testTenant(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusLead, stored.Status)

	tasks, err := env.taskRepo.QueryAllTasks(testCtx(), testTenant())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestStudentAPI_transitionWithPartner(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)
	p := env.createPartner(t, partner.Partner{Name: "Global Uni Co", CommissionRate: 15})
	st := env.createStudent(t, student.Student{
		Name:          "Ravi",
		TargetCountry: "Australia",
		AnnualTuition: 500000,
		Status:        student.StatusLead,
	})

	rec := env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/transition", token,
		TransitionRequest{TargetStatus: student.StatusApplied, PartnerID: p.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res student.TransitionResult
	decodeBody(t, rec, &res)
	assert.False(t, res.Suspended)
	assert.Equal(t, student.StatusApplied, res.Student.Status)
	assert.Equal(t, p.ID, res.Student.AssignedPartnerID)
	assert.Equal(t, float64(75000), res.Student.CommissionAmount)

	// automation ran synchronously: follow-up task exists before we return
	tasks, err := env.taskRepo.QueryAllTasks(testCtx(), testTenant())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Check Offer Status: Ravi (Australia)", tasks[0].Text)
}

func TestStudentAPI_transitionVisaGrantedInvoices(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)
	st := env.createStudent(t, student.Student{
		Name:              "Ravi",
		TargetCountry:     "Australia",
		Status:            student.StatusOfferReceived,
		AssignedPartnerID: "p1",
		CommissionStatus:  student.CommissionReceived,
	})

	rec := env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/transition", token,
		TransitionRequest{TargetStatus: student.StatusVisaGranted})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res student.TransitionResult
	decodeBody(t, rec, &res)
	assert.Equal(t, student.StatusVisaGranted, res.Student.Status)
	assert.Equal(t, student.CommissionPending, res.Student.CommissionStatus)

	invoices, err := env.invoiceRepo.QueryInvoices(testCtx(), testTenant(), nil)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Visa Success Fee - Australia", invoices[0].Description)
	assert.Equal(t, float64(20000), invoices[0].Amount)
}

func TestStudentAPI_transitionInvalidStatus(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)
	st := env.createStudent(t, student.Student{Name: "Ravi", Status: student.StatusLead})

	rec := env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/transition", token,
		TransitionRequest{TargetStatus: "Enrolled"})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var fldErrs map[string]string
	decodeBody(t, rec, &fldErrs)
	assert.Contains(t, fldErrs, "target_status")
}

func TestStudentAPI_transitionNotFound(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)

	rec := env.do(t, http.MethodPut, "/v1/students/nope/transition", token,
		TransitionRequest{TargetStatus: student.StatusApplied})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestStudentAPI_updateNoc(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)
	st := env.createStudent(t, student.Student{Name: "Ravi", Status: student.StatusLead, NocStatus: student.NocPending})

	rec := env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/noc", token,
		NocUpdateRequest{NocStatus: student.NocApproved})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated student.Student
	decodeBody(t, rec, &updated)
	assert.Equal(t, student.NocApproved, updated.NocStatus)

	rec = env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/noc", token,
		NocUpdateRequest{NocStatus: "Maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestStudentAPI_updateCommissionRequiresAccountant(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	accountant := env.createUser(t, "Ann Accountant", "annaccount", "ann@test.cd", "LionelMessi10", user.AccountantRoles, true)
	st := env.createStudent(t, student.Student{Name: "Ravi", Status: student.StatusVisaGranted, CommissionStatus: student.CommissionPending})

	rec := env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/commission", env.getToken(t, counsellor),
		CommissionUpdateRequest{CommissionStatus: student.CommissionClaimed})
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/v1/students/"+st.ID+"/commission", env.getToken(t, accountant),
		CommissionUpdateRequest{CommissionStatus: student.CommissionClaimed})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated student.Student
	decodeBody(t, rec, &updated)
	assert.Equal(t, student.CommissionClaimed, updated.CommissionStatus)
}

func TestStudentAPI_query(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)
	env.createStudent(t, student.Student{Name: "Ravi", Status: student.StatusLead})
	env.createStudent(t, student.Student{Name: "Asha", Status: student.StatusApplied})

	rec := env.do(t, http.MethodGet, "/v1/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var students []student.Student
	decodeBody(t, rec, &students)
	assert.Len(t, students, 2)

	rec = env.do(t, http.MethodGet, "/v1/students?status=Applied", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "Asha", students[0].Name)
}
