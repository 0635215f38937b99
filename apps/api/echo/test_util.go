package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/activity"
	"github.com/uniwayhq/uniway/core/invoice"
	"github.com/uniwayhq/uniway/core/partner"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/task"
	"github.com/uniwayhq/uniway/core/user"
	"github.com/uniwayhq/uniway/core/workflow"
	emailsvc "github.com/uniwayhq/uniway/services/email"
	inmemdb "github.com/uniwayhq/uniway/storage/database/inmem"
)

const testAgencyID = "agency1"

type testEnv struct {
	conf   *core.Config
	server *Server

	usrRepo     user.Repository
	studentRepo student.Repository
	partnerRepo partner.Repository
	taskRepo    task.Repository
	invoiceRepo invoice.Repository
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	conf := newTestConfig()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	env := &testEnv{
		conf:        conf,
		usrRepo:     inmemdb.NewUserRepository(db),
		studentRepo: inmemdb.NewStudentRepository(db),
		partnerRepo: inmemdb.NewPartnerRepository(db),
		taskRepo:    inmemdb.NewTaskRepository(db),
		invoiceRepo: inmemdb.NewInvoiceRepository(db),
	}

	logger := core.NopLogger{}
	activitySvc := activity.NewService(inmemdb.NewActivityRepository(db), logger)
	partnerSvc := partner.NewService(env.partnerRepo)
	taskSvc := task.NewService(env.taskRepo)
	invoiceSvc := invoice.NewService(env.invoiceRepo)
	usrSvc := user.NewService(env.usrRepo, emailsvc.NewConsoleServiceMock(conf), conf)

	engine := workflow.NewEngine(env.taskRepo, env.invoiceRepo, activitySvc, logger)
	studentSvc := student.NewService(env.studentRepo, partnerSvc, engine, activitySvc, logger)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	env.server = NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		StudentSvc:  studentSvc,
		PartnerSvc:  partnerSvc,
		TaskSvc:     taskSvc,
		InvoiceSvc:  invoiceSvc,
		ActivitySvc: activitySvc,
		Validate:    validate,
		Translator:  translator,
	})
	return env
}

func newTestConfig() *core.Config {
	return &core.Config{
		AppName:                   "Uniway",
		Env:                       "TEST",
		TestMode:                  true,
		SecretKey:                 []byte("secret"),
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmail:          mail.Address{Name: "Uniway", Address: "noreply@localhost"},
		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: 4 * time.Hour,
		PasswordResetTimeoutDelta: time.Hour,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (env *testEnv) createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd))
	}
	usr, err := env.usrRepo.CreateUser(testCtx(), testTenant(), usr)
	require.NoError(t, err)
	return usr
}

func (env *testEnv) createStudent(t *testing.T, st student.Student) student.Student {
	t.Helper()

	st, err := env.studentRepo.CreateStudent(testCtx(), testTenant(), st)
	require.NoError(t, err)
	return st
}

func (env *testEnv) createPartner(t *testing.T, p partner.Partner) partner.Partner {
	t.Helper()

	p, err := env.partnerRepo.CreatePartner(testCtx(), testTenant(), p)
	require.NoError(t, err)
	return p
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()

	tenant := core.Tenant{AgencyID: testAgencyID, BranchID: usr.BranchID, UserID: usr.ID}
	token, err := GenerateToken(env.conf, GetUserClaims(env.conf, tenant, usr))
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buff bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buff).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buff)
	req.Header.Set(echoHeaderContentType, echoMIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

const (
	echoHeaderContentType   = "Content-Type"
	echoMIMEApplicationJSON = "application/json"
)

func testCtx() context.Context { return context.Background() }

func testTenant() core.Tenant {
	return core.Tenant{AgencyID: testAgencyID, UserID: "tester"}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
