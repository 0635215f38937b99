package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/user"
)

func TestUserAPI_login(t *testing.T) {
	env := setupServer(t)
	env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	env.createUser(t, "Gone Guy", "goneguy", "gone@test.cd", "LionelMessi10", nil, false)

	tests := []struct {
		name     string
		body     LoginRequest
		wantCode int
	}{
		{
			name:     "valid credentials",
			body:     LoginRequest{AgencyID: testAgencyID, Username: "janeadmin", Password: "LionelMessi10"},
			wantCode: http.StatusOK,
		},
		{
			name:     "login with email",
			body:     LoginRequest{AgencyID: testAgencyID, Username: "jane@test.cd", Password: "LionelMessi10"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     LoginRequest{AgencyID: testAgencyID, Username: "janeadmin", Password: "CR7"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown user",
			body:     LoginRequest{AgencyID: testAgencyID, Username: "nobody", Password: "LionelMessi10"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong agency",
			body:     LoginRequest{AgencyID: "agency2", Username: "janeadmin", Password: "LionelMessi10"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "deactivated account",
			body:     LoginRequest{AgencyID: testAgencyID, Username: "goneguy", Password: "LionelMessi10"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "missing agency_id",
			body:     LoginRequest{Username: "janeadmin", Password: "LionelMessi10"},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/users/login", "", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				decodeBody(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func TestUserAPI_tokenRefresh(t *testing.T) {
	env := setupServer(t)
	usr := env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	token := env.getToken(t, usr)

	rec := env.do(t, http.MethodPost, "/v1/users/token-refresh", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
}

func TestUserAPI_authRequired(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, http.MethodGet, "/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestUserAPI_queryRoles(t *testing.T) {
	env := setupServer(t)
	admin := env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)

	rec := env.do(t, http.MethodGet, "/v1/users/roles", env.getToken(t, counsellor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/users/roles", env.getToken(t, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var roles []user.Role
	decodeBody(t, rec, &roles)
	assert.Len(t, roles, len(user.Roles))
}

func TestUserAPI_register(t *testing.T) {
	env := setupServer(t)
	admin := env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)

	body := user.NewUser{
		Name:            "New Counsellor",
		Username:        "newcounsel",
		Email:           "new@test.cd",
		Password:        "L1onel.Messi!",
		PasswordConfirm: "L1onel.Messi!",
		Roles:           user.CounsellorRoles,
	}

	// non-admin cannot register users
	rec := env.do(t, http.MethodPost, "/v1/users/register", env.getToken(t, counsellor), body)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/v1/users/register", env.getToken(t, admin), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created user.User
	decodeBody(t, rec, &created)
	assert.Equal(t, "newcounsel", created.Username)
	assert.True(t, created.IsActive)

	// duplicate username is rejected
	rec = env.do(t, http.MethodPost, "/v1/users/register", env.getToken(t, admin), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestUserAPI_retrieve(t *testing.T) {
	env := setupServer(t)
	admin := env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)

	// self
	rec := env.do(t, http.MethodGet, "/v1/users/"+counsellor.ID, env.getToken(t, counsellor), nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// another user, non-admin
	rec = env.do(t, http.MethodGet, "/v1/users/"+admin.ID, env.getToken(t, counsellor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	// another user, admin
	rec = env.do(t, http.MethodGet, "/v1/users/"+counsellor.ID, env.getToken(t, admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/users/nope", env.getToken(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}
