package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/partner"
	"github.com/uniwayhq/uniway/core/user"
)

func TestPartnerAPI_adminOnlyWrites(t *testing.T) {
	env := setupServer(t)
	admin := env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)

	body := partner.NewPartner{
		Name:           "Global Uni Co",
		Type:           partner.TypeUniversity,
		Country:        "Australia",
		CommissionRate: 15,
	}

	rec := env.do(t, http.MethodPost, "/v1/partners", env.getToken(t, counsellor), body)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/v1/partners", env.getToken(t, admin), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created partner.Partner
	decodeBody(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, float64(15), created.CommissionRate)

	// reads are open to any authenticated user
	rec = env.do(t, http.MethodGet, "/v1/partners", env.getToken(t, counsellor), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var partners []partner.Partner
	decodeBody(t, rec, &partners)
	assert.Len(t, partners, 1)

	rec = env.do(t, http.MethodGet, "/v1/partners/"+created.ID, env.getToken(t, counsellor), nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/v1/partners/"+created.ID, env.getToken(t, counsellor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/v1/partners/"+created.ID, env.getToken(t, admin), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestPartnerAPI_createValidation(t *testing.T) {
	env := setupServer(t)
	admin := env.createUser(t, "Jane Admin", "janeadmin", "jane@test.cd", "LionelMessi10", user.AdminRoles, true)
	token := env.getToken(t, admin)

	rec := env.do(t, http.MethodPost, "/v1/partners", token, partner.NewPartner{
		Name:           "Shady Broker",
		Type:           "Broker",
		CommissionRate: 150,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var fldErrs map[string]string
	decodeBody(t, rec, &fldErrs)
	assert.Contains(t, fldErrs, "type")
	assert.Contains(t, fldErrs, "commission_rate")
}
