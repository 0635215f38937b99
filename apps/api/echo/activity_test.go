package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/activity"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/user"
)

func TestActivityAPI_query(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)

	rec := env.do(t, http.MethodPost, "/v1/students", token, student.NewStudent{
		Name:          "Ravi Kumar",
		TargetCountry: "Australia",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/activities", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var entries []activity.Activity
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "lead_captured", entries[0].Action)
	assert.Equal(t, counsellor.ID, entries[0].UserID)
}
