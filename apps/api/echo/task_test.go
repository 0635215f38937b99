package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/task"
	"github.com/uniwayhq/uniway/core/user"
)

func TestTaskAPI_crud(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)

	rec := env.do(t, http.MethodPost, "/v1/tasks", token, task.NewTask{
		Text:     "Call Ravi's parents",
		Priority: task.PriorityMedium,
		DueTime:  "16:30",
		Day:      "Friday",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created task.Task
	decodeBody(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Completed)

	rec = env.do(t, http.MethodGet, "/v1/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tasks []task.Task
	decodeBody(t, rec, &tasks)
	assert.Len(t, tasks, 1)

	// toggle flips Completed
	rec = env.do(t, http.MethodPut, "/v1/tasks/"+created.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var toggled task.Task
	decodeBody(t, rec, &toggled)
	assert.True(t, toggled.Completed)

	rec = env.do(t, http.MethodDelete, "/v1/tasks/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &tasks)
	assert.Empty(t, tasks)
}

func TestTaskAPI_createValidation(t *testing.T) {
	env := setupServer(t)
	counsellor := env.createUser(t, "Joe Counsellor", "joecounsel", "joe@test.cd", "LionelMessi10", user.CounsellorRoles, true)
	token := env.getToken(t, counsellor)

	tests := []struct {
		name string
		body task.NewTask
	}{
		{name: "bad time", body: task.NewTask{Text: "x", Priority: task.PriorityLow, DueTime: "25:99", Day: "Monday"}},
		{name: "bad day", body: task.NewTask{Text: "x", Priority: task.PriorityLow, DueTime: "11:00", Day: "Funday"}},
		{name: "bad priority", body: task.NewTask{Text: "x", Priority: "Urgent", DueTime: "11:00", Day: "Monday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/tasks", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}
