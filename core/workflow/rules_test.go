package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/task"
)

// Tuesday
var planNow = time.Date(2021, 3, 2, 10, 0, 0, 0, time.UTC)

func TestPlan_applied(t *testing.T) {
	st := student.Student{Name: "Ravi Kumar", TargetCountry: "Australia"}

	tasks, inv := Plan(st, student.StatusApplied, planNow)
	require.Len(t, tasks, 1)
	assert.Nil(t, inv)

	assert.Equal(t, TaskIntent{
		Text:     "Check Offer Status: Ravi Kumar (Australia)",
		Priority: task.PriorityLow,
		DueTime:  "11:00",
		Day:      "Tuesday", // +7 days wraps to the same weekday
	}, tasks[0])
}

func TestPlan_offerReceived(t *testing.T) {
	st := student.Student{Name: "Ravi Kumar", TargetCountry: "Australia"}

	tasks, inv := Plan(st, student.StatusOfferReceived, planNow)
	require.Len(t, tasks, 2)
	assert.Nil(t, inv)

	assert.Equal(t, TaskIntent{
		Text:     "Collect Tuition Fee & GTE Docs: Ravi Kumar",
		Priority: task.PriorityHigh,
		DueTime:  "14:00",
		Day:      "Wednesday",
	}, tasks[0])
	assert.Equal(t, TaskIntent{
		Text:     "Verify NOC Status: Ravi Kumar",
		Priority: task.PriorityMedium,
		DueTime:  "12:00",
		Day:      "Thursday",
	}, tasks[1])
}

func TestPlan_offerReceivedIndiaSkipsNocTask(t *testing.T) {
	st := student.Student{Name: "Ravi Kumar", TargetCountry: "India"}

	tasks, inv := Plan(st, student.StatusOfferReceived, planNow)
	require.Len(t, tasks, 1)
	assert.Nil(t, inv)
	assert.Equal(t, "Collect Tuition Fee & GTE Docs: Ravi Kumar", tasks[0].Text)
}

func TestPlan_visaGranted(t *testing.T) {
	st := student.Student{Name: "Ravi Kumar", TargetCountry: "Australia"}

	tasks, inv := Plan(st, student.StatusVisaGranted, planNow)
	require.Len(t, tasks, 2)
	require.NotNil(t, inv)

	assert.Equal(t, TaskIntent{
		Text:     "Conduct Pre-Departure Briefing",
		Priority: task.PriorityHigh,
		DueTime:  "15:00",
		Day:      "Wednesday",
	}, tasks[0])
	assert.Equal(t, TaskIntent{
		Text:     "Archive Student File",
		Priority: task.PriorityLow,
		DueTime:  "17:00",
		Day:      "Sunday",
	}, tasks[1])

	assert.Equal(t, float64(VisaSuccessFeeAmount), inv.Amount)
	assert.Equal(t, "Visa Success Fee - Australia", inv.Description)
}

func TestPlan_quietStatuses(t *testing.T) {
	st := student.Student{Name: "Ravi Kumar", TargetCountry: "Australia"}

	for _, status := range []student.ApplicationStatus{
		student.StatusLead,
		student.StatusVisaRejected,
		student.StatusAlumni,
		student.StatusDiscontinued,
	} {
		tasks, inv := Plan(st, status, planNow)
		assert.Empty(t, tasks, "status %q", status)
		assert.Nil(t, inv, "status %q", status)
	}
}

func Test_dueDay(t *testing.T) {
	assert.Equal(t, "Wednesday", dueDay(planNow, 1))
	assert.Equal(t, "Thursday", dueDay(planNow, 2))
	assert.Equal(t, "Sunday", dueDay(planNow, 5))
	assert.Equal(t, "Tuesday", dueDay(planNow, 7))
}
