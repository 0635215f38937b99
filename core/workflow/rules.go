package workflow

import (
	"fmt"
	"time"

	"github.com/uniwayhq/uniway/core/invoice"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/task"
)

// VisaSuccessFeeAmount is the flat fee auto-invoiced when a visa is granted.
const VisaSuccessFeeAmount = 20000

// visaSuccessMarker is the description substring scanned for when deciding
// whether a success-fee invoice already exists for a student.
const visaSuccessMarker = "Visa Success"

type (
	// TaskIntent is a follow-up task a rule wants created. Day is a weekday
	// name resolved from the rule's offset; the planner has no calendar dates.
	TaskIntent struct {
		Text     string
		Priority task.Priority
		DueTime  string
		Day      string
	}

	// InvoiceIntent is the at-most-one invoice a rule wants created.
	InvoiceIntent struct {
		Amount      float64
		Description string
		Status      invoice.Status
	}
)

// dueDay resolves "N days from now" to a weekday name.
func dueDay(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Weekday().String()
}

// Plan evaluates the reactive rule table for a committed transition and
// returns what should be created. Pure: no I/O, no de-duplication; the
// caller owns persistence and the invoice idempotence guard.
//
// Rules are independent, not mutually exclusive, and evaluated in order.
func Plan(st student.Student, newStatus student.ApplicationStatus, now time.Time) ([]TaskIntent, *InvoiceIntent) {
	var tasks []TaskIntent
	var inv *InvoiceIntent

	switch newStatus {
	case student.StatusApplied:
		tasks = append(tasks, TaskIntent{
			Text:     fmt.Sprintf("Check Offer Status: %s (%s)", st.Name, st.TargetCountry),
			Priority: task.PriorityLow,
			DueTime:  "11:00",
			Day:      dueDay(now, 7),
		})

	case student.StatusOfferReceived:
		tasks = append(tasks, TaskIntent{
			Text:     fmt.Sprintf("Collect Tuition Fee & GTE Docs: %s", st.Name),
			Priority: task.PriorityHigh,
			DueTime:  "14:00",
			Day:      dueDay(now, 1),
		})
		if st.TargetCountry != "India" {
			tasks = append(tasks, TaskIntent{
				Text:     fmt.Sprintf("Verify NOC Status: %s", st.Name),
				Priority: task.PriorityMedium,
				DueTime:  "12:00",
				Day:      dueDay(now, 2),
			})
		}

	case student.StatusVisaGranted:
		tasks = append(tasks,
			TaskIntent{
				Text:     "Conduct Pre-Departure Briefing",
				Priority: task.PriorityHigh,
				DueTime:  "15:00",
				Day:      dueDay(now, 1),
			},
			TaskIntent{
				Text:     "Archive Student File",
				Priority: task.PriorityLow,
				DueTime:  "17:00",
				Day:      dueDay(now, 5),
			},
		)
		inv = &InvoiceIntent{
			Amount:      VisaSuccessFeeAmount,
			Description: fmt.Sprintf("Visa Success Fee - %s", st.TargetCountry),
			Status:      invoice.StatusPending,
		}
	}

	return tasks, inv
}
