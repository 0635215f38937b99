package task

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Task is a weekly-planner to-do. Day holds a weekday name, not a calendar
// date: a task due "next Tuesday" is indistinguishable from any other
// Tuesday task. DueTime is a 24h "HH:MM" string.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Priority  Priority  `json:"priority"`
	DueTime   string    `json:"due_time"`
	Day       string    `json:"day"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewTask struct {
	Text     string   `json:"text" validate:"required"`
	Priority Priority `json:"priority" validate:"required,oneof=High Medium Low"`
	DueTime  string   `json:"due_time" validate:"required,timeofday"`
	Day      string   `json:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	return validate.Struct(nt)
}
