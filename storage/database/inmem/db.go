package inmemdb

import (
	"sync"

	"github.com/uniwayhq/uniway/core/activity"
	"github.com/uniwayhq/uniway/core/invoice"
	"github.com/uniwayhq/uniway/core/partner"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/task"
	"github.com/uniwayhq/uniway/core/user"
)

// DB is an in-memory store used by tests and local development. Each table
// is partitioned by agency id; collections are whole-sale replaced on write,
// mirroring the key-value gateway this store stands in for.
type (
	DB struct {
		students   *studentTable
		partners   *partnerTable
		tasks      *taskTable
		invoices   *invoiceTable
		activities *activityTable
		users      *userTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]map[string]*student.Student // {agencyID: {id: record}}
	}

	partnerTable struct {
		sync.RWMutex
		table map[string]map[string]*partner.Partner
	}

	taskTable struct {
		sync.RWMutex
		table map[string]map[string]*task.Task
	}

	invoiceTable struct {
		sync.RWMutex
		table map[string]map[string]*invoice.Invoice
	}

	activityTable struct {
		sync.RWMutex
		table map[string][]activity.Activity // append-only, capped
	}

	userTable struct {
		sync.RWMutex
		table map[string]map[string]*user.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		students:   &studentTable{table: make(map[string]map[string]*student.Student)},
		partners:   &partnerTable{table: make(map[string]map[string]*partner.Partner)},
		tasks:      &taskTable{table: make(map[string]map[string]*task.Task)},
		invoices:   &invoiceTable{table: make(map[string]map[string]*invoice.Invoice)},
		activities: &activityTable{table: make(map[string][]activity.Activity)},
		users:      &userTable{table: make(map[string]map[string]*user.User)},
	}
	return db, nil
}
