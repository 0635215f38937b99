package core

import "errors"

var ErrMissingTenant = errors.New("missing tenant scope")

// Tenant scopes every service and repository call to one agency.
// It is always passed explicitly; nothing in the codebase reads an
// ambient "current agency" global.
type Tenant struct {
	AgencyID string
	BranchID string
	UserID   string // acting user, recorded on activity entries
}

func (t Tenant) Valid() bool {
	return t.AgencyID != ""
}
