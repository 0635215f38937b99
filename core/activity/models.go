package activity

import "time"

// MaxEntries caps the per-tenant log; repositories silently drop the oldest
// entries past it. A retention policy, not a compliance-grade audit trail.
const MaxEntries = 100

type Activity struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	Details    string    `json:"details"`
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"` // UTC
}
