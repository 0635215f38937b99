package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

type activityRow struct {
	ID         string      `db:"id"`
	AgencyID   string      `db:"agency_id"`
	Action     string      `db:"action"`
	EntityType null.String `db:"entity_type"`
	Details    null.String `db:"details"`
	UserID     null.String `db:"user_id"`
	Timestamp  null.Time   `db:"timestamp"`
}

func (repo activityRepository) unrow(row activityRow) activity.Activity {
	return activity.Activity{
		ID:         row.ID,
		Action:     row.Action,
		EntityType: row.EntityType.String,
		Details:    row.Details.String,
		UserID:     row.UserID.String,
		Timestamp:  row.Timestamp.Time,
	}
}

func (repo activityRepository) CreateActivity(ctx context.Context, tenant core.Tenant, act activity.Activity) (activity.Activity, error) {
	act.ID = uuid.New().String()
	row := activityRow{
		ID:         act.ID,
		AgencyID:   tenant.AgencyID,
		Action:     act.Action,
		EntityType: null.NewString(act.EntityType, act.EntityType != ""),
		Details:    null.NewString(act.Details, act.Details != ""),
		UserID:     null.NewString(act.UserID, act.UserID != ""),
		Timestamp:  null.NewTime(act.Timestamp.UTC(), !act.Timestamp.IsZero()),
	}

	q := `
		INSERT INTO activity (id, agency_id, action, entity_type, details, user_id, timestamp)
		VALUES (:id, :agency_id, :action, :entity_type, :details, :user_id, :timestamp)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return activity.Activity{}, errors.Wrap(err, "inserting activity")
	}

	// retention: drop the oldest entries beyond the cap
	trim := `
		DELETE FROM activity
		WHERE agency_id = $1 AND id NOT IN (
			SELECT id FROM activity WHERE agency_id = $1 ORDER BY timestamp DESC LIMIT $2
		)`
	if _, err := repo.db.ExecContext(ctx, trim, tenant.AgencyID, activity.MaxEntries); err != nil {
		return activity.Activity{}, errors.Wrap(err, "trimming activity log")
	}
	return act, nil
}

func (repo activityRepository) QueryActivities(ctx context.Context, tenant core.Tenant) ([]activity.Activity, error) {
	var rows []activityRow
	q := `SELECT * FROM activity WHERE agency_id = $1 ORDER BY timestamp DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, tenant.AgencyID); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}

	activities := make([]activity.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, repo.unrow(row))
	}
	return activities, nil
}
