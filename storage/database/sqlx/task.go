package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/task"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

type taskRow struct {
	ID        string      `db:"id"`
	AgencyID  string      `db:"agency_id"`
	Text      string      `db:"text"`
	Priority  string      `db:"priority"`
	DueTime   null.String `db:"due_time"`
	Day       null.String `db:"day"`
	Completed bool        `db:"completed"`
	CreatedAt null.Time   `db:"created_at"`
}

func (repo taskRepository) row(tenant core.Tenant, t task.Task) taskRow {
	return taskRow{
		ID:        t.ID,
		AgencyID:  tenant.AgencyID,
		Text:      t.Text,
		Priority:  string(t.Priority),
		DueTime:   null.NewString(t.DueTime, t.DueTime != ""),
		Day:       null.NewString(t.Day, t.Day != ""),
		Completed: t.Completed,
		CreatedAt: null.NewTime(t.CreatedAt.UTC(), !t.CreatedAt.IsZero()),
	}
}

func (repo taskRepository) unrow(row taskRow) task.Task {
	return task.Task{
		ID:        row.ID,
		Text:      row.Text,
		Priority:  task.Priority(row.Priority),
		DueTime:   row.DueTime.String,
		Day:       row.Day.String,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to task.ErrNotFound
func (repo taskRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return task.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo taskRepository) CreateTask(ctx context.Context, tenant core.Tenant, t task.Task) (task.Task, error) {
	t.ID = uuid.New().String()
	q := `
		INSERT INTO task (id, agency_id, text, priority, due_time, day, completed, created_at)
		VALUES (:id, :agency_id, :text, :priority, :due_time, :day, :completed, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, t)); err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return t, nil
}

func (repo taskRepository) GetTask(ctx context.Context, tenant core.Tenant, id string) (task.Task, error) {
	var row taskRow
	q := `SELECT * FROM task WHERE agency_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, tenant.AgencyID, id); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "getting task")
	}
	return repo.unrow(row), nil
}

func (repo taskRepository) QueryAllTasks(ctx context.Context, tenant core.Tenant) ([]task.Task, error) {
	var rows []taskRow
	q := `SELECT * FROM task WHERE agency_id = $1 ORDER BY created_at ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, tenant.AgencyID); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, repo.unrow(row))
	}
	return tasks, nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, tenant core.Tenant, t task.Task) (task.Task, error) {
	q := `
		UPDATE task SET
			text = :text, priority = :priority, due_time = :due_time, day = :day, completed = :completed
		WHERE agency_id = :agency_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, t))
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (repo taskRepository) DeleteTask(ctx context.Context, tenant core.Tenant, id string) error {
	q := `DELETE FROM task WHERE agency_id = $1 AND id = $2`
	if _, err := repo.db.ExecContext(ctx, q, tenant.AgencyID, id); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return nil
}
