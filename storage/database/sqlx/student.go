package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID                string      `db:"id"`
	AgencyID          string      `db:"agency_id"`
	Name              string      `db:"name"`
	Email             null.String `db:"email"`
	Phone             null.String `db:"phone"`
	TargetCountry     null.String `db:"target_country"`
	Course            null.String `db:"course"`
	AnnualTuition     float64     `db:"annual_tuition"`
	Status            string      `db:"status"`
	NocStatus         null.String `db:"noc_status"`
	AssignedPartnerID null.String `db:"assigned_partner_id"`
	AssignedPartner   null.String `db:"assigned_partner"`
	CommissionAmount  float64     `db:"commission_amount"`
	CommissionStatus  null.String `db:"commission_status"`
	Source            null.String `db:"source"`
	BranchID          null.String `db:"branch_id"`
	CreatedAt         null.Time   `db:"created_at"`
	UpdatedAt         null.Time   `db:"updated_at"`
}

func (repo studentRepository) row(tenant core.Tenant, st student.Student) studentRow {
	return studentRow{
		ID:                st.ID,
		AgencyID:          tenant.AgencyID,
		Name:              st.Name,
		Email:             null.NewString(st.Email, st.Email != ""),
		Phone:             null.NewString(st.Phone, st.Phone != ""),
		TargetCountry:     null.NewString(st.TargetCountry, st.TargetCountry != ""),
		Course:            null.NewString(st.Course, st.Course != ""),
		AnnualTuition:     st.AnnualTuition,
		Status:            string(st.Status),
		NocStatus:         null.NewString(string(st.NocStatus), st.NocStatus != ""),
		AssignedPartnerID: null.NewString(st.AssignedPartnerID, st.AssignedPartnerID != ""),
		AssignedPartner:   null.NewString(st.AssignedPartnerName, st.AssignedPartnerName != ""),
		CommissionAmount:  st.CommissionAmount,
		CommissionStatus:  null.NewString(string(st.CommissionStatus), st.CommissionStatus != ""),
		Source:            null.NewString(st.Source, st.Source != ""),
		BranchID:          null.NewString(st.BranchID, st.BranchID != ""),
		CreatedAt:         null.NewTime(st.CreatedAt.UTC(), !st.CreatedAt.IsZero()),
		UpdatedAt:         null.NewTime(st.UpdatedAt.UTC(), !st.UpdatedAt.IsZero()),
	}
}

func (repo studentRepository) unrow(row studentRow) student.Student {
	return student.Student{
		ID:                  row.ID,
		Name:                row.Name,
		Email:               row.Email.String,
		Phone:               row.Phone.String,
		TargetCountry:       row.TargetCountry.String,
		Course:              row.Course.String,
		AnnualTuition:       row.AnnualTuition,
		Status:              student.ApplicationStatus(row.Status),
		NocStatus:           student.NocStatus(row.NocStatus.String),
		AssignedPartnerID:   row.AssignedPartnerID.String,
		AssignedPartnerName: row.AssignedPartner.String,
		CommissionAmount:    row.CommissionAmount,
		CommissionStatus:    student.CommissionStatus(row.CommissionStatus.String),
		Source:              row.Source.String,
		BranchID:            row.BranchID.String,
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, tenant core.Tenant, st student.Student) (student.Student, error) {
	st.ID = uuid.New().String()
	q := `
		INSERT INTO student (
			id, agency_id, name, email, phone, target_country, course, annual_tuition,
			status, noc_status, assigned_partner_id, assigned_partner, commission_amount,
			commission_status, source, branch_id, created_at, updated_at
		) VALUES (
			:id, :agency_id, :name, :email, :phone, :target_country, :course, :annual_tuition,
			:status, :noc_status, :assigned_partner_id, :assigned_partner, :commission_amount,
			:commission_status, :source, :branch_id, :created_at, :updated_at
		)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, st)); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, tenant core.Tenant, id string) (student.Student, error) {
	var row studentRow
	q := `SELECT * FROM student WHERE agency_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, tenant.AgencyID, id); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return repo.unrow(row), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, tenant core.Tenant, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	where := []string{"agency_id = ?"}
	args := []interface{}{tenant.AgencyID}

	if filter != nil {
		if filter.Search != "" {
			where = append(where, "(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)")
			s := "%" + filter.Search + "%"
			args = append(args, s, s, s)
		}
		if filter.Status != "" {
			where = append(where, "status = ?")
			args = append(args, string(filter.Status))
		}
		if filter.BranchID != "" {
			where = append(where, "branch_id = ?")
			args = append(args, filter.BranchID)
		}
		if filter.PartnerID != "" {
			where = append(where, "assigned_partner_id = ?")
			args = append(args, filter.PartnerID)
		}
		if !filter.CreatedFrom.IsZero() {
			where = append(where, "created_at >= ?")
			args = append(args, filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			where = append(where, "created_at <= ?")
			args = append(args, filter.CreatedTo.UTC())
		}
	}

	q := fmt.Sprintf("SELECT * FROM student WHERE %s%s", strings.Join(where, " AND "), orderingClause(ordering))
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.unrow(row))
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, tenant core.Tenant, st student.Student) (student.Student, error) {
	st.UpdatedAt = time.Now().UTC()
	q := `
		UPDATE student SET
			name = :name, email = :email, phone = :phone, target_country = :target_country,
			course = :course, annual_tuition = :annual_tuition, status = :status,
			noc_status = :noc_status, assigned_partner_id = :assigned_partner_id,
			assigned_partner = :assigned_partner, commission_amount = :commission_amount,
			commission_status = :commission_status, source = :source, branch_id = :branch_id,
			updated_at = :updated_at
		WHERE agency_id = :agency_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, st))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}
