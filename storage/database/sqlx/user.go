package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           string         `db:"id"`
	AgencyID     string         `db:"agency_id"`
	Name         null.String    `db:"name"`
	Username     null.String    `db:"username"`
	Email        null.String    `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	BranchID     null.String    `db:"branch_id"`
	PasswordHash null.Bytes     `db:"password_hash"`
	CreatedAt    null.Time      `db:"created_at"`
	UpdatedAt    null.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (repo userRepository) row(tenant core.Tenant, usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		AgencyID:     tenant.AgencyID,
		Name:         null.NewString(usr.Name, usr.Name != ""),
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        null.NewString(usr.Email, usr.Email != ""),
		IsActive:     usr.IsActive,
		Roles:        usr.Roles,
		BranchID:     null.NewString(usr.BranchID, usr.BranchID != ""),
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    null.NewTime(usr.CreatedAt.UTC(), !usr.CreatedAt.IsZero()),
		UpdatedAt:    null.NewTime(usr.UpdatedAt.UTC(), !usr.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (repo userRepository) unrow(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name.String,
		Username:     row.Username.String,
		Email:        row.Email.String,
		IsActive:     row.IsActive,
		Roles:        row.Roles,
		BranchID:     row.BranchID.String,
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
		LastLogin:    row.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, tenant core.Tenant, username, email string, excludedUsers ...user.User) error {
	where := []string{"agency_id = ?"}
	args := []interface{}{tenant.AgencyID}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		where = append(where, "NOT (id = ANY(?))")
		args = append(args, pq.StringArray(ids))
	}

	check := func(col, val string) (bool, error) {
		if val == "" {
			return false, nil
		}
		q := fmt.Sprintf(
			"SELECT EXISTS (SELECT 1 FROM agency_user WHERE %s AND %s = ?)",
			strings.Join(where, " AND "), col,
		)
		var exists bool
		err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(q), append(args, val)...)
		return exists, errors.Wrap(err, "checking user uniqueness")
	}

	if exists, err := check("username", username); err != nil {
		return err
	} else if exists {
		return user.ErrUsernameExists
	}
	if exists, err := check("email", email); err != nil {
		return err
	} else if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, tenant core.Tenant, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	q := `
		INSERT INTO agency_user (
			id, agency_id, name, username, email, is_active, roles, branch_id,
			password_hash, created_at, updated_at, last_login
		) VALUES (
			:id, :agency_id, :name, :username, :email, :is_active, :roles, :branch_id,
			:password_hash, :created_at, :updated_at, :last_login
		)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, usr)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, tenant core.Tenant, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	where := []string{"agency_id = ?"}
	args := []interface{}{tenant.AgencyID}

	if filter != nil {
		if filter.Search != "" {
			where = append(where, "(name ILIKE ? OR username ILIKE ? OR email ILIKE ?)")
			s := "%" + filter.Search + "%"
			args = append(args, s, s, s)
		}
		if len(filter.Roles) > 0 {
			where = append(where, "roles && ?")
			args = append(args, pq.StringArray(filter.Roles))
		}
		if filter.IsActive != nil {
			where = append(where, "is_active = ?")
			args = append(args, *filter.IsActive)
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

	q := fmt.Sprintf("SELECT * FROM agency_user WHERE %s%s", strings.Join(where, " AND "), orderingClause(ordering))
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.unrow(row))
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, tenant core.Tenant, filter user.GetFilter) (user.User, error) {
	where := "id = $2"
	arg := ""
	switch {
	case filter.ID != "":
		arg = filter.ID
	case filter.Username != "":
		where, arg = "username = $2", filter.Username
	case filter.Email != "":
		where, arg = "email = $2", filter.Email
	case len(filter.UsernameOrEmail) == 2:
		var row userRow
		q := `SELECT * FROM agency_user WHERE agency_id = $1 AND (username = $2 OR email = $3)`
		err := repo.db.GetContext(ctx, &row, q, tenant.AgencyID, filter.UsernameOrEmail[0], filter.UsernameOrEmail[1])
		if err != nil {
			return user.User{}, repo.trapNoRowsErr(err, "getting user")
		}
		return repo.unrow(row), nil
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	q := fmt.Sprintf("SELECT * FROM agency_user WHERE agency_id = $1 AND %s", where)
	if err := repo.db.GetContext(ctx, &row, q, tenant.AgencyID, arg); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user")
	}
	return repo.unrow(row), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, tenant core.Tenant, usr user.User, isActive *bool) (user.User, error) {
	set := make([]string, 0, 8)
	args := []interface{}{tenant.AgencyID, usr.ID}
	add := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if usr.Name != "" {
		add("name", usr.Name)
	}
	if usr.Username != "" {
		add("username", usr.Username)
	}
	if usr.Email != "" {
		add("email", usr.Email)
	}
	if usr.Roles != nil {
		add("roles", pq.StringArray(usr.Roles))
	}
	if usr.BranchID != "" {
		add("branch_id", usr.BranchID)
	}
	if usr.PasswordHash != nil {
		add("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		add("is_active", *isActive)
	}
	if !usr.LastLogin.IsZero() {
		add("last_login", usr.LastLogin.UTC())
	}
	if !usr.UpdatedAt.IsZero() {
		add("updated_at", usr.UpdatedAt.UTC())
	}
	if len(set) == 0 {
		return repo.GetUser(ctx, tenant, user.GetFilter{ID: usr.ID})
	}

	q := fmt.Sprintf("UPDATE agency_user SET %s WHERE agency_id = $1 AND id = $2", strings.Join(set, ", "))
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, tenant, user.GetFilter{ID: usr.ID})
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, tenant core.Tenant, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := `DELETE FROM agency_user WHERE agency_id = $1 AND id = ANY($2)`
	if _, err := repo.db.ExecContext(ctx, q, tenant.AgencyID, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
