package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/partner"
)

type partnerRepository struct {
	db *sqlx.DB
}

var _ partner.Repository = (*partnerRepository)(nil) // interface compliance check

func NewPartnerRepository(db *sqlx.DB) *partnerRepository {
	return &partnerRepository{db: db}
}

type partnerRow struct {
	ID             string      `db:"id"`
	AgencyID       string      `db:"agency_id"`
	Name           string      `db:"name"`
	Type           string      `db:"type"`
	Country        null.String `db:"country"`
	ContactEmail   null.String `db:"contact_email"`
	CommissionRate float64     `db:"commission_rate"`
	CreatedAt      null.Time   `db:"created_at"`
	UpdatedAt      null.Time   `db:"updated_at"`
}

func (repo partnerRepository) row(tenant core.Tenant, p partner.Partner) partnerRow {
	return partnerRow{
		ID:             p.ID,
		AgencyID:       tenant.AgencyID,
		Name:           p.Name,
		Type:           string(p.Type),
		Country:        null.NewString(p.Country, p.Country != ""),
		ContactEmail:   null.NewString(p.ContactEmail, p.ContactEmail != ""),
		CommissionRate: p.CommissionRate,
		CreatedAt:      null.NewTime(p.CreatedAt.UTC(), !p.CreatedAt.IsZero()),
		UpdatedAt:      null.NewTime(p.UpdatedAt.UTC(), !p.UpdatedAt.IsZero()),
	}
}

func (repo partnerRepository) unrow(row partnerRow) partner.Partner {
	return partner.Partner{
		ID:             row.ID,
		Name:           row.Name,
		Type:           partner.PartnerType(row.Type),
		Country:        row.Country.String,
		ContactEmail:   row.ContactEmail.String,
		CommissionRate: row.CommissionRate,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to partner.ErrNotFound
func (repo partnerRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return partner.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo partnerRepository) CreatePartner(ctx context.Context, tenant core.Tenant, p partner.Partner) (partner.Partner, error) {
	p.ID = uuid.New().String()
	q := `
		INSERT INTO partner (id, agency_id, name, type, country, contact_email, commission_rate, created_at, updated_at)
		VALUES (:id, :agency_id, :name, :type, :country, :contact_email, :commission_rate, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, p)); err != nil {
		return partner.Partner{}, errors.Wrap(err, "inserting partner")
	}
	return p, nil
}

func (repo partnerRepository) GetPartner(ctx context.Context, tenant core.Tenant, id string) (partner.Partner, error) {
	var row partnerRow
	q := `SELECT * FROM partner WHERE agency_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, tenant.AgencyID, id); err != nil {
		return partner.Partner{}, repo.trapNoRowsErr(err, "getting partner")
	}
	return repo.unrow(row), nil
}

func (repo partnerRepository) QueryAllPartners(ctx context.Context, tenant core.Tenant) ([]partner.Partner, error) {
	var rows []partnerRow
	q := `SELECT * FROM partner WHERE agency_id = $1 ORDER BY name ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, tenant.AgencyID); err != nil {
		return nil, errors.Wrap(err, "querying partners")
	}

	partners := make([]partner.Partner, 0, len(rows))
	for _, row := range rows {
		partners = append(partners, repo.unrow(row))
	}
	return partners, nil
}

func (repo partnerRepository) UpdatePartner(ctx context.Context, tenant core.Tenant, p partner.Partner) (partner.Partner, error) {
	p.UpdatedAt = time.Now().UTC()
	q := `
		UPDATE partner SET
			name = :name, type = :type, country = :country, contact_email = :contact_email,
			commission_rate = :commission_rate, updated_at = :updated_at
		WHERE agency_id = :agency_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, p))
	if err != nil {
		return partner.Partner{}, errors.Wrap(err, "updating partner")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return partner.Partner{}, partner.ErrNotFound
	}
	return p, nil
}

func (repo partnerRepository) DeletePartner(ctx context.Context, tenant core.Tenant, id string) error {
	q := `DELETE FROM partner WHERE agency_id = $1 AND id = $2`
	if _, err := repo.db.ExecContext(ctx, q, tenant.AgencyID, id); err != nil {
		return errors.Wrap(err, "deleting partner")
	}
	return nil
}
