package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/invoice"
)

type invoiceRepository struct {
	db *sqlx.DB
}

var _ invoice.Repository = (*invoiceRepository)(nil) // interface compliance check

func NewInvoiceRepository(db *sqlx.DB) *invoiceRepository {
	return &invoiceRepository{db: db}
}

type invoiceRow struct {
	ID            string      `db:"id"`
	AgencyID      string      `db:"agency_id"`
	InvoiceNumber string      `db:"invoice_number"`
	StudentID     null.String `db:"student_id"`
	Amount        float64     `db:"amount"`
	Description   null.String `db:"description"`
	Status        string      `db:"status"`
	Date          null.Time   `db:"date"`
	CreatedAt     null.Time   `db:"created_at"`
}

func (repo invoiceRepository) row(tenant core.Tenant, inv invoice.Invoice) invoiceRow {
	return invoiceRow{
		ID:            inv.ID,
		AgencyID:      tenant.AgencyID,
		InvoiceNumber: inv.InvoiceNumber,
		StudentID:     null.NewString(inv.StudentID, inv.StudentID != ""),
		Amount:        inv.Amount,
		Description:   null.NewString(inv.Description, inv.Description != ""),
		Status:        string(inv.Status),
		Date:          null.NewTime(inv.Date.UTC(), !inv.Date.IsZero()),
		CreatedAt:     null.NewTime(inv.CreatedAt.UTC(), !inv.CreatedAt.IsZero()),
	}
}

func (repo invoiceRepository) unrow(row invoiceRow) invoice.Invoice {
	return invoice.Invoice{
		ID:            row.ID,
		InvoiceNumber: row.InvoiceNumber,
		StudentID:     row.StudentID.String,
		Amount:        row.Amount,
		Description:   row.Description.String,
		Status:        invoice.Status(row.Status),
		Date:          row.Date.Time,
		CreatedAt:     row.CreatedAt.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to invoice.ErrNotFound
func (repo invoiceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return invoice.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo invoiceRepository) CreateInvoice(ctx context.Context, tenant core.Tenant, inv invoice.Invoice) (invoice.Invoice, error) {
	inv.ID = uuid.New().String()
	q := `
		INSERT INTO invoice (id, agency_id, invoice_number, student_id, amount, description, status, date, created_at)
		VALUES (:id, :agency_id, :invoice_number, :student_id, :amount, :description, :status, :date, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, inv)); err != nil {
		return invoice.Invoice{}, errors.Wrap(err, "inserting invoice")
	}
	return inv, nil
}

func (repo invoiceRepository) GetInvoice(ctx context.Context, tenant core.Tenant, id string) (invoice.Invoice, error) {
	var row invoiceRow
	q := `SELECT * FROM invoice WHERE agency_id = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, tenant.AgencyID, id); err != nil {
		return invoice.Invoice{}, repo.trapNoRowsErr(err, "getting invoice")
	}
	return repo.unrow(row), nil
}

func (repo invoiceRepository) QueryInvoices(ctx context.Context, tenant core.Tenant, filter *invoice.QueryFilter) ([]invoice.Invoice, error) {
	where := []string{"agency_id = ?"}
	args := []interface{}{tenant.AgencyID}

	if filter != nil {
		if filter.StudentID != "" {
			where = append(where, "student_id = ?")
			args = append(args, filter.StudentID)
		}
		if filter.Status != "" {
			where = append(where, "status = ?")
			args = append(args, string(filter.Status))
		}
	}

	q := fmt.Sprintf("SELECT * FROM invoice WHERE %s ORDER BY created_at DESC", strings.Join(where, " AND "))
	var rows []invoiceRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying invoices")
	}

	invoices := make([]invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, repo.unrow(row))
	}
	return invoices, nil
}

func (repo invoiceRepository) UpdateInvoice(ctx context.Context, tenant core.Tenant, inv invoice.Invoice) (invoice.Invoice, error) {
	q := `
		UPDATE invoice SET
			invoice_number = :invoice_number, student_id = :student_id, amount = :amount,
			description = :description, status = :status, date = :date
		WHERE agency_id = :agency_id AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, repo.row(tenant, inv))
	if err != nil {
		return invoice.Invoice{}, errors.Wrap(err, "updating invoice")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	return inv, nil
}
