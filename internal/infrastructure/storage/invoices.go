package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"invoicematch/internal/domain/ledger"
)

const invoiceColumns = `
	id, user_id, vendor_name, note, amount_cents, currency,
	issue_date, delivery_date, accounting_date_override,
	source, deleted_at, created_at`

// accountingDateExpr mirrors Invoice.EffectiveDate for SQL ordering and
// range filters: override, else delivery date, else issue date.
const accountingDateExpr = `COALESCE(accounting_date_override, delivery_date, issue_date)`

func scanInvoice(row rowScanner) (*ledger.Invoice, error) {
	var (
		inv          ledger.Invoice
		issueDate    sql.NullString
		deliveryDate sql.NullString
		overrideDate sql.NullString
		deletedAt    sql.NullString
		createdAt    sql.NullString
	)

	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.VendorName, &inv.Note,
		&inv.Amount.Cents, &inv.Amount.Currency,
		&issueDate, &deliveryDate, &overrideDate,
		&inv.Source, &deletedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if inv.IssueDate, err = parseDate(issueDate); err != nil {
		return nil, err
	}
	if inv.DeliveryDate, err = parseDate(deliveryDate); err != nil {
		return nil, err
	}
	if inv.AccountingDateOverride, err = parseDate(overrideDate); err != nil {
		return nil, err
	}
	if inv.DeletedAt, err = parseTimestamp(deletedAt); err != nil {
		return nil, err
	}
	if created, err := parseTimestamp(createdAt); err != nil {
		return nil, err
	} else if created != nil {
		inv.CreatedAt = *created
	}

	return &inv, nil
}

func (s *Storage) queryInvoices(query string, args ...interface{}) ([]*ledger.Invoice, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var invoices []*ledger.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// GetInvoice fetches one invoice by id, including soft-deleted ones.
func (s *Storage) GetInvoice(ownerID, id int64) (*ledger.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ? AND user_id = ?`

	inv, err := scanInvoice(s.db.QueryRow(query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListActiveInvoices returns non-deleted invoices, newest accounting date
// first, undated ones last.
func (s *Storage) ListActiveInvoices(ownerID int64, limit int) ([]*ledger.Invoice, error) {
	query := `
	SELECT ` + invoiceColumns + `
	FROM invoices
	WHERE user_id = ? AND deleted_at IS NULL
	ORDER BY ` + accountingDateExpr + ` DESC NULLS LAST, created_at DESC
	LIMIT ?`

	return s.queryInvoices(query, ownerID, limit)
}

// ListActiveInvoicesAccountedBetween returns non-deleted invoices whose
// effective accounting date falls in [start, end].
func (s *Storage) ListActiveInvoicesAccountedBetween(ownerID int64, start, end time.Time) ([]*ledger.Invoice, error) {
	query := `
	SELECT ` + invoiceColumns + `
	FROM invoices
	WHERE user_id = ? AND deleted_at IS NULL
	  AND ` + accountingDateExpr + ` >= ? AND ` + accountingDateExpr + ` <= ?
	ORDER BY ` + accountingDateExpr + ` DESC, created_at DESC`

	return s.queryInvoices(query, ownerID, start.Format(dateLayout), end.Format(dateLayout))
}

// GetInvoicesByIDs returns non-deleted invoices keyed by id.
func (s *Storage) GetInvoicesByIDs(ownerID int64, ids []int64) (map[int64]*ledger.Invoice, error) {
	result := make(map[int64]*ledger.Invoice, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `
	SELECT ` + invoiceColumns + `
	FROM invoices
	WHERE user_id = ? AND deleted_at IS NULL AND id IN (` + placeholders + `)`

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	invoices, err := s.queryInvoices(query, args...)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		result[inv.ID] = inv
	}
	return result, nil
}

// SetInvoiceDeleted soft-deletes or restores an invoice.
func (s *Storage) SetInvoiceDeleted(ownerID, id int64, deleted bool) error {
	var deletedAt interface{}
	if deleted {
		deletedAt = timestampString(time.Now())
	}

	result, err := s.db.Exec(
		`UPDATE invoices SET deleted_at = ? WHERE id = ? AND user_id = ?`,
		deletedAt, id, ownerID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetAccountingDateOverride sets or clears the accounting date override.
func (s *Storage) SetAccountingDateOverride(ownerID, id int64, override *time.Time) error {
	result, err := s.db.Exec(
		`UPDATE invoices SET accounting_date_override = ? WHERE id = ? AND user_id = ?`,
		dateString(override), id, ownerID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CreateInvoice inserts an invoice and returns its id.
func (s *Storage) CreateInvoice(inv *ledger.Invoice) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO invoices
		(user_id, vendor_name, note, amount_cents, currency,
		 issue_date, delivery_date, accounting_date_override, source, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.OwnerID,
		inv.VendorName,
		inv.Note,
		inv.Amount.Cents,
		inv.Amount.Currency,
		dateString(inv.IssueDate),
		dateString(inv.DeliveryDate),
		dateString(inv.AccountingDateOverride),
		inv.Source,
		nullableTimestamp(inv.DeletedAt),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func nullableTimestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return timestampString(*t)
}
