package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"invoicematch/internal/domain/ledger"
	"invoicematch/internal/domain/money"
)

// transactionColumns is the select list shared by all transaction queries.
// Every query joins bank_connections to scope by owner and to carry the
// institution name.
const transactionColumns = `
	t.id, t.bank_connection_id, b.user_id, t.external_id,
	t.booking_date, t.value_date,
	t.amount_cents, t.currency, t.original_amount_cents, t.original_currency,
	t.direction, t.vendor_name, t.description, b.institution_name,
	t.hidden_at, t.invoice_id, t.created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*ledger.Transaction, error) {
	var (
		tx                  ledger.Transaction
		bookingDate         sql.NullString
		valueDate           sql.NullString
		originalAmountCents sql.NullInt64
		originalCurrency    sql.NullString
		hiddenAt            sql.NullString
		invoiceID           sql.NullInt64
		createdAt           sql.NullString
		direction           string
	)

	err := row.Scan(
		&tx.ID, &tx.BankConnectionID, &tx.OwnerID, &tx.ExternalID,
		&bookingDate, &valueDate,
		&tx.Amount.Cents, &tx.Amount.Currency, &originalAmountCents, &originalCurrency,
		&direction, &tx.VendorName, &tx.Description, &tx.BankName,
		&hiddenAt, &invoiceID, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Direction = ledger.Direction(direction)

	if tx.BookingDate, err = parseDate(bookingDate); err != nil {
		return nil, err
	}
	if tx.ValueDate, err = parseDate(valueDate); err != nil {
		return nil, err
	}
	if tx.HiddenAt, err = parseTimestamp(hiddenAt); err != nil {
		return nil, err
	}
	if created, err := parseTimestamp(createdAt); err != nil {
		return nil, err
	} else if created != nil {
		tx.CreatedAt = *created
	}

	if originalAmountCents.Valid && originalCurrency.Valid && originalCurrency.String != "" {
		orig := money.New(originalAmountCents.Int64, originalCurrency.String)
		tx.OriginalAmount = &orig
	}
	if invoiceID.Valid {
		tx.InvoiceID = &invoiceID.Int64
	}

	return &tx, nil
}

func (s *Storage) queryTransactions(query string, args ...interface{}) ([]*ledger.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var transactions []*ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// GetTransaction fetches one transaction by id, scoped to the owner.
func (s *Storage) GetTransaction(ownerID, id int64) (*ledger.Transaction, error) {
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN bank_connections b ON b.id = t.bank_connection_id
	WHERE t.id = ? AND b.user_id = ?`

	tx, err := scanTransaction(s.db.QueryRow(query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListTransactions returns the owner's transactions, newest booking date
// first, undated ones last.
func (s *Storage) ListTransactions(ownerID int64, limit int) ([]*ledger.Transaction, error) {
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN bank_connections b ON b.id = t.bank_connection_id
	WHERE b.user_id = ?
	ORDER BY t.booking_date DESC NULLS LAST, t.created_at DESC
	LIMIT ?`

	return s.queryTransactions(query, ownerID, limit)
}

// ListTransactionsBookedBetween returns transactions whose booking date
// falls in [start, end].
func (s *Storage) ListTransactionsBookedBetween(ownerID int64, start, end time.Time) ([]*ledger.Transaction, error) {
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN bank_connections b ON b.id = t.bank_connection_id
	WHERE b.user_id = ? AND t.booking_date >= ? AND t.booking_date <= ?
	ORDER BY t.booking_date ASC, t.created_at ASC`

	return s.queryTransactions(query, ownerID, start.Format(dateLayout), end.Format(dateLayout))
}

// ListTransactionsLinkedTo returns transactions linked to any of the given
// invoice ids.
func (s *Storage) ListTransactionsLinkedTo(ownerID int64, invoiceIDs []int64) ([]*ledger.Transaction, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(invoiceIDs)), ",")
	query := `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN bank_connections b ON b.id = t.bank_connection_id
	WHERE b.user_id = ? AND t.invoice_id IN (` + placeholders + `)
	ORDER BY t.booking_date ASC, t.created_at ASC`

	args := make([]interface{}, 0, len(invoiceIDs)+1)
	args = append(args, ownerID)
	for _, id := range invoiceIDs {
		args = append(args, id)
	}
	return s.queryTransactions(query, args...)
}

// LinkInvoice atomically relinks an invoice to a transaction. The detach of
// the previous holder and the attach run in one SQL transaction, so the
// unique index on invoice_id is never violated and no observer sees the
// invoice on two transactions.
func (s *Storage) LinkInvoice(ownerID, transactionID int64, invoiceID *int64) error {
	dbTx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = dbTx.Rollback() }()

	// Ownership check on the transaction.
	var exists int64
	err = dbTx.QueryRow(`
		SELECT t.id FROM transactions t
		JOIN bank_connections b ON b.id = t.bank_connection_id
		WHERE t.id = ? AND b.user_id = ?`,
		transactionID, ownerID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if invoiceID != nil {
		// The invoice must exist, belong to the owner and be active.
		err = dbTx.QueryRow(`
			SELECT id FROM invoices
			WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
			*invoiceID, ownerID,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// Detach from whichever transaction currently holds the invoice.
		if _, err := dbTx.Exec(
			`UPDATE transactions SET invoice_id = NULL WHERE invoice_id = ? AND id != ?`,
			*invoiceID, transactionID,
		); err != nil {
			return err
		}
	}

	if _, err := dbTx.Exec(
		`UPDATE transactions SET invoice_id = ? WHERE id = ?`,
		nullableID(invoiceID), transactionID,
	); err != nil {
		return err
	}

	return dbTx.Commit()
}

// SetTransactionHidden hides or restores a transaction.
func (s *Storage) SetTransactionHidden(ownerID, transactionID int64, hidden bool) error {
	var hiddenAt interface{}
	if hidden {
		hiddenAt = timestampString(time.Now())
	}

	result, err := s.db.Exec(`
		UPDATE transactions SET hidden_at = ?
		WHERE id = ? AND bank_connection_id IN
			(SELECT id FROM bank_connections WHERE user_id = ?)`,
		hiddenAt, transactionID, ownerID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetTransactionVendor updates the user-editable vendor name.
func (s *Storage) SetTransactionVendor(ownerID, transactionID int64, vendorName string) error {
	result, err := s.db.Exec(`
		UPDATE transactions SET vendor_name = ?
		WHERE id = ? AND bank_connection_id IN
			(SELECT id FROM bank_connections WHERE user_id = ?)`,
		vendorName, transactionID, ownerID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CreateTransaction inserts a synced transaction and returns its id.
func (s *Storage) CreateTransaction(tx *ledger.Transaction) (int64, error) {
	var originalCents, originalCurrency interface{}
	if tx.OriginalAmount != nil {
		originalCents = tx.OriginalAmount.Cents
		originalCurrency = tx.OriginalAmount.Currency
	}

	result, err := s.db.Exec(`
		INSERT INTO transactions
		(bank_connection_id, external_id, booking_date, value_date,
		 amount_cents, currency, original_amount_cents, original_currency,
		 direction, vendor_name, description, invoice_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.BankConnectionID,
		tx.ExternalID,
		dateString(tx.BookingDate),
		dateString(tx.ValueDate),
		tx.Amount.Cents,
		tx.Amount.Currency,
		originalCents,
		originalCurrency,
		string(tx.Direction),
		tx.VendorName,
		tx.Description,
		nullableID(tx.InvoiceID),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
