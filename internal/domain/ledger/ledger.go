// Package ledger holds the domain entities shared by matching, statements
// and storage: bank transactions, invoices and bank connections.
//
// Transactions and invoices are created by the external sync collaborators
// (open-banking sync, email invoice extraction). The matching core treats
// them as read snapshots; the only mutation it performs is maintaining the
// one-to-one transaction↔invoice link.
package ledger

import (
	"time"

	"invoicematch/internal/domain/money"
)

// Direction classifies a transaction's cash flow. Informational only; the
// matcher does not branch on it.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Transaction is a bank transaction synced from the open-banking provider.
// Amounts are non-negative minor units; Direction carries the sign.
type Transaction struct {
	ID               int64
	BankConnectionID int64
	OwnerID          int64 // user that owns the bank connection
	ExternalID       string
	BookingDate      *time.Time
	ValueDate        *time.Time
	Amount           money.Money
	// OriginalAmount is set when the settlement currency differs from the
	// original billing currency (e.g. a CZK card payment settled in EUR).
	OriginalAmount *money.Money
	Direction      Direction
	VendorName     string
	Description    string
	BankName       string
	HiddenAt       *time.Time
	InvoiceID      *int64
	CreatedAt      time.Time
}

// EffectiveDate is the booking date, falling back to the value date.
// Nil when neither is recorded.
func (t *Transaction) EffectiveDate() *time.Time {
	if t.BookingDate != nil {
		return t.BookingDate
	}
	return t.ValueDate
}

// Hidden reports whether the user hid this transaction from listings.
func (t *Transaction) Hidden() bool {
	return t.HiddenAt != nil
}

// Invoice is extracted from an email attachment or uploaded manually.
type Invoice struct {
	ID         int64
	OwnerID    int64
	VendorName string
	Note       string
	Amount     money.Money
	IssueDate  *time.Time
	// DeliveryDate takes precedence over IssueDate for accounting purposes.
	DeliveryDate *time.Time
	// AccountingDateOverride, when set by the user, wins over both dates.
	AccountingDateOverride *time.Time
	Source                 string
	DeletedAt              *time.Time
	CreatedAt              time.Time
}

// EffectiveDate is the accounting date: override, else delivery date, else
// issue date. It is derived on every call so an edited override moves the
// invoice's month bucket immediately.
func (i *Invoice) EffectiveDate() *time.Time {
	if i.AccountingDateOverride != nil {
		return i.AccountingDateOverride
	}
	if i.DeliveryDate != nil {
		return i.DeliveryDate
	}
	return i.IssueDate
}

// Deleted reports whether the invoice is soft-deleted. Deleted invoices are
// excluded from matching and statements.
func (i *Invoice) Deleted() bool {
	return i.DeletedAt != nil
}

// BankConnection ties a user to an open-banking requisition. Sync status
// fields are written by the external sync collaborator; this application
// only reads them.
type BankConnection struct {
	ID              int64
	OwnerID         int64
	InstitutionID   string
	InstitutionName string
	Status          string
	SyncStatus      string
	SyncCompletedAt *time.Time
	SyncError       string
	CreatedAt       time.Time
}
