package storage

import (
	"time"

	"invoicematch/internal/domain/ledger"
)

// Repository defines the complete storage interface. It allows swapping
// implementations (SQLite, PostgreSQL) and makes handler tests cheap via
// MockRepository.
type Repository interface {
	TransactionRepository
	InvoiceRepository
	BankConnectionRepository
	Close() error
}

// TransactionRepository handles bank transaction reads and the link write.
// All queries are scoped to an owner; ids belonging to someone else behave
// as not found.
type TransactionRepository interface {
	// GetTransaction fetches one transaction by id.
	GetTransaction(ownerID, id int64) (*ledger.Transaction, error)

	// ListTransactions returns the owner's transactions, booking date
	// descending, capped at limit.
	ListTransactions(ownerID int64, limit int) ([]*ledger.Transaction, error)

	// ListTransactionsBookedBetween returns transactions whose booking
	// date falls in [start, end], booking date then creation ascending.
	ListTransactionsBookedBetween(ownerID int64, start, end time.Time) ([]*ledger.Transaction, error)

	// ListTransactionsLinkedTo returns transactions linked to any of the
	// given invoice ids.
	ListTransactionsLinkedTo(ownerID int64, invoiceIDs []int64) ([]*ledger.Transaction, error)

	// LinkInvoice atomically points a transaction at an invoice,
	// detaching the invoice from any transaction that previously held it.
	// A nil invoiceID clears the link. Observers never see the invoice on
	// two transactions.
	LinkInvoice(ownerID, transactionID int64, invoiceID *int64) error

	// SetTransactionHidden hides or restores a transaction in listings.
	SetTransactionHidden(ownerID, transactionID int64, hidden bool) error

	// SetTransactionVendor updates the user-editable vendor name.
	SetTransactionVendor(ownerID, transactionID int64, vendorName string) error

	// CreateTransaction inserts a synced transaction and returns its id.
	// Called by the external bank-sync collaborator and by tests.
	CreateTransaction(tx *ledger.Transaction) (int64, error)
}

// InvoiceRepository handles invoice reads and soft-delete state.
type InvoiceRepository interface {
	// GetInvoice fetches one invoice by id, including soft-deleted ones
	// (needed for restore).
	GetInvoice(ownerID, id int64) (*ledger.Invoice, error)

	// ListActiveInvoices returns non-deleted invoices, effective
	// accounting date descending, capped at limit.
	ListActiveInvoices(ownerID int64, limit int) ([]*ledger.Invoice, error)

	// ListActiveInvoicesAccountedBetween returns non-deleted invoices
	// whose effective accounting date falls in [start, end], accounting
	// date then creation descending.
	ListActiveInvoicesAccountedBetween(ownerID int64, start, end time.Time) ([]*ledger.Invoice, error)

	// GetInvoicesByIDs returns non-deleted invoices for the given ids,
	// keyed by id. Missing ids are simply absent.
	GetInvoicesByIDs(ownerID int64, ids []int64) (map[int64]*ledger.Invoice, error)

	// SetInvoiceDeleted soft-deletes or restores an invoice.
	SetInvoiceDeleted(ownerID, id int64, deleted bool) error

	// SetAccountingDateOverride sets or clears the user's accounting date
	// override.
	SetAccountingDateOverride(ownerID, id int64, override *time.Time) error

	// CreateInvoice inserts an extracted or uploaded invoice and returns
	// its id.
	CreateInvoice(inv *ledger.Invoice) (int64, error)
}

// BankConnectionRepository exposes read-only sync status; the sync
// collaborator owns the writes.
type BankConnectionRepository interface {
	ListBankConnections(ownerID int64) ([]*ledger.BankConnection, error)

	// CreateBankConnection inserts a connection and returns its id.
	CreateBankConnection(conn *ledger.BankConnection) (int64, error)
}
