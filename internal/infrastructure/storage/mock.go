package storage

import (
	"sort"
	"time"

	"invoicematch/internal/domain/ledger"
)

// MockRepository is an in-memory Repository implementation for testing.
// It applies the same owner scoping and ordering as the SQLite
// implementation so handler tests exercise realistic data flows.
type MockRepository struct {
	transactions map[int64]*ledger.Transaction
	invoices     map[int64]*ledger.Invoice
	connections  map[int64]*ledger.BankConnection
	nextID       int64

	// Error injection for testing error paths
	TransactionErr error
	InvoiceErr     error
	LinkErr        error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		transactions: make(map[int64]*ledger.Transaction),
		invoices:     make(map[int64]*ledger.Invoice),
		connections:  make(map[int64]*ledger.BankConnection),
		nextID:       1,
	}
}

func (m *MockRepository) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// Close is a no-op.
func (m *MockRepository) Close() error { return nil }

// AddTransaction seeds a transaction, assigning an id if unset.
func (m *MockRepository) AddTransaction(tx *ledger.Transaction) *ledger.Transaction {
	if tx.ID == 0 {
		tx.ID = m.allocID()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	m.transactions[tx.ID] = tx
	return tx
}

// AddInvoice seeds an invoice, assigning an id if unset.
func (m *MockRepository) AddInvoice(inv *ledger.Invoice) *ledger.Invoice {
	if inv.ID == 0 {
		inv.ID = m.allocID()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	m.invoices[inv.ID] = inv
	return inv
}

// AddBankConnection seeds a bank connection, assigning an id if unset.
func (m *MockRepository) AddBankConnection(conn *ledger.BankConnection) *ledger.BankConnection {
	if conn.ID == 0 {
		conn.ID = m.allocID()
	}
	m.connections[conn.ID] = conn
	return conn
}

func (m *MockRepository) GetTransaction(ownerID, id int64) (*ledger.Transaction, error) {
	if m.TransactionErr != nil {
		return nil, m.TransactionErr
	}
	tx, ok := m.transactions[id]
	if !ok || tx.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return tx, nil
}

func (m *MockRepository) ListTransactions(ownerID int64, limit int) ([]*ledger.Transaction, error) {
	if m.TransactionErr != nil {
		return nil, m.TransactionErr
	}
	var out []*ledger.Transaction
	for _, tx := range m.transactions {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].BookingDate, out[j].BookingDate
		switch {
		case di == nil && dj == nil:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRepository) ListTransactionsBookedBetween(ownerID int64, start, end time.Time) ([]*ledger.Transaction, error) {
	if m.TransactionErr != nil {
		return nil, m.TransactionErr
	}
	var out []*ledger.Transaction
	for _, tx := range m.transactions {
		if tx.OwnerID != ownerID || tx.BookingDate == nil {
			continue
		}
		if tx.BookingDate.Before(start) || tx.BookingDate.After(end) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(*out[j].BookingDate) {
			return out[i].BookingDate.Before(*out[j].BookingDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockRepository) ListTransactionsLinkedTo(ownerID int64, invoiceIDs []int64) ([]*ledger.Transaction, error) {
	if m.TransactionErr != nil {
		return nil, m.TransactionErr
	}
	wanted := make(map[int64]bool, len(invoiceIDs))
	for _, id := range invoiceIDs {
		wanted[id] = true
	}
	var out []*ledger.Transaction
	for _, tx := range m.transactions {
		if tx.OwnerID == ownerID && tx.InvoiceID != nil && wanted[*tx.InvoiceID] {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) LinkInvoice(ownerID, transactionID int64, invoiceID *int64) error {
	if m.LinkErr != nil {
		return m.LinkErr
	}
	tx, ok := m.transactions[transactionID]
	if !ok || tx.OwnerID != ownerID {
		return ErrNotFound
	}
	if invoiceID != nil {
		inv, ok := m.invoices[*invoiceID]
		if !ok || inv.OwnerID != ownerID || inv.Deleted() {
			return ErrNotFound
		}
		for _, other := range m.transactions {
			if other.ID != transactionID && other.InvoiceID != nil && *other.InvoiceID == *invoiceID {
				other.InvoiceID = nil
			}
		}
	}
	tx.InvoiceID = invoiceID
	return nil
}

func (m *MockRepository) SetTransactionHidden(ownerID, transactionID int64, hidden bool) error {
	tx, ok := m.transactions[transactionID]
	if !ok || tx.OwnerID != ownerID {
		return ErrNotFound
	}
	if hidden {
		now := time.Now()
		tx.HiddenAt = &now
	} else {
		tx.HiddenAt = nil
	}
	return nil
}

func (m *MockRepository) SetTransactionVendor(ownerID, transactionID int64, vendorName string) error {
	tx, ok := m.transactions[transactionID]
	if !ok || tx.OwnerID != ownerID {
		return ErrNotFound
	}
	tx.VendorName = vendorName
	return nil
}

func (m *MockRepository) CreateTransaction(tx *ledger.Transaction) (int64, error) {
	m.AddTransaction(tx)
	return tx.ID, nil
}

func (m *MockRepository) GetInvoice(ownerID, id int64) (*ledger.Invoice, error) {
	if m.InvoiceErr != nil {
		return nil, m.InvoiceErr
	}
	inv, ok := m.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (m *MockRepository) ListActiveInvoices(ownerID int64, limit int) ([]*ledger.Invoice, error) {
	if m.InvoiceErr != nil {
		return nil, m.InvoiceErr
	}
	var out []*ledger.Invoice
	for _, inv := range m.invoices {
		if inv.OwnerID == ownerID && !inv.Deleted() {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].EffectiveDate(), out[j].EffectiveDate()
		switch {
		case di == nil && dj == nil:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRepository) ListActiveInvoicesAccountedBetween(ownerID int64, start, end time.Time) ([]*ledger.Invoice, error) {
	if m.InvoiceErr != nil {
		return nil, m.InvoiceErr
	}
	var out []*ledger.Invoice
	for _, inv := range m.invoices {
		if inv.OwnerID != ownerID || inv.Deleted() {
			continue
		}
		d := inv.EffectiveDate()
		if d == nil || d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].EffectiveDate(), out[j].EffectiveDate()
		if !di.Equal(*dj) {
			return di.After(*dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockRepository) GetInvoicesByIDs(ownerID int64, ids []int64) (map[int64]*ledger.Invoice, error) {
	if m.InvoiceErr != nil {
		return nil, m.InvoiceErr
	}
	out := make(map[int64]*ledger.Invoice, len(ids))
	for _, id := range ids {
		if inv, ok := m.invoices[id]; ok && inv.OwnerID == ownerID && !inv.Deleted() {
			out[id] = inv
		}
	}
	return out, nil
}

func (m *MockRepository) SetInvoiceDeleted(ownerID, id int64, deleted bool) error {
	inv, ok := m.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return ErrNotFound
	}
	if deleted {
		now := time.Now()
		inv.DeletedAt = &now
	} else {
		inv.DeletedAt = nil
	}
	return nil
}

func (m *MockRepository) SetAccountingDateOverride(ownerID, id int64, override *time.Time) error {
	inv, ok := m.invoices[id]
	if !ok || inv.OwnerID != ownerID {
		return ErrNotFound
	}
	inv.AccountingDateOverride = override
	return nil
}

func (m *MockRepository) CreateInvoice(inv *ledger.Invoice) (int64, error) {
	m.AddInvoice(inv)
	return inv.ID, nil
}

func (m *MockRepository) ListBankConnections(ownerID int64) ([]*ledger.BankConnection, error) {
	var out []*ledger.BankConnection
	for _, conn := range m.connections {
		if conn.OwnerID == ownerID {
			out = append(out, conn)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) CreateBankConnection(conn *ledger.BankConnection) (int64, error) {
	m.AddBankConnection(conn)
	return conn.ID, nil
}
