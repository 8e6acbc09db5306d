package dto

import (
	"fmt"
	"time"

	"invoicematch/internal/domain/ledger"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// TransactionResponse represents a bank transaction in API responses.
type TransactionResponse struct {
	ID                  int64            `json:"id"`
	BankName            string           `json:"bank_name"`
	VendorName          string           `json:"vendor_name,omitempty"`
	Description         string           `json:"description,omitempty"`
	Direction           string           `json:"direction"`
	BookingDate         string           `json:"booking_date,omitempty"`
	ValueDate           string           `json:"value_date,omitempty"`
	DateLabel           string           `json:"date_label"`
	AmountCents         int64            `json:"amount_cents"`
	Currency            string           `json:"currency"`
	AmountLabel         string           `json:"amount_label"`
	OriginalAmountLabel string           `json:"original_amount_label,omitempty"`
	Hidden              bool             `json:"hidden"`
	InvoiceID           *int64           `json:"invoice_id,omitempty"`
	Invoice             *InvoiceResponse `json:"invoice,omitempty"`
}

// NewTransactionResponse converts a transaction, and the invoice linked to
// it when one is loaded, into its API representation.
func NewTransactionResponse(tx *ledger.Transaction, linked *ledger.Invoice) TransactionResponse {
	resp := TransactionResponse{
		ID:          tx.ID,
		BankName:    tx.BankName,
		VendorName:  tx.VendorName,
		Description: tx.Description,
		Direction:   string(tx.Direction),
		BookingDate: isoDate(tx.BookingDate),
		ValueDate:   isoDate(tx.ValueDate),
		DateLabel:   DateLabel(tx.EffectiveDate()),
		AmountCents: tx.Amount.Cents,
		Currency:    tx.Amount.Currency,
		AmountLabel: tx.Amount.Label(),
		Hidden:      tx.Hidden(),
		InvoiceID:   tx.InvoiceID,
	}
	if tx.OriginalAmount != nil {
		resp.OriginalAmountLabel = tx.OriginalAmount.Label()
	}
	if linked != nil {
		inv := NewInvoiceResponse(linked)
		resp.Invoice = &inv
	}
	return resp
}

// TransactionListResponse is returned when listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID                  int64  `json:"id"`
	VendorName          string `json:"vendor_name"`
	Note                string `json:"note,omitempty"`
	AmountCents         int64  `json:"amount_cents"`
	Currency            string `json:"currency"`
	AmountLabel         string `json:"amount_label"`
	IssueDate           string `json:"issue_date,omitempty"`
	DeliveryDate        string `json:"delivery_date,omitempty"`
	AccountingDate      string `json:"accounting_date,omitempty"`
	AccountingDateLabel string `json:"accounting_date_label"`
	Source              string `json:"source,omitempty"`
}

// NewInvoiceResponse converts an invoice into its API representation.
// The accounting date is the derived effective date, so an override edit
// shows up here immediately.
func NewInvoiceResponse(inv *ledger.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                  inv.ID,
		VendorName:          inv.VendorName,
		Note:                inv.Note,
		AmountCents:         inv.Amount.Cents,
		Currency:            inv.Amount.Currency,
		AmountLabel:         inv.Amount.Label(),
		IssueDate:           isoDate(inv.IssueDate),
		DeliveryDate:        isoDate(inv.DeliveryDate),
		AccountingDate:      isoDate(inv.EffectiveDate()),
		AccountingDateLabel: DateLabel(inv.EffectiveDate()),
		Source:              inv.Source,
	}
}

// InvoiceListResponse is returned when listing invoices.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Count    int               `json:"count"`
}

// MatchCandidateResponse represents one suggested invoice for a transaction.
// AmountDiffLabel is set only for close matches, signed from the
// transaction's point of view.
type MatchCandidateResponse struct {
	ID              int64  `json:"id"`
	VendorName      string `json:"vendor_name"`
	AmountLabel     string `json:"amount_label"`
	DateLabel       string `json:"date_label"`
	DateOffsetDays  *int   `json:"date_offset_days"`
	AmountDiffLabel string `json:"amount_diff_label,omitempty"`
}

// MatchListResponse is returned by the invoice-matches endpoint.
// MatchType is "exact" or "close".
type MatchListResponse struct {
	MatchType string                   `json:"match_type"`
	Matches   []MatchCandidateResponse `json:"matches"`
}

// BankConnectionResponse represents a bank connection with its read-only
// sync status.
type BankConnectionResponse struct {
	ID              int64  `json:"id"`
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
	Status          string `json:"status"`
	SyncStatus      string `json:"sync_status,omitempty"`
	SyncCompletedAt string `json:"sync_completed_at,omitempty"`
	SyncError       string `json:"sync_error,omitempty"`
}

// NewBankConnectionResponse converts a bank connection into its API
// representation.
func NewBankConnectionResponse(conn *ledger.BankConnection) BankConnectionResponse {
	resp := BankConnectionResponse{
		ID:              conn.ID,
		InstitutionID:   conn.InstitutionID,
		InstitutionName: conn.InstitutionName,
		Status:          conn.Status,
		SyncStatus:      conn.SyncStatus,
		SyncError:       conn.SyncError,
	}
	if conn.SyncCompletedAt != nil {
		resp.SyncCompletedAt = conn.SyncCompletedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// BankConnectionListResponse is returned when listing bank connections.
type BankConnectionListResponse struct {
	Connections []BankConnectionResponse `json:"connections"`
	Count       int                      `json:"count"`
}

// DateLabel renders a date as "1. 2. 2026". Nil dates render as "—".
func DateLabel(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return fmt.Sprintf("%d. %d. %d", t.Day(), int(t.Month()), t.Year())
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
