package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"invoicematch/internal/api/dto"
	"invoicematch/internal/domain/ledger"
	"invoicematch/internal/domain/statement"
	"invoicematch/internal/infrastructure/storage"
)

// StatementsHandler builds monthly reconciliation statements.
type StatementsHandler struct {
	*Base
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(repo storage.Repository) *StatementsHandler {
	return &StatementsHandler{Base: NewBase(repo)}
}

// Get handles GET /api/statements/{month} where month is "YYYY-MM".
// An unparseable month key behaves like a missing resource.
func (h *StatementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)

	month, err := statement.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("statement"))
		return
	}

	input, err := h.loadInput(ownerID, month)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	report := statement.Build(input, time.Now().UTC())
	h.WriteJSON(w, http.StatusOK, report)
}

// loadInput gathers the snapshots the statement builder works on: the
// month's booked transactions, the month's invoices, every transaction
// linked to one of those invoices, and an index of all referenced invoices.
func (h *StatementsHandler) loadInput(ownerID int64, month statement.Month) (statement.Input, error) {
	start, end := month.Range()

	transactions, err := h.repo.ListTransactionsBookedBetween(ownerID, start, end)
	if err != nil {
		return statement.Input{}, err
	}

	monthInvoices, err := h.repo.ListActiveInvoicesAccountedBetween(ownerID, start, end)
	if err != nil {
		return statement.Input{}, err
	}

	invoiceIDs := make([]int64, 0, len(monthInvoices))
	for _, inv := range monthInvoices {
		invoiceIDs = append(invoiceIDs, inv.ID)
	}

	var linked []*ledger.Transaction
	if len(invoiceIDs) > 0 {
		linked, err = h.repo.ListTransactionsLinkedTo(ownerID, invoiceIDs)
		if err != nil {
			return statement.Input{}, err
		}
	}

	referenced := make(map[int64]struct{})
	for _, tx := range transactions {
		if tx.InvoiceID != nil {
			referenced[*tx.InvoiceID] = struct{}{}
		}
	}
	for _, tx := range linked {
		if tx.InvoiceID != nil {
			referenced[*tx.InvoiceID] = struct{}{}
		}
	}

	invoices := make(map[int64]*ledger.Invoice, len(referenced))
	for _, inv := range monthInvoices {
		if _, ok := referenced[inv.ID]; ok {
			invoices[inv.ID] = inv
			delete(referenced, inv.ID)
		}
	}
	if len(referenced) > 0 {
		missing := make([]int64, 0, len(referenced))
		for id := range referenced {
			missing = append(missing, id)
		}
		loaded, err := h.repo.GetInvoicesByIDs(ownerID, missing)
		if err != nil {
			return statement.Input{}, err
		}
		for id, inv := range loaded {
			invoices[id] = inv
		}
	}

	return statement.Input{
		Month:              month,
		Transactions:       transactions,
		MonthInvoices:      monthInvoices,
		LinkedTransactions: linked,
		Invoices:           invoices,
	}, nil
}
