package handlers

import (
	"encoding/json"
	"net/http"

	"invoicematch/internal/api/dto"
	"invoicematch/internal/domain/ledger"
	"invoicematch/internal/domain/match"
	"invoicematch/internal/domain/money"
	"invoicematch/internal/infrastructure/storage"
)

const (
	// defaultTransactionLimit caps the dashboard listing.
	defaultTransactionLimit = 500

	// matchPoolLimit caps how many active invoices are loaded as the
	// candidate pool for one transaction.
	matchPoolLimit = 1000
)

// TransactionsHandler handles transaction-related HTTP requests.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo storage.Repository) *TransactionsHandler {
	return &TransactionsHandler{Base: NewBase(repo)}
}

// List handles GET /api/transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)
	limit := ParseIntParam(r, "limit", defaultTransactionLimit)
	includeHidden := ParseBoolParam(r, "include_hidden", false)

	transactions, err := h.repo.ListTransactions(ownerID, limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	if !includeHidden {
		visible := make([]*ledger.Transaction, 0, len(transactions))
		for _, tx := range transactions {
			if !tx.Hidden() {
				visible = append(visible, tx)
			}
		}
		transactions = visible
	}

	linked, err := h.linkedInvoices(ownerID, transactions)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		Count:        len(transactions),
	}
	for _, tx := range transactions {
		var inv *ledger.Invoice
		if tx.InvoiceID != nil {
			inv = linked[*tx.InvoiceID]
		}
		response.Transactions = append(response.Transactions, dto.NewTransactionResponse(tx, inv))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// InvoiceMatches handles GET /api/transactions/{id}/invoice-matches.
// It suggests invoices for the transaction: exact amount matches when any
// exist, otherwise near misses within the close tolerance, ranked by date
// proximity.
func (h *TransactionsHandler) InvoiceMatches(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid transaction id"))
		return
	}

	tx, err := h.repo.GetTransaction(ownerID, id)
	if err != nil {
		h.WriteStorageError(w, err, "transaction")
		return
	}

	pool, err := h.repo.ListActiveInvoices(ownerID, matchPoolLimit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	result := match.FindCandidates(tx, pool)
	ranked := match.Rank(tx, result.Candidates, match.MatchLimit)

	response := dto.MatchListResponse{
		MatchType: string(result.Tier),
		Matches:   make([]dto.MatchCandidateResponse, 0, len(ranked)),
	}
	for _, inv := range ranked {
		score := match.ComputeScore(tx, inv)
		candidate := dto.MatchCandidateResponse{
			ID:             inv.ID,
			VendorName:     inv.VendorName,
			AmountLabel:    inv.Amount.Label(),
			DateLabel:      dto.DateLabel(inv.EffectiveDate()),
			DateOffsetDays: score.DateOffsetDays,
		}
		if result.Tier == match.TierClose {
			candidate.AmountDiffLabel = closeDiffLabel(tx, inv)
		}
		response.Matches = append(response.Matches, candidate)
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// closeDiffLabel renders the signed amount difference for a close match,
// in the currency of whichever amount pair produced it. The settlement
// amount is checked first, matching the candidate search order.
func closeDiffLabel(tx *ledger.Transaction, inv *ledger.Invoice) string {
	if tx.Amount.Within(inv.Amount, match.CloseAmountTolerance) {
		return money.DiffLabel(tx.Amount.Diff(inv.Amount), tx.Amount.Currency)
	}
	if tx.OriginalAmount != nil && tx.OriginalAmount.Within(inv.Amount, match.CloseAmountTolerance) {
		return money.DiffLabel(tx.OriginalAmount.Diff(inv.Amount), tx.OriginalAmount.Currency)
	}
	return ""
}

// LinkInvoice handles POST /api/transactions/{id}/link-invoice.
func (h *TransactionsHandler) LinkInvoice(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid transaction id"))
		return
	}

	var req dto.LinkInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid request body"))
		return
	}

	if err := h.repo.LinkInvoice(ownerID, id, req.InvoiceID); err != nil {
		h.WriteStorageError(w, err, "transaction or invoice")
		return
	}

	h.writeTransaction(w, ownerID, id)
}

// Hide handles POST /api/transactions/{id}/hide.
func (h *TransactionsHandler) Hide(w http.ResponseWriter, r *http.Request) {
	h.setHidden(w, r, true)
}

// Restore handles POST /api/transactions/{id}/restore.
func (h *TransactionsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setHidden(w, r, false)
}

func (h *TransactionsHandler) setHidden(w http.ResponseWriter, r *http.Request, hidden bool) {
	ownerID := h.Owner(r)
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid transaction id"))
		return
	}

	if err := h.repo.SetTransactionHidden(ownerID, id, hidden); err != nil {
		h.WriteStorageError(w, err, "transaction")
		return
	}

	h.writeTransaction(w, ownerID, id)
}

// UpdateVendor handles POST /api/transactions/{id}/vendor.
func (h *TransactionsHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid transaction id"))
		return
	}

	var req dto.UpdateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid request body"))
		return
	}
	if req.VendorName == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("vendor_name is required"))
		return
	}

	if err := h.repo.SetTransactionVendor(ownerID, id, req.VendorName); err != nil {
		h.WriteStorageError(w, err, "transaction")
		return
	}

	h.writeTransaction(w, ownerID, id)
}

// writeTransaction responds with the current state of a transaction and
// its linked invoice, so the dashboard can refresh the row in place.
func (h *TransactionsHandler) writeTransaction(w http.ResponseWriter, ownerID, id int64) {
	tx, err := h.repo.GetTransaction(ownerID, id)
	if err != nil {
		h.WriteStorageError(w, err, "transaction")
		return
	}

	var inv *ledger.Invoice
	if tx.InvoiceID != nil {
		linked, err := h.repo.GetInvoicesByIDs(ownerID, []int64{*tx.InvoiceID})
		if err != nil {
			h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
			return
		}
		inv = linked[*tx.InvoiceID]
	}

	h.WriteJSON(w, http.StatusOK, dto.NewTransactionResponse(tx, inv))
}

// linkedInvoices batch-loads the invoices referenced by the given
// transactions, keyed by invoice id.
func (h *TransactionsHandler) linkedInvoices(ownerID int64, transactions []*ledger.Transaction) (map[int64]*ledger.Invoice, error) {
	ids := make([]int64, 0, len(transactions))
	for _, tx := range transactions {
		if tx.InvoiceID != nil {
			ids = append(ids, *tx.InvoiceID)
		}
	}
	if len(ids) == 0 {
		return map[int64]*ledger.Invoice{}, nil
	}
	return h.repo.GetInvoicesByIDs(ownerID, ids)
}
