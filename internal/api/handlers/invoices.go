package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"invoicematch/internal/api/dto"
	"invoicematch/internal/infrastructure/storage"
)

// defaultInvoiceLimit caps the dashboard invoice listing.
const defaultInvoiceLimit = 100

// InvoicesHandler handles invoice-related HTTP requests.
type InvoicesHandler struct {
	*Base
}

// NewInvoicesHandler creates a new invoices handler.
func NewInvoicesHandler(repo storage.Repository) *InvoicesHandler {
	return &InvoicesHandler{Base: NewBase(repo)}
}

// List handles GET /api/invoices - active invoices, newest accounting
// date first.
func (h *InvoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)
	limit := ParseIntParam(r, "limit", defaultInvoiceLimit)

	invoices, err := h.repo.ListActiveInvoices(ownerID, limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.InvoiceListResponse{
		Invoices: make([]dto.InvoiceResponse, 0, len(invoices)),
		Count:    len(invoices),
	}
	for _, inv := range invoices {
		response.Invoices = append(response.Invoices, dto.NewInvoiceResponse(inv))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Remove handles POST /api/invoices/{id}/remove - soft delete.
func (h *InvoicesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.setDeleted(w, r, true)
}

// Restore handles POST /api/invoices/{id}/restore.
func (h *InvoicesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setDeleted(w, r, false)
}

func (h *InvoicesHandler) setDeleted(w http.ResponseWriter, r *http.Request, deleted bool) {
	ownerID := h.Owner(r)
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid invoice id"))
		return
	}

	if err := h.repo.SetInvoiceDeleted(ownerID, id, deleted); err != nil {
		h.WriteStorageError(w, err, "invoice")
		return
	}

	h.writeInvoice(w, ownerID, id)
}

// SetAccountingDate handles POST /api/invoices/{id}/accounting-date.
// A null accounting_date clears the override.
func (h *InvoicesHandler) SetAccountingDate(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid invoice id"))
		return
	}

	var req dto.SetAccountingDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid request body"))
		return
	}

	var override *time.Time
	if req.AccountingDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.AccountingDate)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError("accounting_date must be YYYY-MM-DD"))
			return
		}
		override = &parsed
	}

	if err := h.repo.SetAccountingDateOverride(ownerID, id, override); err != nil {
		h.WriteStorageError(w, err, "invoice")
		return
	}

	h.writeInvoice(w, ownerID, id)
}

func (h *InvoicesHandler) writeInvoice(w http.ResponseWriter, ownerID, id int64) {
	inv, err := h.repo.GetInvoice(ownerID, id)
	if err != nil {
		h.WriteStorageError(w, err, "invoice")
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewInvoiceResponse(inv))
}
