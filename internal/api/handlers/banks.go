package handlers

import (
	"net/http"

	"invoicematch/internal/api/dto"
	"invoicematch/internal/infrastructure/storage"
)

// BanksHandler exposes bank connections with their read-only sync status.
type BanksHandler struct {
	*Base
}

// NewBanksHandler creates a new banks handler.
func NewBanksHandler(repo storage.Repository) *BanksHandler {
	return &BanksHandler{Base: NewBase(repo)}
}

// List handles GET /api/banks.
func (h *BanksHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := h.Owner(r)

	connections, err := h.repo.ListBankConnections(ownerID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.BankConnectionListResponse{
		Connections: make([]dto.BankConnectionResponse, 0, len(connections)),
		Count:       len(connections),
	}
	for _, conn := range connections {
		response.Connections = append(response.Connections, dto.NewBankConnectionResponse(conn))
	}

	h.WriteJSON(w, http.StatusOK, response)
}
