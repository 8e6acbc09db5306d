package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicematch/internal/api/dto"
	"invoicematch/internal/domain/money"
	"invoicematch/internal/infrastructure/storage"
)

func TestTransactionsList(t *testing.T) {
	t.Run("returns empty list when no transactions", func(t *testing.T) {
		repo := storage.NewMockRepository()
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, "/api/transactions", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response dto.TransactionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Transactions)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("returns only the owner's transactions", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		seedTransaction(repo, 2, 9900, "EUR", date(2026, time.February, 11))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, "/api/transactions", "")

		var response dto.TransactionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Count)
		assert.Equal(t, "50.00 €", response.Transactions[0].AmountLabel)
	})

	t.Run("hidden transactions are excluded by default", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		hiddenAt := time.Now()
		tx.HiddenAt = &hiddenAt
		seedTransaction(repo, 1, 1200, "EUR", date(2026, time.February, 12))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, "/api/transactions", "")

		var response dto.TransactionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Count)

		rec = doRequest(t, router, http.MethodGet, "/api/transactions?include_hidden=true", "")
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.Count)
	})

	t.Run("requires the user header", func(t *testing.T) {
		repo := storage.NewMockRepository()
		router := newAPI(repo)

		req, _ := http.NewRequest(http.MethodGet, "/api/transactions", nil)
		rec := doRequestRaw(router, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionsInvoiceMatches(t *testing.T) {
	t.Run("exact amount matches win", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		seedInvoice(repo, 1, 5000, "EUR", date(2026, time.February, 8))
		seedInvoice(repo, 1, 5300, "EUR", date(2026, time.February, 9))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/transactions/%d/invoice-matches", tx.ID), "")

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "exact", response.MatchType)
		require.Len(t, response.Matches, 1)
		assert.Equal(t, "50.00 €", response.Matches[0].AmountLabel)
		assert.Empty(t, response.Matches[0].AmountDiffLabel)
	})

	t.Run("close matches carry a signed diff", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		seedInvoice(repo, 1, 5300, "EUR", date(2026, time.February, 9))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/transactions/%d/invoice-matches", tx.ID), "")

		var response dto.MatchListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "close", response.MatchType)
		require.Len(t, response.Matches, 1)
		assert.Equal(t, "+3.00 €", response.Matches[0].AmountDiffLabel)
	})

	t.Run("ranks by date proximity and truncates", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		for day := 1; day <= 7; day++ {
			seedInvoice(repo, 1, 5000, "EUR", date(2026, time.February, day))
		}
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/transactions/%d/invoice-matches", tx.ID), "")

		var response dto.MatchListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Matches, 5)
		// closest invoice (Feb 7) first
		assert.Equal(t, "7. 2. 2026", response.Matches[0].DateLabel)
		require.NotNil(t, response.Matches[0].DateOffsetDays)
		assert.Equal(t, -3, *response.Matches[0].DateOffsetDays)
	})

	t.Run("empty pool yields exact with no matches", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/transactions/%d/invoice-matches", tx.ID), "")

		var response dto.MatchListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "exact", response.MatchType)
		assert.Empty(t, response.Matches)
	})

	t.Run("unknown transaction is 404", func(t *testing.T) {
		repo := storage.NewMockRepository()
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, "/api/transactions/99/invoice-matches", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")
	})

	t.Run("matches via the original currency amount", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		original := money.New(120000, "CZK")
		tx.OriginalAmount = &original
		seedInvoice(repo, 1, 120000, "CZK", date(2026, time.February, 9))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/transactions/%d/invoice-matches", tx.ID), "")

		var response dto.MatchListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "exact", response.MatchType)
		require.Len(t, response.Matches, 1)
		assert.Equal(t, "1200.00 CZK", response.Matches[0].AmountLabel)
	})
}

func TestTransactionsLinkInvoice(t *testing.T) {
	t.Run("links and returns the updated transaction", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		inv := seedInvoice(repo, 1, 5000, "EUR", date(2026, time.February, 8))
		router := newAPI(repo)

		body := fmt.Sprintf(`{"invoice_id": %d}`, inv.ID)
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/link-invoice", tx.ID), body)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TransactionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.NotNil(t, response.InvoiceID)
		assert.Equal(t, inv.ID, *response.InvoiceID)
		require.NotNil(t, response.Invoice)
		assert.Equal(t, "Acme", response.Invoice.VendorName)
	})

	t.Run("relinking detaches the previous holder", func(t *testing.T) {
		repo := storage.NewMockRepository()
		first := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		second := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 11))
		inv := seedInvoice(repo, 1, 5000, "EUR", date(2026, time.February, 8))
		router := newAPI(repo)

		body := fmt.Sprintf(`{"invoice_id": %d}`, inv.ID)
		doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/link-invoice", first.ID), body)
		doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/link-invoice", second.ID), body)

		detached, err := repo.GetTransaction(1, first.ID)
		require.NoError(t, err)
		assert.Nil(t, detached.InvoiceID)

		attached, err := repo.GetTransaction(1, second.ID)
		require.NoError(t, err)
		require.NotNil(t, attached.InvoiceID)
		assert.Equal(t, inv.ID, *attached.InvoiceID)
	})

	t.Run("null invoice_id clears the link", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		inv := seedInvoice(repo, 1, 5000, "EUR", date(2026, time.February, 8))
		require.NoError(t, repo.LinkInvoice(1, tx.ID, &inv.ID))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/link-invoice", tx.ID), `{"invoice_id": null}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		cleared, err := repo.GetTransaction(1, tx.ID)
		require.NoError(t, err)
		assert.Nil(t, cleared.InvoiceID)
	})

	t.Run("foreign invoice is 404", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		foreign := seedInvoice(repo, 2, 5000, "EUR", date(2026, time.February, 8))
		router := newAPI(repo)

		body := fmt.Sprintf(`{"invoice_id": %d}`, foreign.ID)
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/link-invoice", tx.ID), body)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/link-invoice", tx.ID), `{"invoice_id": "abc"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_error")
	})
}

func TestTransactionsHideRestore(t *testing.T) {
	repo := storage.NewMockRepository()
	tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
	router := newAPI(repo)

	rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/hide", tx.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Hidden)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/restore", tx.ID), "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.False(t, response.Hidden)
}

func TestTransactionsUpdateVendor(t *testing.T) {
	t.Run("updates the vendor name", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/vendor", tx.ID), `{"vendor_name": "New Vendor"}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.TransactionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "New Vendor", response.VendorName)
	})

	t.Run("empty vendor name is rejected", func(t *testing.T) {
		repo := storage.NewMockRepository()
		tx := seedTransaction(repo, 1, 5000, "EUR", date(2026, time.February, 10))
		router := newAPI(repo)

		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/transactions/%d/vendor", tx.ID), `{"vendor_name": ""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
