package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invoicematch/internal/api"
	"invoicematch/internal/domain/ledger"
	"invoicematch/internal/domain/money"
	"invoicematch/internal/infrastructure/storage"
)

const testOwner = "1"

// newAPI builds the full router around a repository so handler tests
// exercise the same middleware and URL params as production.
func newAPI(repo storage.Repository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewServer(api.DefaultConfig(), repo, logger).Router()
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", testOwner)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// doRequestRaw sends a request as-is, without the user header.
func doRequestRaw(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedTransaction(repo *storage.MockRepository, ownerID, amountCents int64, currency string, bookingDate *time.Time) *ledger.Transaction {
	return repo.AddTransaction(&ledger.Transaction{
		BankConnectionID: 1,
		OwnerID:          ownerID,
		Amount:           money.New(amountCents, currency),
		Direction:        ledger.DirectionOutflow,
		BankName:         "Demo Bank",
		BookingDate:      bookingDate,
	})
}

func seedInvoice(repo *storage.MockRepository, ownerID, amountCents int64, currency string, issueDate *time.Time) *ledger.Invoice {
	return repo.AddInvoice(&ledger.Invoice{
		OwnerID:    ownerID,
		VendorName: "Acme",
		Amount:     money.New(amountCents, currency),
		IssueDate:  issueDate,
	})
}
