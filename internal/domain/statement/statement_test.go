package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicematch/internal/domain/ledger"
	"invoicematch/internal/domain/money"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func makeTransaction(id int64, booking *time.Time, invoiceID *int64) *ledger.Transaction {
	return &ledger.Transaction{
		ID:          id,
		OwnerID:     1,
		BookingDate: booking,
		Amount:      money.New(5000, "EUR"),
		Direction:   ledger.DirectionOutflow,
		BankName:    "Test Bank",
		InvoiceID:   invoiceID,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}

func makeInvoice(id int64, issue *time.Time) *ledger.Invoice {
	return &ledger.Invoice{
		ID:         id,
		OwnerID:    1,
		VendorName: "ACME",
		Amount:     money.New(5000, "EUR"),
		IssueDate:  issue,
	}
}

func ptr(v int64) *int64 { return &v }

func TestParseMonth(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		m, err := ParseMonth("2026-01")
		require.NoError(t, err)
		assert.Equal(t, 2026, m.Year)
		assert.Equal(t, time.January, m.Month)
		assert.Equal(t, "2026-01", m.Key())
		assert.Equal(t, "January 2026", m.Label())
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "banana", "2026-13", "2026", "01-2026"} {
			_, err := ParseMonth(key)
			assert.Error(t, err, "key %q", key)
		}
	})

	t.Run("range covers first to last day", func(t *testing.T) {
		m, err := ParseMonth("2026-02")
		require.NoError(t, err)
		start, end := m.Range()
		assert.Equal(t, *date(2026, 2, 1), start)
		assert.Equal(t, *date(2026, 2, 28), end)
	})
}

func TestBuild_PrimaryRows(t *testing.T) {
	month, err := ParseMonth("2026-01")
	require.NoError(t, err)

	t.Run("unlinked transaction is flagged invoice_missing", func(t *testing.T) {
		tx := makeTransaction(1, date(2026, 1, 15), nil)

		report := Build(Input{Month: month, Transactions: []*ledger.Transaction{tx}}, time.Now())

		require.Len(t, report.Primary.Rows, 1)
		row := report.Primary.Rows[0]
		assert.True(t, row.InvoiceMissing)
		assert.False(t, row.TransactionMissing)
		assert.Equal(t, "MISSING INVOICE", row.InvoiceLabel)
		assert.Equal(t, "15. 1. 2026", row.TransactionDateLabel)
		assert.Equal(t, "50.00 €", row.AmountLabel)
	})

	t.Run("linked transaction carries the invoice", func(t *testing.T) {
		inv := makeInvoice(10, date(2026, 1, 14))
		tx := makeTransaction(1, date(2026, 1, 15), ptr(10))

		report := Build(Input{
			Month:        month,
			Transactions: []*ledger.Transaction{tx},
			Invoices:     map[int64]*ledger.Invoice{10: inv},
		}, time.Now())

		require.Len(t, report.Primary.Rows, 1)
		row := report.Primary.Rows[0]
		assert.False(t, row.InvoiceMissing)
		require.NotNil(t, row.InvoiceID)
		assert.Equal(t, int64(10), *row.InvoiceID)
		assert.Equal(t, "ACME - 50.00 €", row.InvoiceLabel)
		assert.Equal(t, "14. 1. 2026", row.AccountingDateLabel)
	})
}

func TestBuild_CrossMonthScenario(t *testing.T) {
	// Month 2026-01 with a transaction dated Jan 15 (no invoice) and an
	// invoice accounted Jan 20 linked to a transaction dated Feb 2: the
	// Jan transaction goes to primary rows, the Feb transaction to a
	// "2026-02" supplemental section, and the invoice is not an
	// invoice-only row because it does have a transaction.
	month, err := ParseMonth("2026-01")
	require.NoError(t, err)

	unlinked := makeTransaction(1, date(2026, 1, 15), nil)
	inv := makeInvoice(10, date(2026, 1, 20))
	linkedFeb := makeTransaction(2, date(2026, 2, 2), ptr(10))

	report := Build(Input{
		Month:              month,
		Transactions:       []*ledger.Transaction{unlinked},
		MonthInvoices:      []*ledger.Invoice{inv},
		LinkedTransactions: []*ledger.Transaction{linkedFeb},
		Invoices:           map[int64]*ledger.Invoice{10: inv},
	}, time.Now())

	require.Len(t, report.Primary.Rows, 1)
	assert.True(t, report.Primary.Rows[0].InvoiceMissing)

	require.Len(t, report.Supplemental, 1)
	section := report.Supplemental[0]
	assert.Equal(t, "2026-02", section.MonthKey)
	assert.Equal(t, "February 2026", section.MonthLabel)
	require.Len(t, section.Rows, 1)
	require.NotNil(t, section.Rows[0].TransactionID)
	assert.Equal(t, int64(2), *section.Rows[0].TransactionID)

	assert.Empty(t, report.InvoiceOnlyRows)
}

func TestBuild_InvoiceOnlyRows(t *testing.T) {
	month, err := ParseMonth("2026-01")
	require.NoError(t, err)

	inv := makeInvoice(10, date(2026, 1, 20))

	report := Build(Input{
		Month:         month,
		MonthInvoices: []*ledger.Invoice{inv},
	}, time.Now())

	require.Len(t, report.InvoiceOnlyRows, 1)
	row := report.InvoiceOnlyRows[0]
	assert.True(t, row.TransactionMissing)
	assert.False(t, row.InvoiceMissing)
	assert.Nil(t, row.TransactionID)
	require.NotNil(t, row.InvoiceID)
	assert.Equal(t, int64(10), *row.InvoiceID)
	assert.Equal(t, "20. 1. 2026", row.AccountingDateLabel)
}

func TestBuild_LinkedInMonthTransactionNotSupplemental(t *testing.T) {
	// A linked transaction booked inside the month belongs to the primary
	// section only.
	month, err := ParseMonth("2026-01")
	require.NoError(t, err)

	inv := makeInvoice(10, date(2026, 1, 20))
	tx := makeTransaction(1, date(2026, 1, 21), ptr(10))

	report := Build(Input{
		Month:              month,
		Transactions:       []*ledger.Transaction{tx},
		MonthInvoices:      []*ledger.Invoice{inv},
		LinkedTransactions: []*ledger.Transaction{tx},
		Invoices:           map[int64]*ledger.Invoice{10: inv},
	}, time.Now())

	assert.Len(t, report.Primary.Rows, 1)
	assert.Empty(t, report.Supplemental)
	assert.Empty(t, report.InvoiceOnlyRows)
}

func TestBuild_SupplementalOrdering(t *testing.T) {
	month, err := ParseMonth("2026-01")
	require.NoError(t, err)

	invA := makeInvoice(10, date(2026, 1, 5))
	invB := makeInvoice(11, date(2026, 1, 6))
	invC := makeInvoice(12, date(2026, 1, 7))
	invD := makeInvoice(13, date(2026, 1, 8))

	mar := makeTransaction(1, date(2026, 3, 10), ptr(10))
	feb := makeTransaction(2, date(2026, 2, 10), ptr(11))
	undated := makeTransaction(3, nil, ptr(12))
	febEarlier := makeTransaction(4, date(2026, 2, 3), ptr(13))

	report := Build(Input{
		Month:              month,
		MonthInvoices:      []*ledger.Invoice{invA, invB, invC, invD},
		LinkedTransactions: []*ledger.Transaction{mar, feb, undated, febEarlier},
		Invoices: map[int64]*ledger.Invoice{
			10: invA, 11: invB, 12: invC, 13: invD,
		},
	}, time.Now())

	require.Len(t, report.Supplemental, 3)
	assert.Equal(t, "2026-02", report.Supplemental[0].MonthKey)
	assert.Equal(t, "2026-03", report.Supplemental[1].MonthKey)
	assert.Equal(t, "unknown", report.Supplemental[2].MonthKey)
	assert.Equal(t, "Unknown date", report.Supplemental[2].MonthLabel)

	// Within the February section, rows sort chronologically.
	febRows := report.Supplemental[0].Rows
	require.Len(t, febRows, 2)
	assert.Equal(t, int64(4), *febRows[0].TransactionID)
	assert.Equal(t, int64(2), *febRows[1].TransactionID)

	// All four invoices have transactions, so no invoice-only rows.
	assert.Empty(t, report.InvoiceOnlyRows)
}

func TestBuild_EmptyInputs(t *testing.T) {
	month, err := ParseMonth("2026-01")
	require.NoError(t, err)

	report := Build(Input{Month: month}, time.Now())

	assert.Empty(t, report.Primary.Rows)
	assert.Empty(t, report.Supplemental)
	assert.Empty(t, report.InvoiceOnlyRows)
	assert.Equal(t, "2026-01", report.MonthKey)
}
