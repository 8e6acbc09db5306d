// Package statement builds the monthly reconciliation report: every
// transaction booked in a month, every invoice accounted to that month, and
// the classification of each into matched, missing-invoice or
// missing-transaction rows.
//
// Build is a pure computation over already-loaded collections; callers load
// the snapshots through the storage layer and render the result as-is.
package statement

import (
	"fmt"
	"sort"
	"time"

	"invoicematch/internal/domain/ledger"
)

// Row is one line of a statement: a transaction with its linked invoice, an
// unmatched transaction, or an invoice with no transaction. Exactly one of
// InvoiceMissing / TransactionMissing is set for unmatched rows.
type Row struct {
	Key                  string `json:"key"`
	TransactionID        *int64 `json:"transaction_id"`
	InvoiceID            *int64 `json:"invoice_id"`
	BankName             string `json:"bank_name"`
	AccountingDateLabel  string `json:"accounting_date_label"`
	TransactionDateLabel string `json:"transaction_date_label"`
	AmountLabel          string `json:"amount_label"`
	OriginalAmountLabel  string `json:"original_amount_label"`
	VendorLabel          string `json:"vendor_label"`
	InvoiceLabel         string `json:"invoice_label"`
	Hidden               bool   `json:"hidden"`
	InvoiceMissing       bool   `json:"invoice_missing"`
	TransactionMissing   bool   `json:"transaction_missing"`
}

// Section groups rows under a month heading.
type Section struct {
	MonthKey    string `json:"month_key"`
	MonthLabel  string `json:"month_label"`
	Description string `json:"description"`
	Rows        []Row  `json:"rows"`
}

// Report is the full monthly statement.
type Report struct {
	MonthKey        string    `json:"statement_month_key"`
	MonthLabel      string    `json:"statement_month_label"`
	GeneratedAt     time.Time `json:"generated_at"`
	Primary         Section   `json:"primary_section"`
	Supplemental    []Section `json:"supplemental_sections"`
	InvoiceOnlyRows []Row     `json:"invoice_only_rows"`
}

// Input carries the snapshots Build works on.
//
// Transactions are the owner's transactions booked inside the month, in
// storage order (booking date asc, creation asc). MonthInvoices are the
// active invoices whose effective accounting date falls inside the month.
// LinkedTransactions are all transactions linked to one of MonthInvoices.
// Invoices indexes every invoice referenced by a transaction in either
// slice, by id.
type Input struct {
	Month              Month
	Transactions       []*ledger.Transaction
	MonthInvoices      []*ledger.Invoice
	LinkedTransactions []*ledger.Transaction
	Invoices           map[int64]*ledger.Invoice
}

// Build assembles the statement report. It assumes a pre-validated month
// key; empty inputs produce an empty report, never an error.
func Build(in Input, now time.Time) *Report {
	report := &Report{
		MonthKey:    in.Month.Key(),
		MonthLabel:  in.Month.Label(),
		GeneratedAt: now,
		Primary: Section{
			MonthKey:    in.Month.Key(),
			MonthLabel:  in.Month.Label(),
			Description: fmt.Sprintf("All transactions booked in %s.", in.Month.Label()),
			Rows:        make([]Row, 0, len(in.Transactions)),
		},
		Supplemental:    []Section{},
		InvoiceOnlyRows: []Row{},
	}

	for _, tx := range in.Transactions {
		report.Primary.Rows = append(report.Primary.Rows, transactionRow(tx, in.Invoices))
	}

	linkedByInvoiceID := make(map[int64]*ledger.Transaction, len(in.LinkedTransactions))
	var supplemental []*ledger.Transaction
	for _, tx := range in.LinkedTransactions {
		if tx.InvoiceID != nil {
			linkedByInvoiceID[*tx.InvoiceID] = tx
		}
		// Transactions dated inside the month already appear in the
		// primary section.
		if d := tx.EffectiveDate(); d != nil && in.Month.Contains(*d) {
			continue
		}
		supplemental = append(supplemental, tx)
	}

	report.Supplemental = supplementalSections(in, supplemental)

	for _, inv := range in.MonthInvoices {
		if _, ok := linkedByInvoiceID[inv.ID]; ok {
			continue
		}
		report.InvoiceOnlyRows = append(report.InvoiceOnlyRows, invoiceOnlyRow(inv))
	}

	return report
}

// supplementalSections groups out-of-month linked transactions by the month
// of their own date, undated ones last, each section sorted chronologically
// with creation order breaking ties.
func supplementalSections(in Input, transactions []*ledger.Transaction) []Section {
	grouped := make(map[string][]*ledger.Transaction)
	for _, tx := range transactions {
		key := monthKeyOf(tx.EffectiveDate())
		grouped[key] = append(grouped[key], tx)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == unknownMonthKey {
			return false
		}
		if keys[j] == unknownMonthKey {
			return true
		}
		return keys[i] < keys[j]
	})

	sections := make([]Section, 0, len(keys))
	for _, key := range keys {
		txs := grouped[key]
		sort.SliceStable(txs, func(i, j int) bool {
			di, dj := sortDay(txs[i]), sortDay(txs[j])
			if di != dj {
				return di < dj
			}
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		})

		section := Section{
			MonthKey:    key,
			MonthLabel:  monthLabelOf(key),
			Description: fmt.Sprintf("Transactions for invoices accounted in %s.", in.Month.Label()),
			Rows:        make([]Row, 0, len(txs)),
		}
		for _, tx := range txs {
			section.Rows = append(section.Rows, transactionRow(tx, in.Invoices))
		}
		sections = append(sections, section)
	}
	return sections
}

// sortDay orders transactions by their effective date, undated ones last.
func sortDay(tx *ledger.Transaction) int64 {
	d := tx.EffectiveDate()
	if d == nil {
		return 1<<62 - 1
	}
	return d.Unix()
}

func transactionRow(tx *ledger.Transaction, invoices map[int64]*ledger.Invoice) Row {
	var invoice *ledger.Invoice
	if tx.InvoiceID != nil {
		invoice = invoices[*tx.InvoiceID]
	}

	txID := tx.ID
	row := Row{
		Key:                  fmt.Sprintf("tx-%d", tx.ID),
		TransactionID:        &txID,
		BankName:             dashIfEmpty(tx.BankName),
		TransactionDateLabel: formatDate(tx.EffectiveDate()),
		AmountLabel:          tx.Amount.Label(),
		OriginalAmountLabel:  emptyLabel,
		AccountingDateLabel:  emptyLabel,
		VendorLabel:          vendorLabel(tx, invoice),
		InvoiceLabel:         "MISSING INVOICE",
		Hidden:               tx.Hidden(),
		InvoiceMissing:       invoice == nil,
	}

	if tx.OriginalAmount != nil && tx.OriginalAmount.HasCurrency() {
		row.OriginalAmountLabel = tx.OriginalAmount.Label()
	}

	if invoice != nil {
		invID := invoice.ID
		row.InvoiceID = &invID
		row.AccountingDateLabel = formatDate(invoice.EffectiveDate())
		row.InvoiceLabel = invoiceLabel(invoice)
	}

	return row
}

func invoiceOnlyRow(inv *ledger.Invoice) Row {
	invID := inv.ID
	return Row{
		Key:                  fmt.Sprintf("invoice-%d", inv.ID),
		InvoiceID:            &invID,
		BankName:             emptyLabel,
		AccountingDateLabel:  formatDate(inv.EffectiveDate()),
		TransactionDateLabel: emptyLabel,
		AmountLabel:          emptyLabel,
		OriginalAmountLabel:  emptyLabel,
		VendorLabel:          vendorLabel(nil, inv),
		InvoiceLabel:         invoiceLabel(inv),
		TransactionMissing:   true,
	}
}

const emptyLabel = "—"

func vendorLabel(tx *ledger.Transaction, inv *ledger.Invoice) string {
	if tx != nil && tx.VendorName != "" {
		return tx.VendorName
	}
	if inv != nil && inv.VendorName != "" {
		return inv.VendorName
	}
	return emptyLabel
}

func invoiceLabel(inv *ledger.Invoice) string {
	if inv.VendorName == "" {
		return inv.Amount.Label()
	}
	return inv.VendorName + " - " + inv.Amount.Label()
}

// formatDate renders a day as "1. 2. 2026", or a dash when missing.
func formatDate(t *time.Time) string {
	if t == nil {
		return emptyLabel
	}
	return fmt.Sprintf("%d. %d. %d", t.Day(), int(t.Month()), t.Year())
}

func dashIfEmpty(s string) string {
	if s == "" {
		return emptyLabel
	}
	return s
}
