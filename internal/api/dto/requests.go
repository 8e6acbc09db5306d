package dto

// LinkInvoiceRequest is the body for linking a transaction to an invoice.
// A null invoice_id clears an existing link.
type LinkInvoiceRequest struct {
	InvoiceID *int64 `json:"invoice_id"`
}

// UpdateVendorRequest is the body for renaming a transaction's vendor.
type UpdateVendorRequest struct {
	VendorName string `json:"vendor_name"`
}

// SetAccountingDateRequest is the body for overriding an invoice's
// accounting date. A null accounting_date clears the override so the
// invoice falls back to its delivery or issue date.
type SetAccountingDateRequest struct {
	AccountingDate *string `json:"accounting_date"`
}
