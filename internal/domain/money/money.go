// Package money provides a value type for amounts in minor currency units.
//
// Amounts are stored as integer minor units (cents) paired with an ISO 4217
// currency code. Two amounts are only comparable when their currencies match;
// an empty currency code never compares equal to anything.
package money

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (e.g. cents) with a currency code.
type Money struct {
	Cents    int64  `json:"amount_cents"`
	Currency string `json:"currency"`
}

// New creates a Money value.
func New(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// HasCurrency reports whether a currency code is set. Amounts without a
// currency are never considered equal or close to anything.
func (m Money) HasCurrency() bool {
	return m.Currency != ""
}

// Equal reports whether both currency and amount match.
func (m Money) Equal(other Money) bool {
	return m.HasCurrency() && m.Currency == other.Currency && m.Cents == other.Cents
}

// Within reports whether other has the same currency and an amount inside
// [m - tolerance, m + tolerance]. Tolerance is in minor units.
func (m Money) Within(other Money, tolerance int64) bool {
	if !m.HasCurrency() || m.Currency != other.Currency {
		return false
	}
	diff := other.Cents - m.Cents
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// Diff returns other - m in minor units. Only meaningful when currencies match.
func (m Money) Diff(other Money) int64 {
	return other.Cents - m.Cents
}

// symbols maps currency codes to display symbols. Codes without an entry are
// rendered as-is after the amount.
var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// unit returns the display unit for a currency code, following the
// "amount unit" convention (e.g. "50.00 €", "50.00 CZK").
func unit(currency string) string {
	if currency == "" {
		return "EUR"
	}
	if sym, ok := symbols[currency]; ok {
		return sym
	}
	return currency
}

// Label formats the amount for display, e.g. "53.00 €" or "120.00 CZK".
func (m Money) Label() string {
	return decimal.New(m.Cents, -2).StringFixed(2) + " " + unit(m.Currency)
}

// DiffLabel formats a signed difference in minor units for display in the
// given currency, e.g. "+3.00 €" or "-0.50 €".
func DiffLabel(diffCents int64, currency string) string {
	d := decimal.New(diffCents, -2)
	label := d.StringFixed(2)
	if diffCents >= 0 {
		label = "+" + label
	}
	return label + " " + unit(currency)
}
