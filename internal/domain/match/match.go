// Package match implements the invoice–transaction matching core.
//
// Given a bank transaction and a pool of candidate invoices, the finder
// selects candidates under a two-tier strategy: exact amount equality in
// either the transaction's settlement currency or its original billing
// currency, falling back to a close-amount band only when no exact match
// exists. The ranker orders candidates by date proximity.
//
// All functions here are pure: they read already-loaded entities and never
// touch storage. Persisting a chosen link is the caller's job.
package match

import "invoicematch/internal/domain/ledger"

// CloseAmountTolerance is the close-tier band in minor units (5.00 in a
// two-decimal currency). Hard-coded on purpose; see DESIGN.md before making
// this configurable or currency-scaled.
const CloseAmountTolerance int64 = 500

// MatchLimit caps how many candidates a match query returns.
const MatchLimit = 5

// Tier identifies which strategy produced a candidate set.
type Tier string

const (
	// TierExact holds candidates whose amount equals the transaction's
	// amount in the settlement or original currency.
	TierExact Tier = "exact"
	// TierClose holds candidates within CloseAmountTolerance, evaluated
	// only when the exact tier is empty.
	TierClose Tier = "close"
)

// Result is a tiered candidate set. An empty Candidates slice is a valid
// "no suggestions" outcome, not an error.
type Result struct {
	Tier       Tier
	Candidates []*ledger.Invoice
}
