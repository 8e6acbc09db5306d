package match

import "invoicematch/internal/domain/ledger"

// FindCandidates selects invoices from pool that could belong to tx.
//
// The pool is first narrowed to active invoices of the transaction owner's
// account. The exact tier is tried first; the close tier is only evaluated
// when no exact candidate exists. When both tiers are empty the result is
// TierExact with no candidates.
func FindCandidates(tx *ledger.Transaction, pool []*ledger.Invoice) Result {
	eligible := make([]*ledger.Invoice, 0, len(pool))
	for _, inv := range pool {
		if inv.OwnerID != tx.OwnerID || inv.Deleted() {
			continue
		}
		eligible = append(eligible, inv)
	}

	if exact := exactCandidates(tx, eligible); len(exact) > 0 {
		return Result{Tier: TierExact, Candidates: exact}
	}
	if near := closeCandidates(tx, eligible); len(near) > 0 {
		return Result{Tier: TierClose, Candidates: near}
	}
	return Result{Tier: TierExact}
}

// exactCandidates selects invoices whose amount equals the transaction
// amount in the settlement currency or, when present, the original one.
func exactCandidates(tx *ledger.Transaction, pool []*ledger.Invoice) []*ledger.Invoice {
	var out []*ledger.Invoice
	for _, inv := range pool {
		if amountMatches(tx, inv) {
			out = append(out, inv)
		}
	}
	return out
}

// closeCandidates selects invoices within CloseAmountTolerance of the
// settlement amount, then of the original amount. Exact equality is
// excluded from the band; those invoices belong to the exact tier. An
// invoice that qualifies through both amounts appears twice, mirroring the
// union of the two selections.
func closeCandidates(tx *ledger.Transaction, pool []*ledger.Invoice) []*ledger.Invoice {
	var out []*ledger.Invoice
	for _, inv := range pool {
		if tx.Amount.Within(inv.Amount, CloseAmountTolerance) && !tx.Amount.Equal(inv.Amount) {
			out = append(out, inv)
		}
	}
	if tx.OriginalAmount != nil {
		orig := *tx.OriginalAmount
		for _, inv := range pool {
			if orig.Within(inv.Amount, CloseAmountTolerance) && !orig.Equal(inv.Amount) {
				out = append(out, inv)
			}
		}
	}
	return out
}
