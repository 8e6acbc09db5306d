package match

import (
	"time"

	"invoicematch/internal/domain/ledger"
)

// Score annotates one transaction/invoice pair.
type Score struct {
	// AmountMatches is true when the invoice amount equals the
	// transaction's amount in the settlement or original currency.
	AmountMatches bool
	// DateOffsetDays is invoice effective date minus transaction effective
	// date, in days. Positive means the invoice is dated after the
	// transaction. Nil when either side has no date.
	DateOffsetDays *int
}

// ComputeScore scores a candidate invoice against a transaction. Pure
// function of the two entities.
func ComputeScore(tx *ledger.Transaction, inv *ledger.Invoice) Score {
	return Score{
		AmountMatches:  amountMatches(tx, inv),
		DateOffsetDays: dateOffsetDays(tx, inv),
	}
}

// amountMatches checks the invoice amount against the transaction's
// settlement amount, then against the original-currency amount when the
// transaction carries one.
func amountMatches(tx *ledger.Transaction, inv *ledger.Invoice) bool {
	if tx.Amount.Equal(inv.Amount) {
		return true
	}
	if tx.OriginalAmount != nil && tx.OriginalAmount.Equal(inv.Amount) {
		return true
	}
	return false
}

func dateOffsetDays(tx *ledger.Transaction, inv *ledger.Invoice) *int {
	txDate := tx.EffectiveDate()
	invDate := inv.EffectiveDate()
	if txDate == nil || invDate == nil {
		return nil
	}
	days := int(truncateDay(*invDate).Sub(truncateDay(*txDate)).Hours() / 24)
	return &days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
