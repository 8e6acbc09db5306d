package match

import (
	"math"
	"sort"

	"invoicematch/internal/domain/ledger"
)

// unknownOffset sorts candidates without a usable date offset after every
// dated candidate.
const unknownOffset = math.MaxInt

// Rank orders candidates by absolute date offset ascending and truncates to
// limit. Candidates with no offset (either side missing a date) sort last.
// The sort is stable: ties keep the finder's relative order. The input
// slice is not modified.
func Rank(tx *ledger.Transaction, candidates []*ledger.Invoice, limit int) []*ledger.Invoice {
	ranked := make([]*ledger.Invoice, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankKey(tx, ranked[i]) < rankKey(tx, ranked[j])
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func rankKey(tx *ledger.Transaction, inv *ledger.Invoice) int {
	offset := dateOffsetDays(tx, inv)
	if offset == nil {
		return unknownOffset
	}
	if *offset < 0 {
		return -*offset
	}
	return *offset
}
