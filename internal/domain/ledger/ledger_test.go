package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTransaction_EffectiveDate(t *testing.T) {
	t.Run("prefers booking date", func(t *testing.T) {
		tx := &Transaction{BookingDate: date(2026, 2, 1), ValueDate: date(2026, 2, 3)}
		require.NotNil(t, tx.EffectiveDate())
		assert.Equal(t, *date(2026, 2, 1), *tx.EffectiveDate())
	})

	t.Run("falls back to value date", func(t *testing.T) {
		tx := &Transaction{ValueDate: date(2026, 2, 3)}
		require.NotNil(t, tx.EffectiveDate())
		assert.Equal(t, *date(2026, 2, 3), *tx.EffectiveDate())
	})

	t.Run("nil when neither is set", func(t *testing.T) {
		assert.Nil(t, (&Transaction{}).EffectiveDate())
	})
}

func TestInvoice_EffectiveDate(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		inv := &Invoice{
			AccountingDateOverride: date(2026, 3, 1),
			DeliveryDate:           date(2026, 2, 10),
			IssueDate:              date(2026, 2, 1),
		}
		assert.Equal(t, *date(2026, 3, 1), *inv.EffectiveDate())
	})

	t.Run("delivery date over issue date", func(t *testing.T) {
		inv := &Invoice{DeliveryDate: date(2026, 2, 10), IssueDate: date(2026, 2, 1)}
		assert.Equal(t, *date(2026, 2, 10), *inv.EffectiveDate())
	})

	t.Run("issue date as last resort", func(t *testing.T) {
		inv := &Invoice{IssueDate: date(2026, 2, 1)}
		assert.Equal(t, *date(2026, 2, 1), *inv.EffectiveDate())
	})

	t.Run("nil when no date recorded", func(t *testing.T) {
		assert.Nil(t, (&Invoice{}).EffectiveDate())
	})
}

func TestInvoice_Deleted(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Invoice{}).Deleted())
	assert.True(t, (&Invoice{DeletedAt: &now}).Deleted())
}
