package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mustItem(t *testing.T, desc string, qty, price string) LineItem {
	t.Helper()
	item, err := NewLineItem(desc, d(qty), d(price))
	require.NoError(t, err)
	return item
}

func TestCalculateTotalsPercentMode(t *testing.T) {
	items := []LineItem{
		mustItem(t, "Consulting", "3", "100"),
	}

	recalced, totals := CalculateTotals(items, TaxModePercent, d("20"), decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(d("300")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(d("60")), "taxAmount = %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(d("360")), "total = %s", totals.Total)
	assert.True(t, recalced[0].Amount.Equal(d("300")))
}

func TestCalculateTotalsFlatMode(t *testing.T) {
	items := []LineItem{
		mustItem(t, "License", "2", "50"),
		mustItem(t, "Support", "1", "80"),
	}

	_, totals := CalculateTotals(items, TaxModeFlat, decimal.Zero, d("15"), d("5"), d("10"))

	assert.True(t, totals.Subtotal.Equal(d("180")))
	assert.True(t, totals.TaxAmount.Equal(d("15")))
	// total = 180 + 15 + 5 - 10
	assert.True(t, totals.Total.Equal(d("190")))
}

func TestCalculateTotalsNoItems(t *testing.T) {
	_, totals := CalculateTotals(nil, TaxModePercent, d("20"), decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCalculateTotalsRecomputesStaleAmounts(t *testing.T) {
	item := mustItem(t, "Consulting", "3", "100")
	item.Amount = d("999") // stale on purpose

	recalced, totals := CalculateTotals([]LineItem{item}, TaxModePercent, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, recalced[0].Amount.Equal(d("300")))
	assert.True(t, totals.Subtotal.Equal(d("300")))
}

func TestCalculateTotalsDoesNotMutateInput(t *testing.T) {
	item := mustItem(t, "Consulting", "3", "100")
	item.Amount = d("999")
	input := []LineItem{item}

	_, _ = CalculateTotals(input, TaxModePercent, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, input[0].Amount.Equal(d("999")))
}

// The invariant must hold after any sequence of mutations, not just on
// a single calculation.
func TestTotalsInvariantUnderMutationSequence(t *testing.T) {
	inv, err := NewInvoice(newOrgID(), "INV-001", "USD")
	require.NoError(t, err)

	checkInvariant := func() {
		t.Helper()
		expectedSubtotal := decimal.Zero
		for _, item := range inv.LineItems {
			assert.True(t, item.Amount.Equal(item.Quantity.Mul(item.UnitPrice)))
			expectedSubtotal = expectedSubtotal.Add(item.Amount)
		}
		assert.True(t, inv.Subtotal.Equal(expectedSubtotal))
		expectedTotal := inv.Subtotal.Add(inv.TaxAmount).Add(inv.Fees).Sub(inv.Discounts)
		assert.True(t, inv.Total.Equal(expectedTotal))
	}

	require.NoError(t, inv.AddLineItem("Design", d("10"), d("85.50")))
	checkInvariant()

	require.NoError(t, inv.AddLineItem("Hosting", d("12"), d("25")))
	checkInvariant()

	require.NoError(t, inv.SetPercentTax(d("19")))
	checkInvariant()

	require.NoError(t, inv.UpdateLineItem(0, "Design", d("8"), d("90")))
	checkInvariant()

	require.NoError(t, inv.SetFees(d("30")))
	checkInvariant()

	require.NoError(t, inv.SetDiscounts(d("100")))
	checkInvariant()

	require.NoError(t, inv.RemoveLineItem(1))
	checkInvariant()

	require.NoError(t, inv.SetFlatTax(d("42")))
	checkInvariant()
	assert.True(t, inv.TaxAmount.Equal(d("42")))
}
