package budgets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensayelab/ensayelab/internal/shared"
)

func TestLineSubtotalRoundsHalfUp(t *testing.T) {
	got, err := LineSubtotal(3, 178.97)
	require.NoError(t, err)
	require.InDelta(t, 536.91, got, 0.0001)

	// 2.5 * 1.01 = 2.525 rounds up, not to even
	got, err = LineSubtotal(2.5, 1.01)
	require.NoError(t, err)
	require.InDelta(t, 2.53, got, 0.0001)
}

func TestLineSubtotalRejectsNonPositive(t *testing.T) {
	_, err := LineSubtotal(0, 100)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = LineSubtotal(-1, 100)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = LineSubtotal(1, 0)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestComputeTotals(t *testing.T) {
	lines := []LineInput{
		{Quantity: 10, UnitPrice: 450.00},
		{Quantity: 3, UnitPrice: 178.97},
	}
	totals, err := ComputeTotals(lines, 0.16)
	require.NoError(t, err)
	require.InDelta(t, 5036.91, totals.Subtotal, 0.0001)
	require.InDelta(t, 805.91, totals.TaxAmount, 0.0001)
	require.InDelta(t, 5842.82, totals.Total, 0.0001)
}

func TestComputeTotalsSumsRoundedLines(t *testing.T) {
	// Each line rounds on its own before the sum. Rounding the raw sum
	// instead would give 2.35 here.
	lines := []LineInput{
		{Quantity: 1.1, UnitPrice: 1.07},
		{Quantity: 1.1, UnitPrice: 1.07},
	}
	totals, err := ComputeTotals(lines, 0)
	require.NoError(t, err)
	require.InDelta(t, 2.36, totals.Subtotal, 0.0001)
	require.InDelta(t, 0, totals.TaxAmount, 0.0001)
	require.InDelta(t, 2.36, totals.Total, 0.0001)
}

func TestComputeTotalsValidation(t *testing.T) {
	_, err := ComputeTotals(nil, 0.16)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = ComputeTotals([]LineInput{{Quantity: 1, UnitPrice: 1}}, 1.5)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = ComputeTotals([]LineInput{{Quantity: 1, UnitPrice: 1}}, -0.1)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = ComputeTotals([]LineInput{{Quantity: 1, UnitPrice: -5}}, 0.16)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAdvanceAmount(t *testing.T) {
	got, err := AdvanceAmount(5842.82, 30)
	require.NoError(t, err)
	require.InDelta(t, 1752.85, got, 0.0001)

	got, err = AdvanceAmount(5842.82, 0)
	require.NoError(t, err)
	require.InDelta(t, 0, got, 0.0001)

	got, err = AdvanceAmount(5842.82, 100)
	require.NoError(t, err)
	require.InDelta(t, 5842.82, got, 0.0001)
}

func TestAdvanceAmountRange(t *testing.T) {
	_, err := AdvanceAmount(1000, -1)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = AdvanceAmount(1000, 100.01)
	require.ErrorIs(t, err, shared.ErrValidation)
}
