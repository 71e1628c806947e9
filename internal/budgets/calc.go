package budgets

import (
	"fmt"
	"math"

	"github.com/ensayelab/ensayelab/internal/shared"
)

// LineInput carries the two figures a line subtotal depends on.
type LineInput struct {
	Quantity  float64
	UnitPrice float64
}

// Totals holds the derived money figures for a budget.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// roundMoney rounds half-up to two decimal places.
func roundMoney(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// LineSubtotal computes quantity times unit price rounded half-up to two
// decimals. Rounding happens once per line; totals sum the already-rounded
// values so each printed line reconciles against the column total.
func LineSubtotal(quantity, unitPrice float64) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	if unitPrice <= 0 {
		return 0, fmt.Errorf("%w: unit price must be positive", shared.ErrValidation)
	}
	return roundMoney(quantity * unitPrice), nil
}

// ComputeTotals derives subtotal, IVA amount and total from the line inputs.
// A budget must carry at least one line.
func ComputeTotals(lines []LineInput, taxRate float64) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("%w: a budget requires at least one line item", shared.ErrValidation)
	}
	if taxRate < 0 || taxRate > 1 {
		return Totals{}, fmt.Errorf("%w: tax rate %.4f out of range [0,1]", shared.ErrValidation, taxRate)
	}

	var subtotal float64
	for i, line := range lines {
		lineSubtotal, err := LineSubtotal(line.Quantity, line.UnitPrice)
		if err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		subtotal += lineSubtotal
	}

	taxAmount := roundMoney(subtotal * taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}, nil
}

// AdvanceAmount computes the anticipo collected upfront as a percentage of
// the budget total.
func AdvanceAmount(total, percent float64) (float64, error) {
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("%w: advance percentage %.2f out of range [0,100]", shared.ErrValidation, percent)
	}
	return roundMoney(total * percent / 100), nil
}
