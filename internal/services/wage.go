package services

import (
	"github.com/h4ks-com/palay/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeWage returns the total a task pays out. Piece-rate work pays
// quantity x unit price; wage work pays the flat rate once per task,
// whatever the hours.
func ComputeWage(paymentType models.PaymentType, quantity, unitPrice *decimal.Decimal, rate decimal.Decimal) (decimal.Decimal, error) {
	switch paymentType {
	case models.PaymentPieceRate:
		if quantity == nil || unitPrice == nil || !quantity.IsPositive() || !unitPrice.IsPositive() {
			return decimal.Zero, ErrPieceRateInputs
		}
		wage := quantity.Mul(*unitPrice).Round(2)
		if !wage.IsPositive() {
			return decimal.Zero, ErrPieceRateInputs
		}
		return wage, nil
	case models.PaymentWage:
		if !rate.IsPositive() {
			return decimal.Zero, ErrNoWageRate
		}
		wage := rate.Round(2)
		if !wage.IsPositive() {
			return decimal.Zero, ErrNoWageRate
		}
		return wage, nil
	}
	return decimal.Zero, ErrInvalidPaymentType
}

// SplitWage divides total into n shares that sum exactly to total. Leftover
// cents go one each to the first members.
func SplitWage(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, ErrEmptyGroup
	}
	if total.IsNegative() {
		return nil, newError(KindValidation, "wage amount cannot be negative")
	}

	cents := total.Round(2).Shift(2).IntPart()
	base := cents / int64(n)
	remainder := cents % int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		share := base
		if int64(i) < remainder {
			share++
		}
		shares[i] = decimal.New(share, -2)
	}
	return shares, nil
}
