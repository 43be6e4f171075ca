package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used for empty carts and freshly created orders.
var DefaultCurrency = currency.EUR

// Money is an amount in minor units (cents for EUR) tagged with an ISO 4217 currency.
// The zero value is not valid money; use NewMoney, MoneyFromDecimal or ZeroMoney.
type Money struct {
	amount   int64
	currency currency.Unit
}

func NewMoney(minorUnits int64, code string) (Money, error) {
	unit, err := parseCurrency(code)
	if err != nil {
		return Money{}, err
	}

	return newMoney(minorUnits, unit)
}

// MoneyFromDecimal converts a major-unit amount (59.99) into minor units (5999)
// using the currency's standard scale, rounding half away from zero.
func MoneyFromDecimal(amount decimal.Decimal, code string) (Money, error) {
	unit, err := parseCurrency(code)
	if err != nil {
		return Money{}, err
	}

	scale, _ := currency.Standard.Rounding(unit)
	minor := amount.Shift(int32(scale)).Round(0)
	if minor.GreaterThan(decimal.NewFromInt(MaxMinorUnits)) {
		return Money{}, fmt.Errorf("%w: %s", ErrMoneyOutOfRange, amount)
	}

	return newMoney(minor.IntPart(), unit)
}

func ZeroMoney(unit currency.Unit) Money {
	return Money{currency: unit}
}

// MaxMinorUnits bounds every amount, line subtotal and total.
const MaxMinorUnits = int64(1) << 53

func newMoney(minorUnits int64, unit currency.Unit) (Money, error) {
	if minorUnits < 0 {
		return Money{}, fmt.Errorf("%w: %d", ErrNegativeMoney, minorUnits)
	}
	if minorUnits > MaxMinorUnits {
		return Money{}, fmt.Errorf("%w: %d", ErrMoneyOutOfRange, minorUnits)
	}

	return Money{amount: minorUnits, currency: unit}, nil
}

func parseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	return unit, nil
}

func (m Money) MinorUnits() int64 {
	return m.amount
}

func (m Money) Currency() currency.Unit {
	return m.currency
}

// Decimal returns the amount in major units, e.g. 199.97 for 19997 EUR cents.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -m.scale())
}

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	// both operands are at most MaxMinorUnits, so the sum cannot wrap
	return newMoney(m.amount+other.amount, m.currency)
}

func (m Money) Multiply(factor int64) (Money, error) {
	if factor < 0 {
		return Money{}, fmt.Errorf("%w: factor %d", ErrNegativeMoney, factor)
	}
	if factor > 0 && m.amount > MaxMinorUnits/factor {
		return Money{}, fmt.Errorf("%w: %d x %d", ErrMoneyOutOfRange, m.amount, factor)
	}

	return newMoney(m.amount*factor, m.currency)
}

func (m Money) times(q Quantity) (Money, error) {
	return m.Multiply(int64(q.Int()))
}

type line interface {
	UnitPrice() Money
	Quantity() Quantity
}

// sumLines totals unit price x quantity over lines, failing when a subtotal or
// the running sum leaves the Money range or mixes currencies.
func sumLines[L line](unit currency.Unit, lines []L) (Money, error) {
	total := ZeroMoney(unit)

	for _, l := range lines {
		subtotal, err := l.UnitPrice().times(l.Quantity())
		if err != nil {
			return Money{}, err
		}

		total, err = total.Add(subtotal)
		if err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

func (m Money) Equal(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

func (m Money) String() string {
	return m.Decimal().StringFixed(m.scale()) + " " + m.currency.String()
}

func (m Money) scale() int32 {
	scale, _ := currency.Standard.Rounding(m.currency)
	return int32(scale)
}
