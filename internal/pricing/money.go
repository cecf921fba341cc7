package pricing

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in major units.
type Money = decimal.Decimal

var hundred = decimal.NewFromInt(100)

// Round2 clamps v at zero and rounds it half-up to cents. Every derived
// monetary value goes through it.
func Round2(v Money) Money {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v.Round(2)
}

// ValidSale reports whether sale is a usable markdown of list: 0 < sale < list.
func ValidSale(list Money, sale decimal.NullDecimal) bool {
	return sale.Valid && sale.Decimal.IsPositive() && sale.Decimal.LessThan(list)
}

// LineTotal multiplies a unit price by a packaging quantity multiplier.
func LineTotal(unit Money, quantity int) Money {
	if quantity <= 0 {
		return decimal.Zero
	}
	return Round2(unit.Mul(decimal.NewFromInt(int64(quantity))))
}

// Price is an optional derived price. It is written with at least two
// decimals so cent amounts keep their precision on the wire.
type Price struct {
	decimal.NullDecimal
}

// NewPrice returns a set Price.
func NewPrice(v Money) Price {
	return Price{decimal.NewNullDecimal(v)}
}

// String renders the price, padded to cents; an unset price renders empty.
func (p Price) String() string {
	if !p.Valid {
		return ""
	}
	if p.Decimal.Exponent() >= -2 {
		return p.Decimal.StringFixed(2)
	}
	return p.Decimal.String()
}

// MarshalJSON writes the price as a quoted decimal, or null when unset.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted or bare decimal, or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}
	return p.NullDecimal.UnmarshalJSON(data)
}
