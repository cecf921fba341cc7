package pricing

import "github.com/shopspring/decimal"

// Draft is the state of a promotion being authored: the selected method and
// whatever values were typed for each one.
type Draft struct {
	Kind       MethodKind          `json:"kind"`
	Percentage decimal.NullDecimal `json:"percentage"`
	Amount     decimal.NullDecimal `json:"amount"`
	NetPrice   decimal.NullDecimal `json:"net_price"`
}

// Normalize applies the forced transition: without a positive list price the
// draft can only carry a direct price, so percentage and amount are cleared.
func (d Draft) Normalize(list Money) Draft {
	if !d.Kind.Valid() {
		d.Kind = MethodPercentage
	}
	if list.IsPositive() {
		return d
	}
	d.Kind = MethodDirect
	d.Percentage = decimal.NullDecimal{}
	d.Amount = decimal.NullDecimal{}
	return d
}

// Select switches the draft to kind. The switch is ignored while list <= 0.
func (d Draft) Select(kind MethodKind, list Money) Draft {
	if kind.Valid() {
		d.Kind = kind
	}
	return d.Normalize(list)
}

// Method returns the active discount method. ok is false when the selected
// method has no value yet.
func (d Draft) Method() (m Method, ok bool) {
	switch d.Kind {
	case MethodPercentage:
		if d.Percentage.Valid {
			return Percentage(d.Percentage.Decimal), true
		}
	case MethodAmount:
		if d.Amount.Valid {
			return Amount(d.Amount.Decimal), true
		}
	case MethodDirect:
		if d.NetPrice.Valid {
			return Net(d.NetPrice.Decimal), true
		}
	}
	return Method{}, false
}

// Preview normalizes the draft against list and calculates its chain.
func (d Draft) Preview(list Money, sale decimal.NullDecimal) (Draft, Result, bool) {
	d = d.Normalize(list)
	m, ok := d.Method()
	if !ok {
		return d, Result{}, false
	}
	return d, Calculate(list, sale, m), true
}
