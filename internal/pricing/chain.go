package pricing

import "github.com/shopspring/decimal"

// Result is the outcome of a discount chain calculation.
type Result struct {
	// Method is the method actually applied; it differs from the requested one
	// when a missing list price forced a direct price.
	Method Method `json:"method"`
	// PromoPrice is unset when a direct price was forced but none was entered,
	// and when the method is unknown.
	PromoPrice Price          `json:"promo_price"`
	Chain      []DiscountStep `json:"discount_chain"`
	Forced     bool           `json:"forced,omitempty"`
}

type chain []DiscountStep

func (c chain) add(t StepType, value *decimal.Decimal, source StepSource) chain {
	return append(c, DiscountStep{Type: t, Value: value, Source: source, Order: len(c) + 1})
}

// Calculate derives the promotional unit price for a packaging with unit list
// price list and optional unit sale price sale. A sale price only cascades when
// 0 < sale < list. With list <= 0 only a direct price is possible. An unknown
// method yields an unpriced result with no chain.
func Calculate(list Money, sale decimal.NullDecimal, m Method) Result {
	if !m.Kind.Valid() {
		return Result{Method: m}
	}
	if !list.IsPositive() && m.Kind != MethodDirect {
		return Result{
			Method: Method{Kind: MethodDirect},
			Chain:  chain(nil).add(StepNet, nil, SourcePromo),
			Forced: true,
		}
	}

	if m.Kind == MethodDirect {
		return Result{
			Method:     m,
			PromoPrice: NewPrice(m.Value),
			Chain:      chain(nil).add(StepNet, nil, SourcePromo),
		}
	}

	base := list
	var steps chain
	if ValidSale(list, sale) {
		base = sale.Decimal
		markdown := SaleMarkdown(list, sale.Decimal)
		steps = steps.add(StepPercentage, &markdown, SourcePriceListSale)
	}

	value := m.Value
	var price Money
	if m.Kind == MethodPercentage {
		factor := decimal.NewFromInt(1).Sub(value.Div(hundred))
		price = Round2(base.Mul(factor))
		steps = steps.add(StepPercentage, &value, SourcePromo)
	} else {
		price = Round2(base.Sub(value))
		steps = steps.add(StepAmount, &value, SourcePromo)
	}
	return Result{Method: m, PromoPrice: NewPrice(price), Chain: steps}
}

// SaleMarkdown is the whole percent by which sale discounts list.
func SaleMarkdown(list, sale Money) decimal.Decimal {
	if !list.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Sub(sale.Div(list)).Mul(hundred).Round(0)
}
