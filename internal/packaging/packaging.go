package packaging

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/promotion"
	"github.com/noah-isme/toko-pricing/internal/tags"
)

// Pricing holds the unit list and sale prices of a packaging option. When
// TagFilter is set the prices are only visible to matching contexts.
type Pricing struct {
	List      pricing.Money       `json:"list"`
	Sale      decimal.NullDecimal `json:"sale"`
	TagFilter []string            `json:"tag_filter,omitempty"`
}

// Option is a sellable unit of a product.
type Option struct {
	Code       string                `json:"code"`
	Label      string                `json:"label,omitempty"`
	Quantity   int                   `json:"quantity"`
	Pricing    *Pricing              `json:"pricing,omitempty"`
	Promotions []promotion.Promotion `json:"promotions,omitempty"`
	// LineTotal is the visible unit price times a positive Quantity, set by PriceOption.
	LineTotal pricing.Price `json:"line_total"`
}

// Resolution summarises what ResolveByTags did to one option.
type Resolution struct {
	PricingCleared     bool
	PromotionsKept     int
	PromotionsFiltered int
}

// ResolveByTags returns copies of options with tag-scoped content hidden from
// contexts that do not match. Options are resolved independently of each other.
func ResolveByTags(options []Option, effectiveTags []string) []Option {
	out, _ := ResolveWithReport(options, effectiveTags)
	return out
}

// ResolveWithReport is ResolveByTags plus a per-option Resolution, in order.
func ResolveWithReport(options []Option, effectiveTags []string) ([]Option, []Resolution) {
	out := make([]Option, 0, len(options))
	report := make([]Resolution, 0, len(options))
	for _, opt := range options {
		resolved, res := resolveOption(opt, effectiveTags)
		out = append(out, resolved)
		report = append(report, res)
	}
	return out, report
}

func resolveOption(opt Option, effectiveTags []string) (Option, Resolution) {
	var res Resolution
	out := Option{Code: opt.Code, Label: opt.Label, Quantity: opt.Quantity}
	if opt.Pricing != nil {
		if tags.Visible(opt.Pricing.TagFilter, effectiveTags) {
			p := opt.Pricing.clone()
			out.Pricing = &p
		} else {
			res.PricingCleared = true
		}
	}
	if opt.Promotions != nil {
		out.Promotions = promotion.FilterByTags(opt.Promotions, effectiveTags)
		res.PromotionsKept = len(out.Promotions)
		res.PromotionsFiltered = len(opt.Promotions) - len(out.Promotions)
	}
	return out, res
}

// PriceOption returns a copy of opt whose promotions carry their promotional
// price and discount chain, and whose LineTotal is set when pricing is
// visible. Without visible pricing only direct promotions can be priced; the
// others get a forced net step and no price.
func PriceOption(opt Option) Option {
	out := opt.clone()
	list := decimal.Zero
	var sale decimal.NullDecimal
	out.LineTotal = pricing.Price{}
	if out.Pricing != nil {
		list = out.Pricing.List
		sale = out.Pricing.Sale
		if out.Quantity > 0 {
			out.LineTotal = pricing.NewPrice(pricing.LineTotal(out.Pricing.UnitPrice(), out.Quantity))
		}
	}
	for i, p := range out.Promotions {
		out.Promotions[i] = promotion.Priced(p, list, sale)
	}
	return out
}

// UnitPrice is the best visible unit price before promotions: the sale price
// when it is a valid markdown, the list price otherwise.
func (p Pricing) UnitPrice() pricing.Money {
	if pricing.ValidSale(p.List, p.Sale) {
		return p.Sale.Decimal
	}
	return p.List
}

func (p Pricing) clone() Pricing {
	out := p
	out.TagFilter = slices.Clone(p.TagFilter)
	return out
}

func (o Option) clone() Option {
	out := Option{Code: o.Code, Label: o.Label, Quantity: o.Quantity}
	if o.Pricing != nil {
		p := o.Pricing.clone()
		out.Pricing = &p
	}
	if o.Promotions != nil {
		out.Promotions = make([]promotion.Promotion, len(o.Promotions))
		for i, p := range o.Promotions {
			out.Promotions[i] = p.Clone()
		}
	}
	return out
}
