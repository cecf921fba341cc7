package promotion

import (
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/tags"
)

var (
	// ErrNotActive is returned when a promotion is evaluated before its window opens.
	ErrNotActive = errors.New("promotion not active")
	// ErrExpired is returned when the promotion window has already closed.
	ErrExpired = errors.New("promotion expired")
	// ErrMinQuantityUnmet indicates the requested quantity is below the promotion minimum.
	ErrMinQuantityUnmet = errors.New("promotion minimum quantity not met")
)

// Promotion is a discount attached to a packaging option.
type Promotion struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name,omitempty"`
	Discount      pricing.Method         `json:"discount"`
	TagFilter     []string               `json:"tag_filter,omitempty"`
	MinQuantity   int                    `json:"min_quantity,omitempty"`
	Priority      int                    `json:"priority,omitempty"`
	IsStackable   bool                   `json:"is_stackable,omitempty"`
	ValidFrom     *time.Time             `json:"valid_from,omitempty"`
	ValidTo       *time.Time             `json:"valid_to,omitempty"`
	PromoPrice    pricing.Price          `json:"promo_price"`
	DiscountChain []pricing.DiscountStep `json:"discount_chain,omitempty"`
}

// Universal reports whether the promotion applies regardless of tags.
func (p Promotion) Universal() bool {
	return len(p.TagFilter) == 0
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Promotion) Clone() Promotion {
	out := p
	out.TagFilter = slices.Clone(p.TagFilter)
	out.DiscountChain = cloneChain(p.DiscountChain)
	if p.ValidFrom != nil {
		from := *p.ValidFrom
		out.ValidFrom = &from
	}
	if p.ValidTo != nil {
		to := *p.ValidTo
		out.ValidTo = &to
	}
	return out
}

// FilterByTags keeps universal promotions and those whose tag filter shares at
// least one tag with effectiveTags. Order is preserved.
func FilterByTags(promotions []Promotion, effectiveTags []string) []Promotion {
	out := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if tags.Visible(p.TagFilter, effectiveTags) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Validate ensures the promotion can be applied at now for quantity units.
func (p Promotion) Validate(now time.Time, quantity int) error {
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return ErrNotActive
	}
	if p.ValidTo != nil && now.After(*p.ValidTo) {
		return ErrExpired
	}
	if p.MinQuantity > 0 && quantity < p.MinQuantity {
		return ErrMinQuantityUnmet
	}
	return nil
}

// Applicable returns the promotions usable at now for quantity, highest
// priority first. Stackable promotions are all kept; of the non-stackable ones
// only the highest priority survives.
func Applicable(promotions []Promotion, now time.Time, quantity int) []Promotion {
	valid := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.Validate(now, quantity) == nil {
			valid = append(valid, p.Clone())
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Priority > valid[j].Priority
	})
	out := valid[:0]
	exclusive := false
	for _, p := range valid {
		if !p.IsStackable {
			if exclusive {
				continue
			}
			exclusive = true
		}
		out = append(out, p)
	}
	return out
}

// Priced returns a copy of p carrying the promotional price and discount chain
// derived from the unit list and sale prices.
func Priced(p Promotion, list pricing.Money, sale decimal.NullDecimal) Promotion {
	out := p.Clone()
	res := pricing.Calculate(list, sale, p.Discount)
	out.PromoPrice = res.PromoPrice
	out.DiscountChain = res.Chain
	return out
}

func cloneChain(chain []pricing.DiscountStep) []pricing.DiscountStep {
	if chain == nil {
		return nil
	}
	out := make([]pricing.DiscountStep, len(chain))
	for i, step := range chain {
		out[i] = step
		if step.Value != nil {
			v := *step.Value
			out[i].Value = &v
		}
	}
	return out
}
