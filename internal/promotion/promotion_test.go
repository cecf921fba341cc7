package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/pricing"
)

func promo(id string, filter ...string) Promotion {
	return Promotion{ID: id, Discount: pricing.Percentage(decimal.NewFromInt(10)), TagFilter: filter}
}

func ids(promotions []Promotion) []string {
	out := make([]string, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterByTagsORSemantics(t *testing.T) {
	promotions := []Promotion{
		promo("universal"),
		promo("sconto-45", "categoria-di-sconto:sconto-45"),
		promo("either", "categoria-di-sconto:sconto-50", "categoria-clienti:idraulico"),
		promo("other", "categoria-clienti:elettricista"),
		{ID: "empty-filter", TagFilter: []string{}},
	}
	effective := []string{"categoria-di-sconto:sconto-45", "categoria-clienti:idraulico"}

	got := FilterByTags(promotions, effective)
	require.Equal(t, []string{"universal", "sconto-45", "either", "empty-filter"}, ids(got))
}

func TestFilterByTagsWithoutContextKeepsUniversalOnly(t *testing.T) {
	promotions := []Promotion{
		promo("a"),
		promo("b", "tier:gold"),
		{ID: "c", TagFilter: []string{}},
		promo("d", "tier:silver", "zona:nord"),
	}
	require.Equal(t, []string{"a", "c"}, ids(FilterByTags(promotions, nil)))
	require.Equal(t, []string{"a", "c"}, ids(FilterByTags(promotions, []string{})))
}

func TestFilterByTagsPreservesFieldsAndInput(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []Promotion{{
		ID:          "p1",
		Name:        "Spring",
		Discount:    pricing.Amount(decimal.NewFromInt(5)),
		TagFilter:   []string{"tier:gold"},
		MinQuantity: 2,
		Priority:    3,
		IsStackable: true,
		ValidFrom:   &from,
	}}
	snapshot := in[0].Clone()

	got := FilterByTags(in, []string{"tier:gold"})
	require.Equal(t, snapshot, got[0])

	got[0].TagFilter[0] = "tier:silver"
	*got[0].ValidFrom = from.Add(time.Hour)
	require.Equal(t, snapshot, in[0])
	require.NotNil(t, FilterByTags(nil, nil))
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	require.NoError(t, Promotion{ValidFrom: &before, ValidTo: &after}.Validate(now, 1))
	require.ErrorIs(t, Promotion{ValidFrom: &after}.Validate(now, 1), ErrNotActive)
	require.ErrorIs(t, Promotion{ValidTo: &before}.Validate(now, 1), ErrExpired)
	require.ErrorIs(t, Promotion{MinQuantity: 6}.Validate(now, 5), ErrMinQuantityUnmet)
	require.NoError(t, Promotion{MinQuantity: 6}.Validate(now, 6))
}

func TestApplicableOrdersAndStacks(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)
	promotions := []Promotion{
		{ID: "low-exclusive", Priority: 1},
		{ID: "stack-a", Priority: 5, IsStackable: true},
		{ID: "high-exclusive", Priority: 9},
		{ID: "expired", Priority: 10, ValidTo: &expired},
		{ID: "bulk", Priority: 8, MinQuantity: 10},
		{ID: "stack-b", Priority: 5, IsStackable: true},
	}

	got := Applicable(promotions, now, 2)
	require.Equal(t, []string{"high-exclusive", "stack-a", "stack-b"}, ids(got))

	got = Applicable(promotions, now, 12)
	require.Equal(t, []string{"high-exclusive", "stack-a", "stack-b"}, ids(got))
	require.Equal(t, "low-exclusive", promotions[0].ID)
}

func TestPriced(t *testing.T) {
	p := promo("p1")
	got := Priced(p, decimal.NewFromInt(100), decimal.NewNullDecimal(decimal.NewFromInt(55)))

	require.True(t, got.PromoPrice.Valid)
	require.True(t, decimal.RequireFromString("49.5").Equal(got.PromoPrice.Decimal))
	require.Len(t, got.DiscountChain, 2)
	require.Equal(t, pricing.SourcePriceListSale, got.DiscountChain[0].Source)
	require.Equal(t, pricing.SourcePromo, got.DiscountChain[1].Source)
	require.False(t, p.PromoPrice.Valid)
	require.Nil(t, p.DiscountChain)
}
