package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDraftNormalizeForcesDirect(t *testing.T) {
	d := Draft{Kind: MethodPercentage, Percentage: sale("10"), Amount: sale("3"), NetPrice: sale("8")}

	got := d.Normalize(decimal.Zero)
	require.Equal(t, MethodDirect, got.Kind)
	require.False(t, got.Percentage.Valid)
	require.False(t, got.Amount.Valid)
	require.True(t, got.NetPrice.Valid)

	require.Equal(t, MethodPercentage, d.Kind)
	require.True(t, d.Percentage.Valid)
}

func TestDraftSelect(t *testing.T) {
	d := Draft{Kind: MethodDirect}

	forced := d.Select(MethodAmount, decimal.Zero)
	require.Equal(t, MethodDirect, forced.Kind)

	freed := forced.Select(MethodAmount, dec("100"))
	require.Equal(t, MethodAmount, freed.Kind)

	unknown := freed.Select(MethodKind("bogus"), dec("100"))
	require.Equal(t, MethodAmount, unknown.Kind)
}

func TestDraftDefaultsToPercentage(t *testing.T) {
	require.Equal(t, MethodPercentage, Draft{}.Normalize(dec("10")).Kind)
}

func TestDraftMethod(t *testing.T) {
	_, ok := Draft{Kind: MethodPercentage}.Method()
	require.False(t, ok)

	m, ok := Draft{Kind: MethodAmount, Amount: sale("4")}.Method()
	require.True(t, ok)
	require.Equal(t, MethodAmount, m.Kind)
	require.True(t, dec("4").Equal(m.Value))
}

func TestDraftPreview(t *testing.T) {
	d := Draft{Kind: MethodPercentage, Percentage: sale("10")}
	_, res, ok := d.Preview(dec("100"), decimal.NullDecimal{})
	require.True(t, ok)
	requireMoney(t, "90", res.PromoPrice)

	normalized, _, ok := d.Preview(decimal.Zero, decimal.NullDecimal{})
	require.False(t, ok)
	require.Equal(t, MethodDirect, normalized.Kind)

	d.NetPrice = sale("12")
	_, res, ok = d.Preview(decimal.Zero, decimal.NullDecimal{})
	require.True(t, ok)
	requireMoney(t, "12", res.PromoPrice)
	require.Equal(t, StepNet, res.Chain[0].Type)
}
