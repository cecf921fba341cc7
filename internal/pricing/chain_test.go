package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sale(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func requireMoney(t *testing.T, want string, got Price) {
	t.Helper()
	require.True(t, got.Valid, "promo price not set")
	require.Truef(t, dec(want).Equal(got.Decimal), "want %s, got %s", want, got.Decimal)
}

func requireStep(t *testing.T, step DiscountStep, typ StepType, value string, source StepSource, order int) {
	t.Helper()
	require.Equal(t, typ, step.Type)
	require.Equal(t, source, step.Source)
	require.Equal(t, order, step.Order)
	if value == "" {
		require.Nil(t, step.Value)
		return
	}
	require.NotNil(t, step.Value)
	require.Truef(t, dec(value).Equal(*step.Value), "want step value %s, got %s", value, step.Value)
}

func TestPercentageWithoutSale(t *testing.T) {
	res := Calculate(dec("100"), decimal.NullDecimal{}, Percentage(dec("10")))
	requireMoney(t, "90.00", res.PromoPrice)
	require.Len(t, res.Chain, 1)
	requireStep(t, res.Chain[0], StepPercentage, "10", SourcePromo, 1)
	require.False(t, res.Forced)
}

func TestPercentageCascadesOnSale(t *testing.T) {
	res := Calculate(dec("100"), sale("55"), Percentage(dec("10")))
	requireMoney(t, "49.5", res.PromoPrice)
	require.Len(t, res.Chain, 2)
	requireStep(t, res.Chain[0], StepPercentage, "45", SourcePriceListSale, 1)
	requireStep(t, res.Chain[1], StepPercentage, "10", SourcePromo, 2)
}

func TestAmountMethod(t *testing.T) {
	res := Calculate(dec("100"), decimal.NullDecimal{}, Amount(dec("12.5")))
	requireMoney(t, "87.5", res.PromoPrice)
	require.Len(t, res.Chain, 1)
	requireStep(t, res.Chain[0], StepAmount, "12.5", SourcePromo, 1)

	res = Calculate(dec("100"), sale("80"), Amount(dec("5")))
	requireMoney(t, "75", res.PromoPrice)
	requireStep(t, res.Chain[0], StepPercentage, "20", SourcePriceListSale, 1)
	requireStep(t, res.Chain[1], StepAmount, "5", SourcePromo, 2)
}

func TestAmountClampsAtZero(t *testing.T) {
	res := Calculate(dec("10"), decimal.NullDecimal{}, Amount(dec("25")))
	requireMoney(t, "0", res.PromoPrice)

	res = Calculate(dec("10"), decimal.NullDecimal{}, Percentage(dec("150")))
	requireMoney(t, "0", res.PromoPrice)
}

func TestSaleIgnoredWhenNotBelowList(t *testing.T) {
	for _, s := range []string{"100", "120", "0", "-5"} {
		res := Calculate(dec("100"), sale(s), Percentage(dec("10")))
		requireMoney(t, "90", res.PromoPrice)
		require.Len(t, res.Chain, 1, s)
	}
}

func TestSaleMarkdownRoundsToWholePercent(t *testing.T) {
	require.True(t, dec("33").Equal(SaleMarkdown(dec("30"), dec("20"))))
	require.True(t, dec("67").Equal(SaleMarkdown(dec("30"), dec("10"))))
	require.True(t, decimal.Zero.Equal(SaleMarkdown(decimal.Zero, dec("10"))))
}

func TestRoundingAtCents(t *testing.T) {
	res := Calculate(dec("19.99"), decimal.NullDecimal{}, Percentage(dec("15")))
	requireMoney(t, "16.99", res.PromoPrice)

	res = Calculate(dec("10.05"), decimal.NullDecimal{}, Percentage(dec("50")))
	requireMoney(t, "5.03", res.PromoPrice)
}

func TestNetMethodIsVerbatim(t *testing.T) {
	res := Calculate(dec("100"), sale("55"), Net(dec("42.123")))
	requireMoney(t, "42.123", res.PromoPrice)
	require.Len(t, res.Chain, 1)
	requireStep(t, res.Chain[0], StepNet, "", SourcePromo, 1)
	require.Equal(t, MethodDirect, res.Method.Kind)
}

func TestMissingListForcesDirect(t *testing.T) {
	for _, list := range []string{"0", "-1"} {
		res := Calculate(dec(list), decimal.NullDecimal{}, Percentage(dec("10")))
		require.True(t, res.Forced)
		require.Equal(t, MethodDirect, res.Method.Kind)
		require.False(t, res.PromoPrice.Valid)
		require.Len(t, res.Chain, 1)
		requireStep(t, res.Chain[0], StepNet, "", SourcePromo, 1)
	}

	res := Calculate(decimal.Zero, decimal.NullDecimal{}, Net(dec("7.5")))
	require.False(t, res.Forced)
	requireMoney(t, "7.5", res.PromoPrice)
}

func TestUnknownMethodIsUnpriced(t *testing.T) {
	for _, m := range []Method{{}, {Kind: "percent", Value: dec("10")}} {
		for _, list := range []string{"100", "0"} {
			res := Calculate(dec(list), sale("55"), m)
			require.False(t, res.PromoPrice.Valid, "method %q list %s", m.Kind, list)
			require.Empty(t, res.Chain)
			require.False(t, res.Forced)
			require.Equal(t, m, res.Method)
		}
	}
}

func TestMethodJSONRejectsUnknownKind(t *testing.T) {
	var m Method
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"amount","value":"2.5"}`), &m))
	require.Equal(t, MethodAmount, m.Kind)
	require.True(t, dec("2.5").Equal(m.Value))

	for _, doc := range []string{`{"kind":"percent","value":"10"}`, `{"value":"10"}`, `{}`} {
		err := json.Unmarshal([]byte(doc), &m)
		require.ErrorIs(t, err, ErrInvalidMethod, doc)
	}
}

func TestPriceJSONKeepsCents(t *testing.T) {
	res := Calculate(dec("100"), decimal.NullDecimal{}, Percentage(dec("10")))
	out, err := json.Marshal(res.PromoPrice)
	require.NoError(t, err)
	require.JSONEq(t, `"90.00"`, string(out))

	out, err = json.Marshal(NewPrice(dec("42.123")))
	require.NoError(t, err)
	require.JSONEq(t, `"42.123"`, string(out))

	out, err = json.Marshal(Price{})
	require.NoError(t, err)
	require.Equal(t, "null", string(out))

	var back Price
	require.NoError(t, json.Unmarshal([]byte(`"49.50"`), &back))
	requireMoney(t, "49.5", back)
	require.NoError(t, json.Unmarshal([]byte(`null`), &back))
	require.False(t, back.Valid)
}

func TestRound2AndLineTotal(t *testing.T) {
	require.True(t, dec("1.01").Equal(Round2(dec("1.005"))))
	require.True(t, dec("2.34").Equal(Round2(dec("2.344"))))
	require.True(t, decimal.Zero.Equal(Round2(dec("-3.2"))))

	require.True(t, dec("148.5").Equal(LineTotal(dec("49.5"), 3)))
	require.True(t, decimal.Zero.Equal(LineTotal(dec("49.5"), 0)))
}
