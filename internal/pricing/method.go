package pricing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidMethod is returned for a discount whose kind is not percentage,
// amount or direct.
var ErrInvalidMethod = errors.New("pricing: invalid discount method")

// MethodKind selects how a promotional price is derived.
type MethodKind string

const (
	MethodPercentage MethodKind = "percentage"
	MethodAmount     MethodKind = "amount"
	MethodDirect     MethodKind = "direct"
)

// Valid reports whether k is a known method.
func (k MethodKind) Valid() bool {
	switch k {
	case MethodPercentage, MethodAmount, MethodDirect:
		return true
	}
	return false
}

// Method is a discount definition: exactly one kind with its value. For
// percentage the value is the percent off, for amount the money off, and for
// direct the net price itself.
type Method struct {
	Kind  MethodKind      `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Percentage builds a percent-off method.
func Percentage(pct decimal.Decimal) Method { return Method{Kind: MethodPercentage, Value: pct} }

// Amount builds a money-off method.
func Amount(off Money) Method { return Method{Kind: MethodAmount, Value: off} }

// Net builds a direct net price method.
func Net(price Money) Method { return Method{Kind: MethodDirect, Value: price} }

// UnmarshalJSON decodes a method and rejects unknown kinds.
func (m *Method) UnmarshalJSON(data []byte) error {
	type plain Method
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !v.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, v.Kind)
	}
	*m = Method(v)
	return nil
}

func (m Method) String() string {
	return fmt.Sprintf("%s(%s)", m.Kind, m.Value.String())
}

// StepType is the kind of a discount chain step.
type StepType string

const (
	StepPercentage StepType = "percentage"
	StepAmount     StepType = "amount"
	StepNet        StepType = "net"
)

// StepSource records where a chain step comes from.
type StepSource string

const (
	SourcePriceListSale StepSource = "price_list_sale"
	SourcePromo         StepSource = "promo"
)

// DiscountStep is one entry of the audit trail explaining a promotional price.
type DiscountStep struct {
	Type   StepType         `json:"type"`
	Value  *decimal.Decimal `json:"value,omitempty"`
	Source StepSource       `json:"source"`
	Order  int              `json:"order"`
}
