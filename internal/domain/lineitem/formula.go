package lineitem

import "github.com/shopspring/decimal"

// Formula is the closed set of ways a line item derives its value. Each
// implementation carries only the fields its kind needs.
type Formula interface {
	Kind() Kind
	// Operands lists referenced ids in author order.
	Operands() []string
	isFormula()
}

type ComponentRef struct {
	Component string
}

type Percentage struct {
	Of   string
	Rate decimal.Decimal
}

// PercentageSubtraction resolves to the same magnitude as Percentage but
// contributes negatively to any Sum or Subtraction that consumes it.
type PercentageSubtraction struct {
	Of   string
	Rate decimal.Decimal
}

type Sum struct {
	Items []string
}

type Subtraction struct {
	Base     string
	Subtract []string
}

type FixedAmount struct {
	Amount decimal.Decimal
}

// SectionTotal has no authored operands; its members come from category tags.
type SectionTotal struct {
	Section SectionKind
}

func (ComponentRef) Kind() Kind          { return KindComponent }
func (Percentage) Kind() Kind            { return KindPercentage }
func (PercentageSubtraction) Kind() Kind { return KindPercentageSubtraction }
func (Sum) Kind() Kind                   { return KindSum }
func (Subtraction) Kind() Kind           { return KindSubtraction }
func (FixedAmount) Kind() Kind           { return KindFixedAmount }
func (SectionTotal) Kind() Kind          { return KindSectionTotal }

func (f ComponentRef) Operands() []string          { return []string{f.Component} }
func (f Percentage) Operands() []string            { return []string{f.Of} }
func (f PercentageSubtraction) Operands() []string { return []string{f.Of} }
func (f Sum) Operands() []string                   { return append([]string(nil), f.Items...) }
func (FixedAmount) Operands() []string             { return nil }
func (SectionTotal) Operands() []string            { return nil }

func (f Subtraction) Operands() []string {
	out := make([]string, 0, len(f.Subtract)+1)
	out = append(out, f.Base)
	return append(out, f.Subtract...)
}

func (ComponentRef) isFormula()          {}
func (Percentage) isFormula()            {}
func (PercentageSubtraction) isFormula() {}
func (Sum) isFormula()                   {}
func (Subtraction) isFormula()           {}
func (FixedAmount) isFormula()           {}
func (SectionTotal) isFormula()          {}
