package lineitem

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Spec is the loosely-shaped inbound record an authoring tool hands over.
// Compile turns it into a LineItem with a typed Formula.
type Spec struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	FormulaKind Kind             `json:"formula_kind" yaml:"formula_kind"`
	Operands    []string         `json:"operands,omitempty" yaml:"operands,omitempty"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty" yaml:"amount,omitempty"`
	Category    Category         `json:"category,omitempty" yaml:"category,omitempty"`
	Section     SectionKind      `json:"section,omitempty" yaml:"section,omitempty"`
	Order       *int             `json:"order,omitempty" yaml:"order,omitempty"`
}

type TemplateSpec struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version int    `json:"version" yaml:"version"`
	Items   []Spec `json:"items" yaml:"items"`
}

func Compile(spec TemplateSpec) (*Template, error) {
	tmpl := &Template{
		ID:      spec.ID,
		Name:    spec.Name,
		Version: spec.Version,
		Items:   make([]LineItem, 0, len(spec.Items)),
	}
	for i, record := range spec.Items {
		item, err := CompileItem(record)
		if err != nil {
			return nil, err
		}
		if record.Order == nil {
			item.Order = i
		}
		tmpl.Items = append(tmpl.Items, item)
	}
	return tmpl, nil
}

func CompileItem(spec Spec) (LineItem, error) {
	item := LineItem{ID: spec.ID, Name: spec.Name, Category: spec.Category}
	if spec.ID == "" {
		return LineItem{}, &InvalidLineItemError{Reason: "missing id"}
	}
	if item.Name == "" {
		item.Name = spec.ID
	}
	if spec.Order != nil {
		item.Order = *spec.Order
	}
	if spec.Category != "" && !spec.Category.Valid() {
		return LineItem{}, invalid(spec.ID, "unknown category %q", spec.Category)
	}

	ops := spec.Operands
	switch spec.FormulaKind {
	case KindComponent:
		if len(ops) != 1 {
			return LineItem{}, invalid(spec.ID, "component formula takes exactly one operand, got %d", len(ops))
		}
		item.Formula = ComponentRef{Component: ops[0]}
	case KindPercentage, KindPercentageSubtraction:
		if len(ops) != 1 {
			return LineItem{}, invalid(spec.ID, "%s formula takes exactly one operand, got %d", spec.FormulaKind, len(ops))
		}
		if spec.Percentage == nil {
			return LineItem{}, invalid(spec.ID, "%s formula requires a percentage", spec.FormulaKind)
		}
		if spec.FormulaKind == KindPercentage {
			item.Formula = Percentage{Of: ops[0], Rate: *spec.Percentage}
		} else {
			item.Formula = PercentageSubtraction{Of: ops[0], Rate: *spec.Percentage}
		}
	case KindSum:
		if len(ops) == 0 {
			return LineItem{}, invalid(spec.ID, "sum formula needs at least one operand")
		}
		item.Formula = Sum{Items: append([]string(nil), ops...)}
	case KindSubtraction:
		if len(ops) < 2 {
			return LineItem{}, invalid(spec.ID, "subtraction formula needs a base and at least one item to subtract")
		}
		item.Formula = Subtraction{Base: ops[0], Subtract: append([]string(nil), ops[1:]...)}
	case KindFixedAmount:
		if len(ops) != 0 {
			return LineItem{}, invalid(spec.ID, "fixed_amount formula takes no operands")
		}
		if spec.Amount == nil {
			return LineItem{}, invalid(spec.ID, "fixed_amount formula requires an amount")
		}
		item.Formula = FixedAmount{Amount: *spec.Amount}
	case KindSectionTotal:
		if len(ops) != 0 {
			return LineItem{}, invalid(spec.ID, "section_total members come from categories, operands are not allowed")
		}
		if !spec.Section.Valid() {
			return LineItem{}, invalid(spec.ID, "unknown section %q", spec.Section)
		}
		item.Formula = SectionTotal{Section: spec.Section}
	default:
		return LineItem{}, &UnsupportedFormulaKindError{LineItemID: spec.ID, Kind: spec.FormulaKind}
	}
	return item, nil
}

func invalid(id, format string, args ...any) error {
	return &InvalidLineItemError{LineItemID: id, Reason: fmt.Sprintf(format, args...)}
}
