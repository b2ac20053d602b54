package lineitem

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryTotal sums the reported values of every categorised line item.
func CategoryTotal(plan *Plan, category Category, values map[string]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range plan.byCategory[category] {
		value, ok := values[id]
		if !ok {
			return decimal.Zero, fmt.Errorf("section member %q has no value", id)
		}
		total = total.Add(value)
	}
	return total, nil
}

// SectionValue is the sum of the category totals a section is built from.
func SectionValue(plan *Plan, section SectionKind, values map[string]decimal.Decimal) (decimal.Decimal, error) {
	if !section.Valid() {
		return decimal.Zero, fmt.Errorf("unknown section %q", section)
	}
	total := decimal.Zero
	for _, category := range section.Members() {
		value, err := CategoryTotal(plan, category, values)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, nil
}

func Totals(plan *Plan, values map[string]decimal.Decimal) (map[SectionKind]decimal.Decimal, error) {
	byCategory := make(map[Category]decimal.Decimal, len(Categories))
	for _, category := range Categories {
		value, err := CategoryTotal(plan, category, values)
		if err != nil {
			return nil, err
		}
		byCategory[category] = value
	}

	totals := make(map[SectionKind]decimal.Decimal, len(Sections))
	for _, section := range Sections {
		total := decimal.Zero
		for _, category := range section.Members() {
			total = total.Add(byCategory[category])
		}
		totals[section] = total
	}
	return totals, nil
}
