package lineitem

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Evaluate computes every line item of the plan for one subject. It is a pure
// function of its inputs; the first failing item aborts the pass.
func Evaluate(plan *Plan, ctx Context) (Resolved, error) {
	if plan == nil {
		return Resolved{}, &InvalidLineItemError{Reason: "plan is nil"}
	}
	p := pass{plan: plan, ctx: ctx, values: make(map[string]decimal.Decimal, len(plan.order))}
	for _, id := range plan.order {
		item := plan.items[id]
		value, err := p.evaluate(item)
		if err != nil {
			return Resolved{}, &EvaluationError{Subject: ctx.Subject, LineItemID: id, Err: err}
		}
		p.values[id] = value
	}

	totals, err := Totals(plan, p.values)
	if err != nil {
		return Resolved{}, &EvaluationError{Subject: ctx.Subject, Err: err}
	}
	return Resolved{Subject: ctx.Subject, Values: p.values, Totals: totals}, nil
}

type pass struct {
	plan   *Plan
	ctx    Context
	values map[string]decimal.Decimal
}

func (p *pass) evaluate(item LineItem) (decimal.Decimal, error) {
	switch f := item.Formula.(type) {
	case ComponentRef:
		return p.component(item.ID, f.Component)
	case FixedAmount:
		return f.Amount, nil
	case Percentage:
		return p.percentage(item.ID, f.Of, f.Rate)
	case PercentageSubtraction:
		return p.percentage(item.ID, f.Of, f.Rate)
	case Sum:
		total := decimal.Zero
		for _, operand := range f.Items {
			value, err := p.signed(item.ID, operand)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(value)
		}
		return total, nil
	case Subtraction:
		// Operands are signed, so a percentage_subtraction operand is negated
		// twice: subtraction(gross, tax) yields gross + tax, while
		// sum(gross, tax) yields gross - tax.
		result, err := p.signed(item.ID, f.Base)
		if err != nil {
			return decimal.Zero, err
		}
		for _, operand := range f.Subtract {
			value, err := p.signed(item.ID, operand)
			if err != nil {
				return decimal.Zero, err
			}
			result = result.Sub(value)
		}
		return result, nil
	case SectionTotal:
		return SectionValue(p.plan, f.Section, p.values)
	case nil:
		return decimal.Zero, &UnsupportedFormulaKindError{LineItemID: item.ID}
	default:
		return decimal.Zero, &UnsupportedFormulaKindError{LineItemID: item.ID, Kind: f.Kind()}
	}
}

func (p *pass) percentage(itemID, of string, rate decimal.Decimal) (decimal.Decimal, error) {
	base, err := p.operand(itemID, of)
	if err != nil {
		return decimal.Zero, err
	}
	return base.Mul(rate).Shift(-2), nil
}

// operand returns the reported value of a line item or component.
func (p *pass) operand(itemID, id string) (decimal.Decimal, error) {
	if _, ok := p.plan.items[id]; ok {
		value, ok := p.values[id]
		if !ok {
			return decimal.Zero, fmt.Errorf("operand %q evaluated out of order", id)
		}
		return value, nil
	}
	if _, ok := p.plan.catalog.Lookup(id); ok {
		return p.component(itemID, id)
	}
	return decimal.Zero, &UnknownReferenceError{LineItemID: itemID, OperandID: id}
}

// signed is the contribution of an operand to a sum or subtraction.
// percentage_subtraction items count against the aggregate.
func (p *pass) signed(itemID, id string) (decimal.Decimal, error) {
	value, err := p.operand(itemID, id)
	if err != nil {
		return decimal.Zero, err
	}
	if target, ok := p.plan.items[id]; ok && target.Formula.Kind() == KindPercentageSubtraction {
		return value.Neg(), nil
	}
	return value, nil
}

func (p *pass) component(itemID, componentID string) (decimal.Decimal, error) {
	value, ok := p.ctx.Values[componentID]
	if !ok {
		return decimal.Zero, &MissingComponentValueError{LineItemID: itemID, ComponentID: componentID}
	}
	return value, nil
}
