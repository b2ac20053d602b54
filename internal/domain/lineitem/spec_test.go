package lineitem

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func TestCompileBuildsTaggedFormulas(t *testing.T) {
	raw := `{
  "id": "tpl-outsourcing",
  "name": "Outsourcing",
  "version": 3,
  "items": [
    {"id": "basic", "name": "Basic", "formula_kind": "component", "operands": ["basic_salary"]},
    {"id": "housing", "name": "Housing", "formula_kind": "percentage", "operands": ["basic"], "percentage": 20, "category": "salary_allowance"},
    {"id": "tax", "name": "PAYE", "formula_kind": "percentage_subtraction", "operands": ["basic"], "percentage": "7.5", "category": "statutory_deduction"},
    {"id": "gross", "name": "Gross", "formula_kind": "sum", "operands": ["basic", "housing"]},
    {"id": "net", "name": "Net", "formula_kind": "subtraction", "operands": ["gross", "fee"], "order": 40},
    {"id": "fee", "name": "Admin fee", "formula_kind": "fixed_amount", "amount": "15000.50", "category": "management_fee"},
    {"id": "grand", "name": "Grand Total", "formula_kind": "section_total", "section": "grand_total"}
  ]
}`
	var spec TemplateSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	tmpl, err := Compile(spec)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	if tmpl.ID != "tpl-outsourcing" || tmpl.Version != 3 || len(tmpl.Items) != 7 {
		t.Fatalf("unexpected template header: %+v", tmpl)
	}
	if f, ok := tmpl.Items[1].Formula.(Percentage); !ok || f.Of != "basic" || !f.Rate.Equal(d("20")) {
		t.Fatalf("unexpected housing formula: %#v", tmpl.Items[1].Formula)
	}
	if f, ok := tmpl.Items[2].Formula.(PercentageSubtraction); !ok || !f.Rate.Equal(d("7.5")) {
		t.Fatalf("unexpected tax formula: %#v", tmpl.Items[2].Formula)
	}
	if f, ok := tmpl.Items[4].Formula.(Subtraction); !ok || f.Base != "gross" || len(f.Subtract) != 1 || f.Subtract[0] != "fee" {
		t.Fatalf("unexpected net formula: %#v", tmpl.Items[4].Formula)
	}
	if f, ok := tmpl.Items[5].Formula.(FixedAmount); !ok || !f.Amount.Equal(d("15000.5")) {
		t.Fatalf("unexpected fee formula: %#v", tmpl.Items[5].Formula)
	}
	if f, ok := tmpl.Items[6].Formula.(SectionTotal); !ok || f.Section != SectionGrandTotal {
		t.Fatalf("unexpected grand formula: %#v", tmpl.Items[6].Formula)
	}
	if tmpl.Items[4].Order != 40 || tmpl.Items[3].Order != 3 {
		t.Fatalf("expected explicit and positional orders, got %d and %d", tmpl.Items[4].Order, tmpl.Items[3].Order)
	}

	catalog := mustCatalog(t, Component{ID: "basic_salary", Category: CategorySalaryAllowance})
	plan := mustResolve(t, tmpl, catalog)
	result := mustEvaluate(t, plan, Context{Values: map[string]decimal.Decimal{"basic_salary": d("100000")}})
	expectValue(t, result, "net", "104999.50")
	expectValue(t, result, "grand", "142500.50")
}

func TestCompileRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
	}{
		{"missing id", Spec{FormulaKind: KindFixedAmount, Amount: ptr(d("1"))}},
		{"component arity", Spec{ID: "a", FormulaKind: KindComponent}},
		{"percentage without rate", Spec{ID: "a", FormulaKind: KindPercentage, Operands: []string{"b"}}},
		{"percentage arity", Spec{ID: "a", FormulaKind: KindPercentageSubtraction, Operands: []string{"b", "c"}, Percentage: ptr(d("1"))}},
		{"empty sum", Spec{ID: "a", FormulaKind: KindSum}},
		{"subtraction without subtrahend", Spec{ID: "a", FormulaKind: KindSubtraction, Operands: []string{"b"}}},
		{"fixed amount with operands", Spec{ID: "a", FormulaKind: KindFixedAmount, Operands: []string{"b"}, Amount: ptr(d("1"))}},
		{"fixed amount without amount", Spec{ID: "a", FormulaKind: KindFixedAmount}},
		{"section with operands", Spec{ID: "a", FormulaKind: KindSectionTotal, Section: SectionGrandTotal, Operands: []string{"b"}}},
		{"unknown section", Spec{ID: "a", FormulaKind: KindSectionTotal, Section: "subtotal"}},
		{"unknown category", Spec{ID: "a", FormulaKind: KindFixedAmount, Amount: ptr(d("1")), Category: "bonus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileItem(tc.spec)
			var invalidErr *InvalidLineItemError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("expected InvalidLineItemError, got %v", err)
			}
			if !IsStructural(err) {
				t.Fatal("expected structural error")
			}
		})
	}
}

func TestCompileRejectsUnsupportedKind(t *testing.T) {
	_, err := Compile(TemplateSpec{Items: []Spec{{ID: "bonus", FormulaKind: "multiply", Operands: []string{"a", "b"}}}})

	var kindErr *UnsupportedFormulaKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected UnsupportedFormulaKindError, got %v", err)
	}
	if kindErr.LineItemID != "bonus" || kindErr.Kind != "multiply" {
		t.Fatalf("unexpected error fields: %+v", kindErr)
	}
}

func TestNewCatalogValidatesComponents(t *testing.T) {
	if _, err := NewCatalog([]Component{{ID: "a", Category: "bonus"}}); err == nil {
		t.Fatal("expected error for unknown category")
	}
	_, err := NewCatalog([]Component{
		{ID: "a", Category: CategorySalaryAllowance},
		{ID: "a", Category: CategoryEmployerCost},
	})
	var dupErr *DuplicateIDError
	if !errors.As(err, &dupErr) || dupErr.ID != "a" {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	catalog := mustCatalog(t,
		Component{ID: "b", Category: CategoryEmployerCost},
		Component{ID: "a", Category: CategorySalaryAllowance},
	)
	components := catalog.Components()
	if catalog.Len() != 2 || components[0].ID != "b" || components[1].ID != "a" {
		t.Fatalf("expected load order to be kept, got %+v", components)
	}
	var empty *Catalog
	if _, ok := empty.Lookup("a"); ok || empty.Len() != 0 {
		t.Fatal("expected nil catalog to behave as empty")
	}
}
