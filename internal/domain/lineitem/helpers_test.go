package lineitem

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func mustCatalog(t *testing.T, components ...Component) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(components)
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	return catalog
}

func mustResolve(t *testing.T, tmpl *Template, catalog *Catalog) *Plan {
	t.Helper()
	plan, err := Resolve(tmpl, catalog)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	return plan
}

func mustEvaluate(t *testing.T, plan *Plan, ctx Context) Resolved {
	t.Helper()
	result, err := Evaluate(plan, ctx)
	if err != nil {
		t.Fatalf("unexpected evaluate error: %v", err)
	}
	return result
}

func expectValue(t *testing.T, result Resolved, id, want string) {
	t.Helper()
	got, ok := result.Value(id)
	if !ok {
		t.Fatalf("expected value for %s, got none", id)
	}
	if !got.Equal(d(want)) {
		t.Fatalf("expected %s = %s, got %s", id, want, got)
	}
}

func item(id string, category Category, formula Formula) LineItem {
	return LineItem{ID: id, Name: id, Category: category, Formula: formula}
}

// payrollFixture is a small but complete invoice template touching every
// formula kind and every category.
func payrollFixture(t *testing.T) (*Template, *Catalog) {
	t.Helper()
	catalog := mustCatalog(t,
		Component{ID: "basic_salary", Category: CategorySalaryAllowance},
		Component{ID: "transport", Category: CategorySalaryAllowance},
		Component{ID: "working_days", Category: CategoryEmployerCost},
	)
	tmpl := &Template{
		ID:      "tpl-1",
		Name:    "Outsourced staff",
		Version: 1,
		Items: []LineItem{
			item("basic", "", ComponentRef{Component: "basic_salary"}),
			item("transport_allowance", "", ComponentRef{Component: "transport"}),
			item("housing", CategorySalaryAllowance, Percentage{Of: "basic_salary", Rate: d("20")}),
			item("gross", "", Sum{Items: []string{"basic", "transport_allowance", "housing"}}),
			item("pension_employer", CategoryEmployerCost, Percentage{Of: "gross", Rate: d("10")}),
			item("insurance", CategoryEmployerCost, FixedAmount{Amount: d("2500")}),
			item("paye", CategoryStatutoryDeduction, PercentageSubtraction{Of: "gross", Rate: d("7.5")}),
			item("pension_employee", CategoryStatutoryDeduction, PercentageSubtraction{Of: "gross", Rate: d("8")}),
			item("net", "", Sum{Items: []string{"gross", "paye", "pension_employee"}}),
			item("staff_cost", "", SectionTotal{Section: SectionSalaryAllowance}),
			item("mgmt_fee", CategoryManagementFee, Percentage{Of: "staff_cost", Rate: d("10")}),
			item("vat", "", Percentage{Of: "mgmt_fee", Rate: d("7.5")}),
			item("cost_to_client", "", SectionTotal{Section: SectionCostToClient}),
			item("grand", "", SectionTotal{Section: SectionGrandTotal}),
			item("invoice_total", "", Sum{Items: []string{"cost_to_client", "vat"}}),
			item("take_home_gap", "", Subtraction{Base: "gross", Subtract: []string{"net"}}),
		},
	}
	return tmpl, catalog
}
