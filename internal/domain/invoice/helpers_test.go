package invoice

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"staffinvoice/internal/domain/lineitem"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func dp(value string) *decimal.Decimal {
	v := d(value)
	return &v
}

func expectDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Fatalf("%s: expected %s, got %s", label, want, got)
	}
}

type fakeStore struct {
	mu       sync.Mutex
	invoices []*Invoice
	err      error
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv *Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeStore) ListInvoices(_ context.Context, tenantID string, limit int) ([]InvoiceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []InvoiceSummary
	for _, inv := range f.invoices {
		if inv.TenantID == tenantID && len(out) < limit {
			out = append(out, InvoiceSummary{ID: inv.ID, TemplateID: inv.TemplateID, Status: inv.Status, RowCount: len(inv.Rows)})
		}
	}
	return out, nil
}

func (f *fakeStore) GetInvoice(_ context.Context, tenantID, invoiceID string) (InvoiceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.TenantID == tenantID && inv.ID == invoiceID {
			return InvoiceSummary{ID: inv.ID, TemplateID: inv.TemplateID, Status: inv.Status, RowCount: len(inv.Rows)}, nil
		}
	}
	return InvoiceSummary{}, ErrInvoiceNotFound
}

func (f *fakeStore) CreateJobRun(context.Context, string, string) (string, error) { return "run-1", nil }

func (f *fakeStore) UpdateJobRun(context.Context, string, string, []byte) error { return nil }

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invoices)
}

func standardTemplate() lineitem.TemplateSpec {
	return lineitem.TemplateSpec{
		ID:      "standard",
		Name:    "Standard staffing",
		Version: 1,
		Items: []lineitem.Spec{
			{ID: "basic_pay", FormulaKind: lineitem.KindComponent, Operands: []string{"basic"}},
			{ID: "transport_pay", FormulaKind: lineitem.KindComponent, Operands: []string{"transport"}},
			{ID: "gross", FormulaKind: lineitem.KindSum, Operands: []string{"basic_pay", "transport_pay"}},
			{ID: "pension", FormulaKind: lineitem.KindPercentage, Operands: []string{"gross"}, Percentage: dp("10"), Category: lineitem.CategoryEmployerCost},
			{ID: "tax", FormulaKind: lineitem.KindPercentageSubtraction, Operands: []string{"gross"}, Percentage: dp("20"), Category: lineitem.CategoryStatutoryDeduction},
			{ID: "fee", FormulaKind: lineitem.KindPercentage, Operands: []string{"gross"}, Percentage: dp("5"), Category: lineitem.CategoryManagementFee},
			{ID: "net", FormulaKind: lineitem.KindSum, Operands: []string{"gross", "tax"}},
			{ID: "invoice_total", FormulaKind: lineitem.KindSectionTotal, Section: lineitem.SectionGrandTotal},
		},
	}
}

func standardCatalog() []lineitem.Component {
	return []lineitem.Component{
		{ID: "basic", Category: lineitem.CategorySalaryAllowance, Description: "Basic salary"},
		{ID: "transport", Category: lineitem.CategorySalaryAllowance, Description: "Transport allowance"},
	}
}

func subject(id, basic, transport string) Subject {
	values := map[string]decimal.Decimal{}
	if basic != "" {
		values["basic"] = d(basic)
	}
	if transport != "" {
		values["transport"] = d(transport)
	}
	return Subject{ID: id, Values: values}
}

func standardRequest() Request {
	return Request{
		TenantID:  "acme",
		Template:  standardTemplate(),
		Catalog:   standardCatalog(),
		Employees: []Subject{subject("e1", "1000", "200"), subject("e2", "2000", "0")},
		Aggregate: subject("all", "3000", "200"),
	}
}
