package invoice

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"staffinvoice/internal/domain/lineitem"
)

func TestColumnTotalsSkipsFailedRows(t *testing.T) {
	catalog := mustCatalog(t, standardCatalog())
	template, err := lineitem.Compile(standardTemplate())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	employees := []lineitem.Context{
		subject("e1", "1000", "200").Context(),
		subject("e2", "500", "").Context(),
		subject("e3", "2000", "0").Context(),
	}
	batch, err := lineitem.NewRunner().Run(context.Background(), template, catalog, employees, subject("all", "3500", "200").Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	totals := ColumnTotals(batch.Breakdown())
	expectDecimal(t, "basic_pay", totals["basic_pay"], "3000")
	expectDecimal(t, "tax", totals["tax"], "640")
	expectDecimal(t, "net", totals["net"], "2560")
	expectDecimal(t, "statutory", totals[string(lineitem.SectionStatutoryDeduction)], "640")
	expectDecimal(t, "grand", totals[string(lineitem.SectionGrandTotal)], "4320")
	if len(totals) != len(batch.Plan.Columns()) {
		t.Fatalf("expected one total per column, got %d", len(totals))
	}
}

func TestRoundCopiesInvoice(t *testing.T) {
	inv := &Invoice{
		Rows: []Row{{
			Subject: "e1",
			Values:  map[string]decimal.Decimal{"fee": d("1.005"), "tax": d("-2.345")},
			Totals:  map[string]decimal.Decimal{"grand_total": d("10.4449")},
		}, {Subject: "e2", Error: "missing value"}},
		Summary:      Row{Values: map[string]decimal.Decimal{"fee": d("3.3333")}},
		ColumnTotals: map[string]decimal.Decimal{"fee": d("1.005")},
	}

	rounded := Round(inv, 2)
	expectDecimal(t, "fee", rounded.Rows[0].Values["fee"], "1.01")
	expectDecimal(t, "tax", rounded.Rows[0].Values["tax"], "-2.35")
	expectDecimal(t, "grand", rounded.Rows[0].Totals["grand_total"], "10.44")
	expectDecimal(t, "summary fee", rounded.Summary.Values["fee"], "3.33")
	expectDecimal(t, "column fee", rounded.ColumnTotals["fee"], "1.01")
	if rounded.Rows[1].Values != nil {
		t.Fatal("failed row must stay without values")
	}
	expectDecimal(t, "original fee", inv.Rows[0].Values["fee"], "1.005")
}

func TestRowWarnings(t *testing.T) {
	ok := lineitem.Row{Result: lineitem.Resolved{
		Values: map[string]decimal.Decimal{"a": d("1")},
		Totals: map[lineitem.SectionKind]decimal.Decimal{lineitem.SectionGrandTotal: d("1")},
	}}
	if warnings := rowWarnings(ok); warnings != nil {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	zero := lineitem.Row{Result: lineitem.Resolved{Values: map[string]decimal.Decimal{"a": decimal.Zero}}}
	if warnings := rowWarnings(zero); warnings != nil {
		t.Fatalf("zero is not negative, got %v", warnings)
	}
}
