package invoice

import (
	"github.com/shopspring/decimal"

	"staffinvoice/internal/domain/lineitem"
)

// ColumnTotals sums every column of a breakdown across its successful rows.
func ColumnTotals(table lineitem.Table) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(table.Columns))
	for _, column := range table.Columns {
		totals[column.ID] = decimal.Zero
	}
	for _, row := range table.Rows {
		if row.Err != nil {
			continue
		}
		for i, column := range table.Columns {
			totals[column.ID] = totals[column.ID].Add(row.Cells[i])
		}
	}
	return totals
}

// Round returns a copy of inv with every amount rounded half away from zero.
func Round(inv *Invoice, places int32) *Invoice {
	out := *inv
	out.Rows = make([]Row, len(inv.Rows))
	for i, row := range inv.Rows {
		out.Rows[i] = roundRow(row, places)
	}
	out.Summary = roundRow(inv.Summary, places)
	out.ColumnTotals = roundValues(inv.ColumnTotals, places)
	return &out
}

func roundRow(row Row, places int32) Row {
	row.Values = roundValues(row.Values, places)
	row.Totals = roundValues(row.Totals, places)
	return row
}

func roundValues(values map[string]decimal.Decimal, places int32) map[string]decimal.Decimal {
	if values == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(values))
	for id, value := range values {
		out[id] = value.Round(places)
	}
	return out
}

func rowWarnings(row lineitem.Row) []string {
	if !row.OK() {
		return []string{WarningRowFailed}
	}
	var warnings []string
	for _, value := range row.Result.Values {
		if value.IsNegative() {
			warnings = append(warnings, WarningNegativeValue)
			break
		}
	}
	if row.Result.Totals[lineitem.SectionGrandTotal].IsNegative() {
		warnings = append(warnings, WarningNegativeGrandTotal)
	}
	return warnings
}

func invoiceWarnings(b *lineitem.Batch, columnTotals map[string]decimal.Decimal) []string {
	if !b.Summary.OK() {
		return []string{WarningSummaryFailed}
	}
	grand := string(lineitem.SectionGrandTotal)
	if !b.Summary.Result.Totals[lineitem.SectionGrandTotal].Equal(columnTotals[grand]) {
		return []string{WarningSummaryMismatch}
	}
	return nil
}

func countWarnings(inv *Invoice) map[string]int {
	counts := map[string]int{}
	for _, row := range inv.Rows {
		for _, key := range row.Warnings {
			counts[key]++
		}
	}
	for _, key := range inv.Warnings {
		counts[key]++
	}
	return counts
}

func toRow(position int, columns []lineitem.Column, row lineitem.TableRow, warnings []string) Row {
	out := Row{Position: position, Subject: row.Subject, Warnings: warnings}
	if row.Err != nil {
		out.Error = row.Err.Error()
		return out
	}
	out.Values = make(map[string]decimal.Decimal, len(columns))
	out.Totals = make(map[string]decimal.Decimal, len(lineitem.Sections))
	for i, column := range columns {
		if column.Derived {
			out.Totals[column.ID] = row.Cells[i]
			continue
		}
		out.Values[column.ID] = row.Cells[i]
	}
	return out
}

func toColumns(columns []lineitem.Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, column := range columns {
		out = append(out, Column{ID: column.ID, Name: column.Name, Kind: string(column.Kind), Derived: column.Derived})
	}
	return out
}
