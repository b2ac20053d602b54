package lineitem

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Column struct {
	ID      string
	Name    string
	Kind    Kind
	Derived bool
}

type Table struct {
	Columns []Column
	Rows    []TableRow
}

type TableRow struct {
	Index   int
	Subject string
	Cells   []decimal.Decimal
	Err     error
}

// Columns lists line items by display order, then the derived section totals.
func (p *Plan) Columns() []Column {
	items := append([]LineItem(nil), p.template.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	columns := make([]Column, 0, len(items)+len(Sections))
	for _, item := range items {
		columns = append(columns, Column{ID: item.ID, Name: item.Name, Kind: item.Formula.Kind()})
	}
	for _, section := range Sections {
		columns = append(columns, Column{ID: string(section), Name: section.Label(), Kind: KindSectionTotal, Derived: true})
	}
	return columns
}

// Breakdown lays out the employee rows against Columns. Failed rows carry
// their error and no cells.
func (b *Batch) Breakdown() Table {
	columns := b.Plan.Columns()
	table := Table{Columns: columns, Rows: make([]TableRow, 0, len(b.Rows))}
	for _, row := range b.Rows {
		table.Rows = append(table.Rows, tableRow(columns, row))
	}
	return table
}

func (b *Batch) SummaryTable() Table {
	columns := b.Plan.Columns()
	return Table{Columns: columns, Rows: []TableRow{tableRow(columns, b.Summary)}}
}

func tableRow(columns []Column, row Row) TableRow {
	out := TableRow{Index: row.Index, Subject: row.Subject, Err: row.Err}
	if row.Err != nil {
		return out
	}
	out.Cells = make([]decimal.Decimal, len(columns))
	for i, column := range columns {
		if column.Derived {
			out.Cells[i] = row.Result.Totals[SectionKind(column.ID)]
			continue
		}
		out.Cells[i] = row.Result.Values[column.ID]
	}
	return out
}
