package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"staffinvoice/internal/domain/lineitem"
)

// Subject is one employee, or the aggregate, with its component values.
type Subject struct {
	ID     string                     `json:"id" yaml:"id"`
	Values map[string]decimal.Decimal `json:"values" yaml:"values"`
}

func (s Subject) Context() lineitem.Context {
	return lineitem.Context{Subject: s.ID, Values: s.Values}
}

type Request struct {
	TenantID  string                `json:"tenantId" yaml:"tenantId"`
	Template  lineitem.TemplateSpec `json:"template" yaml:"template"`
	Catalog   []lineitem.Component  `json:"catalog" yaml:"catalog"`
	Employees []Subject             `json:"employees" yaml:"employees"`
	Aggregate Subject               `json:"aggregate" yaml:"aggregate"`
}

type Column struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Derived bool   `json:"derived,omitempty"`
}

type Row struct {
	Position int                        `json:"position"`
	Subject  string                     `json:"subject"`
	Values   map[string]decimal.Decimal `json:"values,omitempty"`
	Totals   map[string]decimal.Decimal `json:"totals,omitempty"`
	Warnings []string                   `json:"warnings,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

func (r Row) Failed() bool { return r.Error != "" }

type Invoice struct {
	ID              string                     `json:"id"`
	TenantID        string                     `json:"tenantId"`
	TemplateID      string                     `json:"templateId"`
	TemplateVersion int                        `json:"templateVersion"`
	Status          string                     `json:"status"`
	Columns         []Column                   `json:"columns"`
	Rows            []Row                      `json:"rows"`
	Summary         Row                        `json:"summary"`
	ColumnTotals    map[string]decimal.Decimal `json:"columnTotals"`
	Warnings        []string                   `json:"warnings,omitempty"`
	WarningCounts   map[string]int             `json:"warningCounts,omitempty"`
	CreatedAt       time.Time                  `json:"createdAt"`
}

func (inv *Invoice) FailedCount() int {
	count := 0
	for _, row := range inv.Rows {
		if row.Failed() {
			count++
		}
	}
	return count
}

// SummaryTotal returns a section total of the aggregate row; it is null when
// the aggregate pass failed.
func (inv *Invoice) SummaryTotal(section lineitem.SectionKind) decimal.NullDecimal {
	if inv.Summary.Failed() {
		return decimal.NullDecimal{}
	}
	value, ok := inv.Summary.Totals[string(section)]
	return decimal.NullDecimal{Decimal: value, Valid: ok}
}

type InvoiceSummary struct {
	ID              string              `json:"id"`
	TemplateID      string              `json:"templateId"`
	TemplateVersion int                 `json:"templateVersion"`
	Status          string              `json:"status"`
	RowCount        int                 `json:"rowCount"`
	FailedCount     int                 `json:"failedCount"`
	GrandTotal      decimal.NullDecimal `json:"grandTotal"`
	CostToClient    decimal.NullDecimal `json:"costToClient"`
	Warnings        []string            `json:"warnings"`
	CreatedAt       time.Time           `json:"createdAt"`
}
