package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"staffinvoice/internal/domain/lineitem"
	"staffinvoice/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) CreateInvoice(ctx context.Context, inv *Invoice) error {
	summaryJSON, err := json.Marshal(inv.Summary)
	if err != nil {
		return err
	}
	warningsJSON, err := marshalWarnings(inv.Warnings)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO invoices (id, tenant_id, template_id, template_version, status, row_count, failed_count, grand_total, cost_to_client, summary_json, warnings_json, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, inv.ID, inv.TenantID, inv.TemplateID, inv.TemplateVersion, inv.Status, len(inv.Rows), inv.FailedCount(),
		inv.SummaryTotal(lineitem.SectionGrandTotal), inv.SummaryTotal(lineitem.SectionCostToClient),
		summaryJSON, warningsJSON, inv.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	for _, row := range inv.Rows {
		valuesJSON, err := json.Marshal(row.Values)
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		totalsJSON, err := json.Marshal(row.Totals)
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		rowWarningsJSON, err := marshalWarnings(row.Warnings)
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO invoice_rows (invoice_id, position, subject, values_json, totals_json, warnings_json, error)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, inv.ID, row.Position, row.Subject, valuesJSON, totalsJSON, rowWarningsJSON, nullIfEmpty(row.Error)); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListInvoices(ctx context.Context, tenantID string, limit int) ([]InvoiceSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, template_id, template_version, status, row_count, failed_count, grand_total, cost_to_client, warnings_json, created_at
    FROM invoices
    WHERE tenant_id = $1
    ORDER BY created_at DESC
    LIMIT $2
  `, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvoiceSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func (s *Store) GetInvoice(ctx context.Context, tenantID, invoiceID string) (InvoiceSummary, error) {
	summary, err := scanSummary(s.DB.QueryRow(ctx, `
    SELECT id, template_id, template_version, status, row_count, failed_count, grand_total, cost_to_client, warnings_json, created_at
    FROM invoices
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, invoiceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return InvoiceSummary{}, ErrInvoiceNotFound
	}
	return summary, err
}

func (s *Store) CreateJobRun(ctx context.Context, tenantID, jobType string) (string, error) {
	var runID string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, tenantID, jobType, "running").Scan(&runID); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) UpdateJobRun(ctx context.Context, runID, status string, detailsJSON []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID)
	return err
}

func scanSummary(row pgx.Row) (InvoiceSummary, error) {
	var summary InvoiceSummary
	var warningsJSON []byte
	if err := row.Scan(&summary.ID, &summary.TemplateID, &summary.TemplateVersion, &summary.Status,
		&summary.RowCount, &summary.FailedCount, &summary.GrandTotal, &summary.CostToClient,
		&warningsJSON, &summary.CreatedAt); err != nil {
		return summary, err
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &summary.Warnings); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func marshalWarnings(warnings []string) ([]byte, error) {
	if warnings == nil {
		warnings = []string{}
	}
	return json.Marshal(warnings)
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
