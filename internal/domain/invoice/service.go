package invoice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staffinvoice/internal/domain/lineitem"
)

type Service struct {
	store  StoreAPI
	runner *lineitem.Runner
	plans  *PlanCache
	logger *slog.Logger
	now    func() time.Time
}

// NewService accepts a nil store; Generate then behaves like Preview.
func NewService(store StoreAPI, runner *lineitem.Runner, plans *PlanCache, logger *slog.Logger) *Service {
	if runner == nil {
		runner = lineitem.NewRunner()
	}
	if plans == nil {
		plans = NewPlanCache(64)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, runner: runner, plans: plans, logger: logger, now: time.Now}
}

func (s *Service) Generate(ctx context.Context, req Request) (*Invoice, error) {
	inv, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return inv, nil
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("persist invoice %s: %w", inv.ID, err)
	}
	s.logger.Info("invoice generated", "invoiceId", inv.ID, "tenantId", inv.TenantID, "templateId", inv.TemplateID, "rows", len(inv.Rows), "failed", inv.FailedCount())
	return inv, nil
}

func (s *Service) Preview(ctx context.Context, req Request) (*Invoice, error) {
	return s.build(ctx, req)
}

// Validate compiles and resolves a template without evaluating it.
func (s *Service) Validate(tenantID string, spec lineitem.TemplateSpec, components []lineitem.Component) (*lineitem.Plan, error) {
	catalog, err := lineitem.NewCatalog(components)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	plan, _, err := s.plans.Resolve(tenantID, spec, catalog)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", spec.ID, err)
	}
	return plan, nil
}

func (s *Service) ListInvoices(ctx context.Context, tenantID string, limit int) ([]InvoiceSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListInvoices(ctx, tenantID, limit)
}

func (s *Service) GetInvoice(ctx context.Context, tenantID, invoiceID string) (InvoiceSummary, error) {
	if s.store == nil {
		return InvoiceSummary{}, ErrInvoiceNotFound
	}
	return s.store.GetInvoice(ctx, tenantID, invoiceID)
}

func (s *Service) build(ctx context.Context, req Request) (*Invoice, error) {
	if len(req.Template.Items) == 0 {
		return nil, ErrTemplateRequired
	}
	if len(req.Employees) == 0 {
		return nil, ErrNoSubjects
	}

	catalog, err := lineitem.NewCatalog(req.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	plan, cached, err := s.plans.Resolve(req.TenantID, req.Template, catalog)
	if err != nil {
		s.logger.Warn("template rejected", "tenantId", req.TenantID, "templateId", req.Template.ID, "err", err)
		return nil, fmt.Errorf("template %s: %w", req.Template.ID, err)
	}
	s.logger.Debug("plan ready", "templateId", req.Template.ID, "version", req.Template.Version, "cached", cached)

	employees := make([]lineitem.Context, 0, len(req.Employees))
	for _, employee := range req.Employees {
		employees = append(employees, employee.Context())
	}
	aggregate := req.Aggregate.Context()
	if aggregate.Subject == "" {
		aggregate.Subject = DefaultAggregateSubject
	}

	batch, err := s.runner.RunPlan(ctx, plan, employees, aggregate)
	if err != nil {
		return nil, err
	}
	return s.assemble(req, batch), nil
}

func (s *Service) assemble(req Request, batch *lineitem.Batch) *Invoice {
	breakdown := batch.Breakdown()
	summary := batch.SummaryTable().Rows[0]
	inv := &Invoice{
		ID:              uuid.NewString(),
		TenantID:        req.TenantID,
		TemplateID:      req.Template.ID,
		TemplateVersion: req.Template.Version,
		Status:          StatusGenerated,
		Columns:         toColumns(breakdown.Columns),
		Rows:            make([]Row, 0, len(breakdown.Rows)),
		Summary:         toRow(summary.Index, breakdown.Columns, summary, rowWarnings(batch.Summary)),
		ColumnTotals:    ColumnTotals(breakdown),
		CreatedAt:       s.now().UTC(),
	}
	for i, row := range breakdown.Rows {
		inv.Rows = append(inv.Rows, toRow(row.Index, breakdown.Columns, row, rowWarnings(batch.Rows[i])))
	}
	inv.Warnings = invoiceWarnings(batch, inv.ColumnTotals)
	inv.WarningCounts = countWarnings(inv)
	if inv.FailedCount() > 0 || inv.Summary.Failed() {
		inv.Status = StatusPartial
	}
	return inv
}
