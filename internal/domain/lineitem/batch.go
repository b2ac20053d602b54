package lineitem

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

type Row struct {
	Index   int
	Subject string
	Result  Resolved
	Err     error
}

func (r Row) OK() bool { return r.Err == nil }

type Batch struct {
	Plan    *Plan
	Rows    []Row
	Summary Row
}

func (b *Batch) Failed() []Row {
	var out []Row
	for _, row := range b.Rows {
		if !row.OK() {
			out = append(out, row)
		}
	}
	return out
}

type Stats struct {
	Rows          int
	Failed        int
	SummaryFailed bool
	Structural    bool
	Duration      time.Duration
}

// Recorder receives one Stats value per batch.
type Recorder interface {
	RecordBatch(stats Stats)
}

type Runner struct {
	workers  int
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Runner)

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) { r.recorder = recorder }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		workers: DefaultWorkers,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves the template once and evaluates it for every employee and for
// the aggregate. A structural error fails the whole batch before any row is
// evaluated.
func (r *Runner) Run(ctx context.Context, t *Template, catalog *Catalog, employees []Context, aggregate Context) (*Batch, error) {
	start := time.Now()
	plan, err := Resolve(t, catalog)
	if err != nil {
		r.logger.Warn("template resolution failed", "templateId", templateID(t), "err", err)
		r.record(Stats{Rows: len(employees), Structural: true, Duration: time.Since(start)})
		return nil, err
	}
	return r.RunPlan(ctx, plan, employees, aggregate)
}

// RunPlan evaluates a resolved plan. Row failures are kept on the row; a
// cancelled ctx stops dispatch and the remaining rows carry ctx.Err().
func (r *Runner) RunPlan(ctx context.Context, plan *Plan, employees []Context, aggregate Context) (*Batch, error) {
	if plan == nil {
		return nil, &InvalidLineItemError{Reason: "plan is nil"}
	}
	start := time.Now()
	batch := &Batch{Plan: plan, Rows: make([]Row, len(employees))}

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, employee := range employees {
		i, employee := i, employee
		if err := ctx.Err(); err != nil {
			batch.Rows[i] = Row{Index: i, Subject: employee.Subject, Err: err}
			continue
		}
		g.Go(func() error {
			result, err := Evaluate(plan, employee)
			batch.Rows[i] = Row{Index: i, Subject: employee.Subject, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	result, err := Evaluate(plan, aggregate)
	batch.Summary = Row{Index: -1, Subject: aggregate.Subject, Result: result, Err: err}

	failed := 0
	for _, row := range batch.Rows {
		if row.Err != nil {
			failed++
			r.logger.Warn("row evaluation failed", "templateId", templateID(plan.template), "subject", row.Subject, "err", row.Err)
		}
	}
	if err != nil {
		r.logger.Warn("summary evaluation failed", "templateId", templateID(plan.template), "subject", aggregate.Subject, "err", err)
	}

	stats := Stats{Rows: len(employees), Failed: failed, SummaryFailed: err != nil, Duration: time.Since(start)}
	r.record(stats)
	r.logger.Debug("batch evaluated", "templateId", templateID(plan.template), "rows", stats.Rows, "failed", stats.Failed, "durationMs", stats.Duration.Milliseconds())
	return batch, nil
}

func (r *Runner) record(stats Stats) {
	if r.recorder != nil {
		r.recorder.RecordBatch(stats)
	}
}

func templateID(t *Template) string {
	if t == nil {
		return ""
	}
	return t.ID
}
