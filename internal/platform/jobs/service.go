package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"staffinvoice/internal/platform/config"
)

const (
	JobInvoiceRun = "invoice_run"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunStore persists one job_runs row per executed job.
type RunStore interface {
	CreateJobRun(ctx context.Context, tenantID, jobType string) (string, error)
	UpdateJobRun(ctx context.Context, runID, status string, detailsJSON []byte) error
}

type Recorder interface {
	RecordJob(err error, duration time.Duration)
}

type Service struct {
	Store    RunStore
	Recorder Recorder
	Logger   *slog.Logger
	Cfg      config.Config

	queue chan job
	wg    sync.WaitGroup
	once  sync.Once
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

// New builds a queue sized from cfg. A nil store disables job_runs bookkeeping.
func New(store RunStore, cfg config.Config) *Service {
	size := cfg.JobQueueSize
	if size <= 0 {
		size = 128
	}
	return &Service{
		Store:  store,
		Cfg:    cfg,
		Logger: slog.Default(),
		queue:  make(chan job, size),
	}
}

func (s *Service) Start(ctx context.Context) {
	workers := s.Cfg.JobWorkers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Enqueue reports false when the queue is full.
func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
		return true
	default:
		s.Logger.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

// Close stops accepting jobs and waits for queued ones to finish. It must not
// race with Enqueue.
func (s *Service) Close() {
	s.once.Do(func() { close(s.queue) })
	s.wg.Wait()
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-s.queue:
			if !ok {
				return
			}
			if _, err := s.runJob(ctx, j); err != nil {
				s.Logger.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	runID := ""
	if s.Store != nil {
		id, err := s.Store.CreateJobRun(ctx, j.TenantID, j.Type)
		if err != nil {
			s.Logger.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	runCtx := ctx
	if s.Cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.Cfg.JobTimeout)
		defer cancel()
	}

	details, err := j.Run(runCtx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	if s.Recorder != nil {
		s.Recorder.RecordJob(err, time.Since(start))
	}

	if runID != "" {
		detailsJSON, marshalErr := json.Marshal(jobDetails(details, err))
		if marshalErr != nil {
			s.Logger.Warn("job details marshal failed", "err", marshalErr)
			detailsJSON = []byte("{}")
		}
		if updErr := s.Store.UpdateJobRun(ctx, runID, status, detailsJSON); updErr != nil {
			s.Logger.Warn("job run update failed", "runId", runID, "err", updErr)
		}
	}
	return details, err
}

func jobDetails(details any, err error) any {
	if err == nil {
		return details
	}
	return map[string]any{"error": err.Error(), "result": details}
}
