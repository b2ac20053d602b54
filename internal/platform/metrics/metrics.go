package metrics

import (
	"sync/atomic"
	"time"

	"staffinvoice/internal/domain/lineitem"
)

type Collector struct {
	batches         uint64
	structural      uint64
	passes          uint64
	failedPasses    uint64
	summaryFailures uint64
	jobs            uint64
	failedJobs      uint64
	totalDurationMs uint64
	jobDurationMs   uint64
}

func New() *Collector {
	return &Collector{}
}

// RecordBatch counts one batch; every row and the summary are one pass each.
func (c *Collector) RecordBatch(stats lineitem.Stats) {
	atomic.AddUint64(&c.batches, 1)
	atomic.AddUint64(&c.totalDurationMs, uint64(stats.Duration.Milliseconds()))
	if stats.Structural {
		atomic.AddUint64(&c.structural, 1)
		return
	}
	atomic.AddUint64(&c.passes, uint64(stats.Rows)+1)
	failed := uint64(stats.Failed)
	if stats.SummaryFailed {
		failed++
		atomic.AddUint64(&c.summaryFailures, 1)
	}
	atomic.AddUint64(&c.failedPasses, failed)
}

func (c *Collector) RecordJob(err error, duration time.Duration) {
	atomic.AddUint64(&c.jobs, 1)
	if err != nil {
		atomic.AddUint64(&c.failedJobs, 1)
	}
	atomic.AddUint64(&c.jobDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	batches := atomic.LoadUint64(&c.batches)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if batches > 0 {
		avg = float64(totalMs) / float64(batches)
	}
	return map[string]any{
		"batchesTotal":         batches,
		"structuralTotal":      atomic.LoadUint64(&c.structural),
		"passesTotal":          atomic.LoadUint64(&c.passes),
		"failedPassesTotal":    atomic.LoadUint64(&c.failedPasses),
		"summaryFailuresTotal": atomic.LoadUint64(&c.summaryFailures),
		"jobsTotal":            atomic.LoadUint64(&c.jobs),
		"failedJobsTotal":      atomic.LoadUint64(&c.failedJobs),
		"avgBatchDurationMs":   avg,
		"totalDurationMs":      totalMs,
		"jobDurationMs":        atomic.LoadUint64(&c.jobDurationMs),
	}
}
