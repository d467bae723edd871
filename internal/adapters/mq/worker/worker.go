package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/types"
	"github.com/okian/chessdna/pkg/logger"
	"github.com/okian/chessdna/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	poolShutdownTimeout     = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.AnalysisJob

// Analyzer turns a job into a report.
type Analyzer interface {
	Analyze(ctx context.Context, job Job) (types.Report, error)
}

// Recorder persists reports.
type Recorder interface {
	Save(ctx context.Context, r types.Report) error
}

// Publisher announces completed analyses.
type Publisher interface {
	Publish(ctx context.Context, ev types.AnalysisCompleted) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, types.AnalysisCompleted) error { return nil }

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	analyzer  Analyzer
	recorder  Recorder
	publisher Publisher
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		analyzer:  analyzer,
		recorder:  recorder,
		publisher: noopPublisher{},
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.Process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("job_id", job.JobID), logger.Error(err))
			}
		}
	}
}

// Shutdown signals the worker to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process analyzes, stores and announces a single job. A failed publish is
// logged and counted but does not fail the job.
func (w *InMemoryWorker) Process(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: jobs arrive by value from the queue
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	report, err := w.analyzer.Analyze(ctx, job)
	if err != nil {
		metrics.RecordWorkerError()
		if IsInputError(err) {
			metrics.RecordErrorByComponent("worker", "invalid_input")
		} else {
			metrics.RecordErrorByComponent("worker", "analyze")
		}
		return fmt.Errorf("analyze job %s: %w", job.JobID, err)
	}

	if err := w.recorder.Save(ctx, report); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store")
		return fmt.Errorf("store report for %s: %w", job.Subject, err)
	}

	if err := w.publisher.Publish(ctx, report.Event()); err != nil {
		metrics.RecordPublishError()
		metrics.RecordErrorByComponent("worker", "publish")
		w.logger.Warn(ctx, "publish failed", logger.String("job_id", job.JobID), logger.Error(err))
	} else {
		metrics.RecordEventPublished()
	}

	w.logger.Debug(ctx, "job processed",
		logger.String("job_id", job.JobID),
		logger.String("subject", job.Subject),
		logger.Int("games", len(job.Games)),
	)
	return nil
}

// IsInputError reports whether err was caused by the job's data rather than
// the system.
func IsInputError(err error) bool {
	return errors.Is(err, features.ErrEmptyInput) || errors.Is(err, model.ErrInvalidMetric)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below 1 uses twice
// the number of CPUs.
func NewPool(workerCount int, q Queue, analyzer Analyzer, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, analyzer, recorder, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue, lets workers drain it and waits for them.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
