// Package service wires the analysis pipeline together and implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/chessdna/internal/adapters/mq/publisher"
	eventqueue "github.com/okian/chessdna/internal/adapters/mq/queue"
	workerpool "github.com/okian/chessdna/internal/adapters/mq/worker"
	"github.com/okian/chessdna/internal/adapters/repository"
	"github.com/okian/chessdna/internal/domain/catalogue"
	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/dedupe"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/insights"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/ranking"
	"github.com/okian/chessdna/internal/domain/types"
	"github.com/okian/chessdna/pkg/logger"
	"github.com/okian/chessdna/pkg/metrics"
)

const (
	defaultQueueSize       = 10_000
	defaultDedupeSize      = 50_000
	defaultReportStoreSize = 10_000
	defaultMaxTopN         = 50
)

// Service implements the API dependencies for the analysis engine.
type Service struct {
	mu sync.RWMutex

	// Domain
	catalogue  *catalogue.Catalogue
	aggregator *features.Aggregator
	ranker     *ranking.Ranker
	analyzer   *comparative.Analyzer
	insights   *insights.Generator

	// Adapters
	store     repository.ReportStore
	deduper   dedupe.Deduper
	publisher publisher.Publisher
	queue     *eventqueue.InMemoryQueue
	pool      *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	reportStoreSize int
	maxTopN         int
	rankerOpts      []ranking.Option
	groupMode       comparative.GroupMode

	started bool
	logger  logger.Logger
}

// New builds a Service. Domain components are ready immediately so
// synchronous analysis works before Start; the queue and workers are
// created by Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       defaultQueueSize,
		dedupeSize:      defaultDedupeSize,
		reportStoreSize: defaultReportStoreSize,
		maxTopN:         defaultMaxTopN,
		groupMode:       comparative.ModeKMeans,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.catalogue == nil {
		s.catalogue = catalogue.Default()
	}
	if s.aggregator == nil {
		s.aggregator = features.NewAggregator()
	}
	if s.insights == nil {
		s.insights = insights.NewGenerator()
	}
	if s.publisher == nil {
		s.publisher = publisher.Noop{}
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithMaxReports(s.reportStoreSize))
	}

	ranker, err := ranking.NewRanker(s.catalogue, s.rankerOpts...)
	if err != nil {
		return nil, fmt.Errorf("build ranker: %w", err)
	}
	s.ranker = ranker
	s.analyzer = comparative.NewAnalyzer(
		comparative.WithBuilder(ranker.Builder()),
		comparative.WithMaxSubjects(s.reportStoreSize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	metrics.UpdateCatalogueSize(s.catalogue.Len())
	return s, nil
}

// Start creates the job queue and starts the worker pool. The workers keep
// ctx's values but not its cancellation; they run until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting analysis service...")

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s.store,
		workerpool.WithPublisher(s.publisher),
	)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogue", s.catalogue.Len()),
		logger.String("standardization", string(s.ranker.Mode())),
	)
	return nil
}

// Stop closes the queue, waits for the workers to drain it and closes the
// publisher. Jobs still queued when ctx expires are dropped.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping analysis service...")

	var errs []error
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "analysis service stopped")
	return errors.Join(errs...)
}

// Submit validates job and queues it for the workers. A job without an ID
// gets a fresh one. A job ID seen before is reported as a duplicate and not
// queued again. A full queue returns ErrBackpressure and forgets the ID so
// the caller can retry.
func (s *Service) Submit(ctx context.Context, job model.AnalysisJob) (string, bool, error) { //nolint:gocritic // hugeParam: jobs are values end to end
	job, err := s.prepare(job)
	if err != nil {
		metrics.RecordAnalysisFailed("invalid_input")
		return "", false, err
	}

	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return job.JobID, false, ErrNotStarted
	}

	if s.deduper.SeenAndRecord(ctx, job.JobID) {
		metrics.RecordAnalysisDuplicate()
		s.logger.Debug(ctx, "duplicate job, skipping", logger.String("job_id", job.JobID))
		return job.JobID, true, nil
	}

	if err := q.TryEnqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, job.JobID)
		if errors.Is(err, eventqueue.ErrFull) {
			return job.JobID, false, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		if errors.Is(err, eventqueue.ErrClosed) {
			return job.JobID, false, fmt.Errorf("%w: %w", ErrNotStarted, err)
		}
		return job.JobID, false, err
	}

	metrics.RecordAnalysisSubmitted()
	s.logger.Debug(ctx, "job queued",
		logger.String("job_id", job.JobID),
		logger.String("subject", job.Subject),
		logger.Int("games", len(job.Games)),
	)
	return job.JobID, false, nil
}

// Analyze aggregates the job's games, ranks the result against the
// catalogue, derives insights and adds the subject to the comparative pool.
// It does not store the report.
func (s *Service) Analyze(ctx context.Context, job model.AnalysisJob) (types.Report, error) { //nolint:gocritic // hugeParam: satisfies worker.Analyzer
	if err := ctx.Err(); err != nil {
		return types.Report{}, err
	}
	start := time.Now()

	ms, err := s.aggregator.Aggregate(job.Games)
	if err != nil {
		metrics.RecordAnalysisFailed("invalid_input")
		return types.Report{}, fmt.Errorf("aggregate %s: %w", job.Subject, err)
	}
	metrics.RecordGamesAggregated(len(job.Games))

	rankStart := time.Now()
	summary, err := s.ranker.ReportN(ms, job.TopN)
	metrics.RecordRankingLatency(float64(time.Since(rankStart).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordAnalysisFailed("ranking")
		return types.Report{}, fmt.Errorf("rank %s: %w", job.Subject, err)
	}

	if err := s.analyzer.Add(job.Subject, ms); err != nil {
		metrics.RecordAnalysisFailed("comparative")
		return types.Report{}, fmt.Errorf("add %s: %w", job.Subject, err)
	}
	metrics.UpdateSubjectCount(s.analyzer.Len())

	report := types.Report{
		JobID:         job.JobID,
		Subject:       job.Subject,
		Games:         len(job.Games),
		Metrics:       ms,
		Matches:       summary.Matches,
		TopMatch:      summary.Top,
		Compatibility: summary.Compatibility,
		Insights:      s.insights.Generate(ms),
		AnalyzedAt:    time.Now().UTC(),
	}

	metrics.RecordAnalysisCompleted()
	metrics.RecordAnalysisLatency(float64(time.Since(start).Microseconds()) / 1000)
	return report, nil
}

// AnalyzeNow runs a job synchronously: analyze, store, publish. A failed
// publish is logged and does not fail the call.
func (s *Service) AnalyzeNow(ctx context.Context, job model.AnalysisJob) (types.Report, error) { //nolint:gocritic // hugeParam: jobs are values end to end
	job, err := s.prepare(job)
	if err != nil {
		metrics.RecordAnalysisFailed("invalid_input")
		return types.Report{}, err
	}

	report, err := s.Analyze(ctx, job)
	if err != nil {
		return types.Report{}, err
	}
	if err := s.store.Save(ctx, report); err != nil {
		metrics.RecordErrorByComponent("service", "store")
		return types.Report{}, fmt.Errorf("store report for %s: %w", job.Subject, err)
	}
	if err := s.publisher.Publish(ctx, report.Event()); err != nil {
		metrics.RecordPublishError()
		s.logger.Warn(ctx, "publish failed", logger.String("job_id", job.JobID), logger.Error(err))
	} else {
		metrics.RecordEventPublished()
	}
	return report, nil
}

// prepare trims and checks a job before it is queued or analysed.
func (s *Service) prepare(job model.AnalysisJob) (model.AnalysisJob, error) { //nolint:gocritic // hugeParam: jobs are values end to end
	job.Subject = strings.TrimSpace(job.Subject)
	if job.Subject == "" {
		return job, fmt.Errorf("%w: subject is empty", ErrInvalidJob)
	}
	if len(job.Games) == 0 {
		return job, fmt.Errorf("%w: %w", ErrInvalidJob, features.ErrEmptyInput)
	}
	for i, g := range job.Games {
		if err := g.Validate(); err != nil {
			return job, fmt.Errorf("%w: game %d: %w", ErrInvalidJob, i, err)
		}
	}
	if err := s.checkTopN(job.TopN); err != nil {
		return job, err
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	return job, nil
}

func (s *Service) checkTopN(n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%w: top_n %d", ranking.ErrInvalidTopN, n)
	case n > s.maxTopN:
		return fmt.Errorf("%w: %d > %d", ErrTopNTooLarge, n, s.maxTopN)
	}
	return nil
}

// Report returns the stored report for subject.
func (s *Service) Report(ctx context.Context, subject string) (types.Report, error) {
	return s.store.Get(ctx, strings.TrimSpace(subject))
}

// Reports returns up to limit reports, newest first.
func (s *Service) Reports(ctx context.Context, limit int) ([]types.Report, error) {
	return s.store.List(ctx, limit)
}

// RankMetrics ranks an already aggregated metric set. topN == 0 uses the
// ranker's default.
func (s *Service) RankMetrics(_ context.Context, ms model.MetricSet, topN int) ([]ranking.Match, error) {
	if err := s.checkTopN(topN); err != nil {
		return nil, err
	}
	if err := ms.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.RecordRankingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()
	return s.ranker.RankMetrics(ms, topN)
}

// Catalogue returns the reference profiles in catalogue order.
func (s *Service) Catalogue(_ context.Context) []model.ReferenceProfile {
	return s.catalogue.Profiles()
}

// Compare returns the similarity of two analysed subjects.
func (s *Service) Compare(_ context.Context, a, b string) (types.Comparison, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	sim, err := s.analyzer.Compare(a, b)
	if err != nil {
		return types.Comparison{}, err
	}
	return types.Comparison{A: a, B: b, Similarity: sim, MatchPercent: ranking.MatchPercent(sim)}, nil
}

// Group partitions the analysed subjects into at most k groups. An empty
// mode uses the configured default.
func (s *Service) Group(_ context.Context, k int, mode string) (comparative.Grouping, error) {
	m := s.groupMode
	if strings.TrimSpace(mode) != "" {
		parsed, err := comparative.ParseGroupMode(mode)
		if err != nil {
			return comparative.Grouping{}, err
		}
		m = parsed
	}
	return s.analyzer.Group(k, m)
}

// Trends returns per-metric statistics across analysed subjects.
func (s *Service) Trends(_ context.Context) map[string]comparative.Trend {
	return s.analyzer.TrendSummary()
}

// AddSubject adds an already aggregated metric set to the comparative pool.
func (s *Service) AddSubject(_ context.Context, name string, ms model.MetricSet) error {
	if err := s.analyzer.Add(name, ms); err != nil {
		return err
	}
	metrics.UpdateSubjectCount(s.analyzer.Len())
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"dedupeEntries":   s.deduper.Size(),
		"catalogueSize":   s.catalogue.Len(),
		"subjects":        s.analyzer.Len(),
		"reports":         s.store.Count(ctx),
		"standardization": string(s.ranker.Mode()),
		"groupMode":       string(s.groupMode),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}

// MaxTopN returns the largest accepted top_n.
func (s *Service) MaxTopN() int {
	return s.maxTopN
}
