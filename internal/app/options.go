package service

import (
	"github.com/okian/chessdna/internal/adapters/mq/publisher"
	"github.com/okian/chessdna/internal/adapters/repository"
	"github.com/okian/chessdna/internal/domain/catalogue"
	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/insights"
	"github.com/okian/chessdna/internal/domain/ranking"
	"github.com/okian/chessdna/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many job IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithReportStoreSize bounds the comparative pool and the default report
// store. A store passed with WithStore keeps its own bound.
func WithReportStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.reportStoreSize = size
		}
	}
}

// WithMaxTopN caps the number of matches a caller may ask for.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalogue replaces the built-in grandmaster catalogue.
func WithCatalogue(c *catalogue.Catalogue) Option {
	return func(s *Service) {
		if c != nil {
			s.catalogue = c
		}
	}
}

// WithAggregator sets the feature aggregator.
func WithAggregator(a *features.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithRankerOptions passes options to the similarity ranker.
func WithRankerOptions(opts ...ranking.Option) Option {
	return func(s *Service) {
		s.rankerOpts = append(s.rankerOpts, opts...)
	}
}

// WithInsights sets the insight generator.
func WithInsights(g *insights.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.insights = g
		}
	}
}

// WithPublisher sets where completion events go.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithStore sets the report store.
func WithStore(r repository.ReportStore) Option {
	return func(s *Service) {
		if r != nil {
			s.store = r
		}
	}
}

// WithGroupMode sets the grouping algorithm used when a request names none.
func WithGroupMode(m comparative.GroupMode) Option {
	return func(s *Service) {
		if m != "" {
			s.groupMode = m
		}
	}
}
