package service

import (
	"fmt"

	"github.com/okian/chessdna/internal/config"
	"github.com/okian/chessdna/internal/domain/catalogue"
	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/ranking"
	"github.com/okian/chessdna/internal/domain/style"
)

// OptionsFromConfig translates cfg into service options. The catalogue is
// read from cfg.CataloguePath when set.
func OptionsFromConfig(cfg *config.Config) ([]Option, error) {
	mode, err := style.ParseMode(cfg.Standardization)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	groupMode, err := comparative.ParseGroupMode(cfg.GroupMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	opts := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithReportStoreSize(cfg.ReportStoreSize),
		WithMaxTopN(cfg.MaxTopN),
		WithGroupMode(groupMode),
		WithAggregator(features.NewAggregator(
			features.WithFormulas(cfg.FeatureFormulas()),
			features.WithSampler(cfg.Sampler()),
		)),
		WithRankerOptions(
			ranking.WithDefaultTopN(cfg.DefaultTopN),
			ranking.WithReportSize(cfg.ReportTopN),
			ranking.WithStandardization(mode),
			ranking.WithQueryInFit(cfg.IncludeQueryInFit),
		),
	}

	if cfg.CataloguePath != "" {
		cat, err := catalogue.Load(cfg.CataloguePath)
		if err != nil {
			return nil, fmt.Errorf("load catalogue: %w", err)
		}
		opts = append(opts, WithCatalogue(cat))
	}
	return opts, nil
}

// FromConfig builds a Service from cfg plus any extra options.
func FromConfig(cfg *config.Config, extra ...Option) (*Service, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return New(append(opts, extra...)...)
}
