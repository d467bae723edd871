// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"net/netip"
	"runtime"
	"strings"

	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/style"
)

// Placeholder metric modes.
const (
	PlaceholderMidpoint = "midpoint"
	PlaceholderSeeded   = "seeded"
)

// Formulas holds the score coefficients; see features.Formulas.
type Formulas struct {
	AggressivenessDivisor float64 `koanf:"aggressiveness_divisor"`
	SolidityBlunderWeight float64 `koanf:"solidity_blunder_weight"`
	PrecisionDivisor      float64 `koanf:"precision_divisor"`
	TacticsDivisor        float64 `koanf:"tactics_divisor"`
	StrategyDivisor       float64 `koanf:"strategy_divisor"`
	StrategyFloor         float64 `koanf:"strategy_floor"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets how many job IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`
	// ReportStoreSize bounds the number of stored reports and of subjects
	// in the comparative pool.
	ReportStoreSize int `koanf:"report_store_size"`

	// DefaultTopN is used when a rank request omits top_n.
	DefaultTopN int `koanf:"default_top_n"`
	// ReportTopN is the number of matches in a report.
	ReportTopN int `koanf:"report_top_n"`
	// MaxTopN caps top_n on requests.
	MaxTopN int `koanf:"max_top_n"`

	// CataloguePath points at a YAML catalogue. Empty uses the built-in one.
	CataloguePath string `koanf:"catalogue_path"`
	// Standardization is catalogue or joint.
	Standardization string `koanf:"standardization"`
	// IncludeQueryInFit adds the query to the catalogue population when
	// fitting the scaler.
	IncludeQueryInFit bool `koanf:"include_query_in_fit"`

	// PlaceholderMode is midpoint or seeded.
	PlaceholderMode string `koanf:"placeholder_mode"`
	// PlaceholderSeed seeds the seeded placeholder mode.
	PlaceholderSeed int64 `koanf:"placeholder_seed"`

	// GroupMode is the default grouping algorithm: kmeans or round_robin.
	GroupMode string `koanf:"group_mode"`

	// Move classification cut-offs in centipawns.
	InaccuracyCP float64 `koanf:"inaccuracy_cp"`
	MistakeCP    float64 `koanf:"mistake_cp"`
	BlunderCP    float64 `koanf:"blunder_cp"`

	Formulas Formulas `koanf:"formulas"`

	// RateLimitRPS and RateLimitBurst bound requests per client. RPS <= 0
	// disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
	// TrustedProxies lists CIDRs or addresses whose X-Forwarded-For is
	// honored. Entries may also be comma separated.
	TrustedProxies []string `koanf:"trusted_proxies"`

	// NATSURL enables event publishing when set.
	NATSURL     string `koanf:"nats_url"`
	NATSSubject string `koanf:"nats_subject"`
}

// New creates a Config with defaults.
func New() *Config {
	f := features.DefaultFormulas()
	t := features.DefaultThresholds()
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        50_000,
		ReportStoreSize:   10_000,
		DefaultTopN:       3,
		ReportTopN:        5,
		MaxTopN:           50,
		Standardization:   string(style.ModeCatalogue),
		IncludeQueryInFit: true,
		PlaceholderMode:   PlaceholderMidpoint,
		PlaceholderSeed:   42,
		GroupMode:         string(comparative.ModeKMeans),
		InaccuracyCP:      t.Inaccuracy,
		MistakeCP:         t.Mistake,
		BlunderCP:         t.Blunder,
		Formulas: Formulas{
			AggressivenessDivisor: f.AggressivenessDivisor,
			SolidityBlunderWeight: f.SolidityBlunderWeight,
			PrecisionDivisor:      f.PrecisionDivisor,
			TacticsDivisor:        f.TacticsDivisor,
			StrategyDivisor:       f.StrategyDivisor,
			StrategyFloor:         f.StrategyFloor,
		},
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		NATSSubject:    "chessdna.analysis.completed",
	}
}

// FeatureFormulas converts the configured coefficients.
func (c *Config) FeatureFormulas() features.Formulas {
	return features.Formulas{
		AggressivenessDivisor: c.Formulas.AggressivenessDivisor,
		SolidityBlunderWeight: c.Formulas.SolidityBlunderWeight,
		PrecisionDivisor:      c.Formulas.PrecisionDivisor,
		TacticsDivisor:        c.Formulas.TacticsDivisor,
		StrategyDivisor:       c.Formulas.StrategyDivisor,
		StrategyFloor:         c.Formulas.StrategyFloor,
	}
}

// Thresholds returns the configured move classification cut-offs.
func (c *Config) Thresholds() features.Thresholds {
	return features.Thresholds{Inaccuracy: c.InaccuracyCP, Mistake: c.MistakeCP, Blunder: c.BlunderCP}
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, entry := range c.TrustedProxies {
		for _, raw := range strings.Split(entry, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if p, err := netip.ParsePrefix(raw); err == nil {
				out = append(out, p.Masked())
				continue
			}
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted_proxies entry %q: %w", raw, err)
			}
			addr = addr.Unmap()
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return out, nil
}

// Sampler returns the placeholder metric source for PlaceholderMode.
func (c *Config) Sampler() features.Sampler {
	if strings.EqualFold(c.PlaceholderMode, PlaceholderSeeded) {
		return features.NewSeededSampler(c.PlaceholderSeed)
	}
	return features.MidpointSampler{}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case c.QueueSize < 1:
		return invalid("queue_size must be positive, got %d", c.QueueSize)
	case c.WorkerCount < 1:
		return invalid("worker_count must be positive, got %d", c.WorkerCount)
	case c.DefaultTopN < 1 || c.ReportTopN < 1:
		return invalid("default_top_n and report_top_n must be positive")
	case c.MaxTopN < c.DefaultTopN || c.MaxTopN < c.ReportTopN:
		return invalid("max_top_n %d is below the default or report size", c.MaxTopN)
	case !c.Thresholds().Valid():
		return invalid("inaccuracy_cp < mistake_cp < blunder_cp must hold")
	case c.RateLimitRPS > 0 && c.RateLimitBurst < 1:
		return invalid("rate_limit_burst must be positive when rate limiting")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return invalid("log_format %q", c.LogFormat)
	}
	switch strings.ToLower(c.PlaceholderMode) {
	case "", PlaceholderMidpoint, PlaceholderSeeded:
	default:
		return invalid("placeholder_mode %q", c.PlaceholderMode)
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return invalid("%v", err)
	}
	if _, err := style.ParseMode(c.Standardization); err != nil {
		return invalid("%v", err)
	}
	if _, err := comparative.ParseGroupMode(c.GroupMode); err != nil {
		return invalid("%v", err)
	}
	return nil
}
