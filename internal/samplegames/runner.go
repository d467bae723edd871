package samplegames

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/pkg/logger"
)

// Run generates players, submits them, waits for their reports and checks
// the ranking invariants.
func Run(ctx context.Context, config *Config) error {
	applyDefaults(config)
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting chessdna sample run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("gamesPerPlayer", config.GamesPerPlayer),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Int("topN", config.TopN),
		logger.Bool("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	players, err := generatePlayers(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("player generation failed: %w", err)
	}

	if config.OutputFile != "" {
		if err := savePlayersToFile(ctx, config.OutputFile, players); err != nil {
			logger.Get().Warn(ctx, "failed to save players to file", logger.Error(err))
		}
	}

	if err := submitPlayers(ctx, config, players, stats); err != nil {
		return fmt.Errorf("job submission failed: %w", err)
	}

	reports, err := fetchReports(ctx, config, players, stats)
	if err != nil {
		return fmt.Errorf("report retrieval failed: %w", err)
	}

	verifyErr := verifyResults(ctx, config, players, reports, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return fmt.Errorf("result verification failed: %w", verifyErr)
	}
	logger.Get().Info(ctx, "sample run completed successfully")
	return nil
}

func applyDefaults(c *Config) {
	if c.Players <= 0 {
		c.Players = DefaultPlayers
	}
	if c.GamesPerPlayer <= 0 {
		c.GamesPerPlayer = DefaultGamesPerPlayer
	}
	if c.TopN < 0 {
		c.TopN = DefaultTopN
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SettleTimeout <= 0 {
		c.SettleTimeout = DefaultSettleTimeout
	}
	if !c.Thresholds.Valid() {
		c.Thresholds = features.DefaultThresholds()
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// The service answers /healthz with its Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePlayersToFile writes the generated players as a JSON object keyed by
// subject, the input format of `chessdna group`.
func savePlayersToFile(ctx context.Context, filename string, players []Player) error {
	if len(players) == 0 {
		return fmt.Errorf("no players to save")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	bySubject := make(map[string]any, len(players))
	for _, p := range players {
		bySubject[p.Subject] = p.Games
	}
	data, err := json.MarshalIndent(bySubject, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal players: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "players saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, jobsPerSecond float64
	if stats.JobsSubmitted > 0 {
		successRate = float64(stats.JobsAccepted+stats.JobsDuplicate) / float64(stats.JobsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		jobsPerSecond = float64(stats.JobsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("gamesGenerated", stats.GamesGenerated),
		logger.Int("jobsSubmitted", stats.JobsSubmitted),
		logger.Int("jobsAccepted", stats.JobsAccepted),
		logger.Int("jobsDuplicate", stats.JobsDuplicate),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Int("reportsRetrieved", stats.ReportsRetrieved),
		logger.Int("reportsMissing", stats.ReportsMissing),
		logger.Int("problems", stats.Problems),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("jobsPerSecond", jobsPerSecond))
}
