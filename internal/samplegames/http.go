package samplegames

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/chessdna/pkg/logger"
)

// HTTPClient wraps http.Client with JSON helpers.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

type submitResult int

const (
	submitAccepted submitResult = iota
	submitDuplicate
	submitFailed
)

// submitPlayers posts every player's job, then resubmits a share of them
// with the same job ID to exercise de-duplication.
func submitPlayers(ctx context.Context, config *Config, players []Player, stats *Stats) error {
	resubmit := int(math.Round(float64(len(players)) * config.DuplicateRatio))
	resubmit = max(0, min(resubmit, len(players)))
	jobs := make([]Player, 0, len(players)+resubmit)
	jobs = append(jobs, players...)
	jobs = append(jobs, players[:resubmit]...)

	logger.Get().Info(ctx, "submitting jobs",
		logger.Int("jobs", len(jobs)),
		logger.Int("resubmitted", resubmit),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	endpoint := config.BaseURL + "/api/v1/analyses"

	var submitted, accepted, duplicate, failed atomic.Int64

	// Originals must land before their resubmissions.
	send := func(batch []Player) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(1, config.Workers))
		for _, p := range batch {
			g.Go(func() error {
				switch submitSingleJob(gctx, client, endpoint, p.request(config.TopN)) {
				case submitAccepted:
					accepted.Add(1)
				case submitDuplicate:
					duplicate.Add(1)
				default:
					failed.Add(1)
				}
				if n := submitted.Add(1); config.Verbose && n%progressEvery == 0 {
					logger.Get().Info(gctx, "progress",
						logger.Int("submitted", int(n)),
						logger.Int("total", len(jobs)),
						logger.Int("failed", int(failed.Load())))
				}
				return gctx.Err()
			})
		}
		return g.Wait()
	}

	if err := send(jobs[:len(players)]); err != nil {
		return err
	}
	if err := send(jobs[len(players):]); err != nil {
		return err
	}

	stats.JobsSubmitted = int(submitted.Load())
	stats.JobsAccepted = int(accepted.Load())
	stats.JobsDuplicate = int(duplicate.Load())
	stats.JobsFailed = int(failed.Load())

	logger.Get().Info(ctx, "job submission completed",
		logger.Int("accepted", stats.JobsAccepted),
		logger.Int("duplicate", stats.JobsDuplicate),
		logger.Int("failed", stats.JobsFailed))
	return nil
}

// submitSingleJob posts one job and classifies the response.
func submitSingleJob(ctx context.Context, client *HTTPClient, endpoint string, req analysisRequest) submitResult {
	resp, err := client.Post(ctx, endpoint, req)
	if err != nil {
		return submitFailed
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return submitFailed
	}

	var ack AckResponse
	switch resp.StatusCode {
	case http.StatusAccepted:
		return submitAccepted
	case http.StatusOK:
		if err := json.Unmarshal(body, &ack); err == nil && !ack.Duplicate {
			return submitAccepted
		}
		return submitDuplicate
	default:
		logger.Get().Debug(ctx, "submission rejected",
			logger.String("subject", req.Subject),
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)))
		return submitFailed
	}
}

// fetchReports polls GET /api/v1/analyses/{subject} until every player has
// a report or config.SettleTimeout elapses.
func fetchReports(ctx context.Context, config *Config, players []Player, stats *Stats) (map[string]Report, error) {
	logger.Get().Info(ctx, "retrieving reports", logger.Int("players", len(players)))

	client := newHTTPClient(config.Timeout)
	settle, cancel := context.WithTimeout(ctx, config.SettleTimeout)
	defer cancel()

	reports := make(map[string]Report, len(players))
	pending := make([]string, len(players))
	for i, p := range players {
		pending[i] = p.Subject
	}

	for len(pending) > 0 {
		found := make([]*Report, len(pending))
		g, gctx := errgroup.WithContext(settle)
		g.SetLimit(max(1, config.Workers))
		for i, subject := range pending {
			g.Go(func() error {
				rep, ok, err := fetchSingleReport(gctx, client, config.BaseURL, subject)
				if err != nil {
					if config.Verbose {
						logger.Get().Warn(gctx, "failed to get report", logger.String("subject", subject), logger.Error(err))
					}
					return nil
				}
				if ok {
					found[i] = &rep
				}
				return nil
			})
		}
		_ = g.Wait()

		next := pending[:0]
		for i, subject := range pending {
			if found[i] != nil {
				reports[subject] = *found[i]
			} else {
				next = append(next, subject)
			}
		}
		pending = next
		if len(pending) == 0 {
			break
		}

		select {
		case <-settle.Done():
			logger.Get().Warn(ctx, "gave up waiting for reports", logger.Int("missing", len(pending)))
			stats.ReportsRetrieved = len(reports)
			stats.ReportsMissing = len(pending)
			return reports, nil
		case <-time.After(pollInterval):
		}
	}

	stats.ReportsRetrieved = len(reports)
	logger.Get().Info(ctx, "reports retrieved", logger.Int("count", len(reports)))
	return reports, nil
}

// fetchSingleReport returns the report for subject; ok is false on 404.
func fetchSingleReport(ctx context.Context, client *HTTPClient, baseURL, subject string) (Report, bool, error) {
	resp, err := client.Get(ctx, baseURL+"/api/v1/analyses/"+url.PathEscape(subject))
	if err != nil {
		return Report{}, false, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Report{}, false, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		var rep Report
		if err := json.Unmarshal(body, &rep); err != nil {
			return Report{}, false, fmt.Errorf("decode report: %w", err)
		}
		return rep, true, nil
	case http.StatusNotFound:
		return Report{}, false, nil
	default:
		return Report{}, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
