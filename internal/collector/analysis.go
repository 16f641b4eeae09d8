package collector

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"TrendWatch/internal/logger"
	"TrendWatch/internal/model"
)

const analysisPath = "/api/analysis/price"

// AnalysisFetcher implements Fetcher against the price analysis backend.
type AnalysisFetcher struct {
	client   *resty.Client
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// NewAnalysisFetcher creates a fetcher with optional proxy support.
func NewAnalysisFetcher(baseURL string, timeout time.Duration, proxyURL string) *AnalysisFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &AnalysisFetcher{
		client:   client,
		validate: newValidator(),
		log:      logger.Named("collector"),
	}
}

func (f *AnalysisFetcher) Name() string { return "analysis-api" }

// FetchAnalysis issues GET /api/analysis/price?coin=..&period=.. and decodes the body.
// Every failure is a *FetchError.
func (f *AnalysisFetcher) FetchAnalysis(ctx context.Context, coin model.Coin, period model.Period) (*model.AnalysisSnapshot, error) {
	requestID := uuid.NewString()
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetQueryParams(map[string]string{
			"coin":   string(coin),
			"period": string(period),
		}).
		Get(analysisPath)
	if err != nil {
		f.log.Warnw("analysis request failed", "request_id", requestID, "coin", coin, "period", period, "error", err)
		return nil, networkError(err)
	}
	if !resp.IsSuccess() {
		f.log.Warnw("analysis request rejected", "request_id", requestID, "status", resp.StatusCode(), "body", truncate(resp.String(), 200))
		return nil, statusError(resp.StatusCode())
	}

	snap, err := decodeSnapshot(f.validate, resp.Body())
	if err != nil {
		f.log.Warnw("analysis response rejected", "request_id", requestID, "error", err)
		return nil, err
	}
	f.log.Debugw("analysis received", "request_id", requestID, "coin", coin, "period", period,
		"trend", snap.Trend, "took", resp.Time())
	return snap, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
