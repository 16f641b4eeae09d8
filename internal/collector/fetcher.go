package collector

import (
	"context"

	"TrendWatch/internal/model"
)

// Fetcher retrieves one analysis snapshot for a coin and period.
type Fetcher interface {
	FetchAnalysis(ctx context.Context, coin model.Coin, period model.Period) (*model.AnalysisSnapshot, error)
	Name() string
}
