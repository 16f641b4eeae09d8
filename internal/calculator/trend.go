package calculator

import (
	"errors"
	"math"

	"TrendWatch/internal/model"
)

// Trend thresholds: percent change over the window and RSI.
var thresholds = []struct {
	trend    model.Trend
	bullish  bool
	change   float64
	rsiLimit float64
}{
	{model.TrendStronglyBullish, true, 5, 70},
	{model.TrendBullish, true, 1, 55},
	{model.TrendStronglyBearish, false, -5, 30},
	{model.TrendBearish, false, -1, 45},
}

// PercentChange returns the change from the first to the last close in percent.
func PercentChange(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, errors.New("not enough data for price change")
	}
	first := closes[0]
	if first == 0 {
		return 0, errors.New("first close is zero")
	}
	return (closes[len(closes)-1] - first) / first * 100, nil
}

// Volatility is the standard deviation of hourly returns scaled to a day, in percent.
func Volatility(closes []float64) float64 {
	if len(closes) < 3 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var ss float64
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	return std * math.Sqrt(24) * 100
}

// ClassifyTrend maps a percent change and RSI to a trend. Both must agree.
func ClassifyTrend(change, rsi float64) model.Trend {
	for _, t := range thresholds {
		if t.bullish && change > t.change && rsi > t.rsiLimit {
			return t.trend
		}
		if !t.bullish && change < t.change && rsi < t.rsiLimit {
			return t.trend
		}
	}
	return model.TrendNeutral
}

// Confidence combines RSI distance from 50 and the size of the move,
// damped by volatility. The result is in [0,1].
func Confidence(change, rsi, volatility float64) float64 {
	rsiConf := math.Abs(rsi-50) / 50
	priceConf := math.Min(math.Abs(change)/5, 1)
	damp := math.Max(0, 1-volatility/10)
	return math.Min((rsiConf+priceConf)*damp, 1)
}
