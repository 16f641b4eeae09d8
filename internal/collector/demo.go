package collector

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"TrendWatch/internal/calculator"
	"TrendWatch/internal/model"
)

// demoPrices are the base USD prices the demo series start from.
var demoPrices = map[model.Coin]float64{
	model.CoinBitcoin:     96525,
	model.CoinEthereum:    2250,
	model.CoinBinanceCoin: 315,
	model.CoinRipple:      0.52,
	model.CoinCardano:     0.48,
}

var demoPeriodHours = map[model.Period]int{
	model.Period24h: 24,
	model.Period7d:  168,
	model.Period30d: 720,
	model.Period90d: 2160,
}

// demoHourlyNoise is the standard deviation of one hourly return.
const demoHourlyNoise = 0.004

// DemoFetcher analyses a generated hourly price series instead of calling the
// backend. Used for development without a running analysis service.
type DemoFetcher struct {
	Now  func() time.Time
	Rand *rand.Rand
}

// NewDemoFetcher creates a DemoFetcher seeded from the clock.
func NewDemoFetcher() *DemoFetcher {
	seed := uint64(time.Now().UnixNano())
	return &DemoFetcher{
		Now:  time.Now,
		Rand: rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

func (d *DemoFetcher) Name() string { return "demo" }

func (d *DemoFetcher) FetchAnalysis(ctx context.Context, coin model.Coin, period model.Period) (*model.AnalysisSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(err)
	}
	base, ok := demoPrices[coin]
	if !ok {
		base = 100
	}
	hours, ok := demoPeriodHours[period]
	if !ok {
		hours = 24
	}

	closes := d.series(base, hours)
	change, err := calculator.PercentChange(closes)
	if err != nil {
		return nil, parseError(err)
	}
	rsi, err := calculator.RSI(closes, calculator.RSIPeriod)
	if err != nil {
		return nil, parseError(err)
	}
	vol := calculator.Volatility(closes)

	return &model.AnalysisSnapshot{
		Trend:          calculator.ClassifyTrend(change, rsi),
		Confidence:     round2(calculator.Confidence(change, rsi, vol)),
		PriceChange24h: model.Float(round2(change)),
		CurrentPrice:   round8(closes[len(closes)-1]),
		Period:         "SHORT",
		RSI:            model.Float(round2(rsi)),
		DataPoints:     model.Int(len(closes)),
		Volatility:     model.Float(round2(vol)),
		LastUpdate:     d.Now(),
	}, nil
}

// series is a random walk with a slowly drifting trend, one close per hour.
func (d *DemoFetcher) series(base float64, hours int) []float64 {
	closes := make([]float64, hours)
	price := base
	drift := d.Rand.Float64()*0.2 - 0.1
	for i := range closes {
		price *= 1 + drift/float64(hours) + d.Rand.NormFloat64()*demoHourlyNoise
		if i%4 == 0 {
			drift += d.Rand.Float64()*0.04 - 0.02
		}
		closes[i] = price
	}
	return closes
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
