package render

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Placeholder is shown for values the backend did not send.
const Placeholder = "N/A"

// LastUpdateLayout is the local date-time layout of the indicators panel.
const LastUpdateLayout = "2006-01-02 15:04:05"

// FormatUSD renders a price as US dollars with exactly two fractional digits,
// e.g. 42050.5 -> "$42,050.50".
func FormatUSD(price float64) string {
	rounded := decimal.NewFromFloat(price).Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	f, _ := rounded.Float64()
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// FormatChange renders a percent change rounded to two decimals. Strictly
// positive values get a "+" prefix; zero and negative values carry no extra sign.
func FormatChange(change *float64) string {
	if change == nil || math.IsNaN(*change) {
		return Placeholder
	}
	d := decimal.NewFromFloat(*change)
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// FormatConfidence renders a [0,1] confidence as a one-decimal percentage.
func FormatConfidence(confidence float64) string {
	return decimal.NewFromFloat(confidence).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatRSI renders the RSI with two decimals.
func FormatRSI(rsi *float64) string {
	if rsi == nil || math.IsNaN(*rsi) {
		return Placeholder
	}
	return decimal.NewFromFloat(*rsi).StringFixed(2)
}

// FormatDataPoints renders the sample count with thousands separators.
func FormatDataPoints(points *int) string {
	if points == nil {
		return Placeholder
	}
	return humanize.Comma(int64(*points))
}

// FormatLastUpdate renders ts in the given location.
func FormatLastUpdate(ts time.Time, loc *time.Location) string {
	if ts.IsZero() {
		return Placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(LastUpdateLayout)
}
