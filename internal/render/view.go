package render

import (
	"encoding/json"
	"time"

	"TrendWatch/internal/model"
)

// Title is the dashboard heading.
const Title = "Crypto Analysis Dashboard"

// Tone is the emphasis of a value: how it should be colored.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// ScreenKind says which of the mutually exclusive views is shown.
type ScreenKind int

const (
	ScreenLoading ScreenKind = iota
	ScreenError
	ScreenDashboard
)

// Screen is the display tree for one state.
type Screen struct {
	Kind ScreenKind

	// ScreenError
	Message string

	// ScreenDashboard
	Title      string
	Selectors  []Selector
	Cards      []Card
	Indicators []Indicator
	Debug      string
}

// Selector is a choice control bound to one Selection field.
type Selector struct {
	Name    string
	Current string
	Options []SelectorOption
}

type SelectorOption struct {
	ID       string
	Label    string
	Selected bool
}

// Card is one summary tile.
type Card struct {
	Title    string
	Value    string
	Tone     Tone
	Subtitle string
}

// Indicator is one line of the technical indicators panel.
type Indicator struct {
	Label string
	Value string
}

// Options carries environment inputs that are not part of the state.
type Options struct {
	// Debug shows the raw snapshot dump. Set only in development.
	Debug    bool
	Location *time.Location
}

// View maps (status, snapshot, selection) to a Screen. It has no side effects.
func View(status model.Status, snap model.AnalysisSnapshot, sel model.Selection, opts Options) Screen {
	switch status.Kind {
	case model.StatusLoading:
		return Screen{Kind: ScreenLoading}
	case model.StatusErrored:
		return Screen{Kind: ScreenError, Message: "Error: " + status.Message}
	}

	s := Screen{
		Kind:  ScreenDashboard,
		Title: Title,
		Selectors: []Selector{
			selector("Coin", string(sel.Coin), model.Coins),
			selector("Period", string(sel.Period), model.Periods),
		},
		Cards: []Card{
			{
				Title:    "Trend",
				Value:    string(snap.Trend),
				Tone:     TrendTone(snap.Trend),
				Subtitle: "Confidence: " + FormatConfidence(snap.Confidence),
			},
			{
				Title: "24h Change",
				Value: FormatChange(snap.PriceChange24h),
				Tone:  ChangeTone(snap.PriceChange24h),
			},
			{
				Title: "Current Price",
				Value: FormatUSD(snap.CurrentPrice),
				Tone:  ToneNeutral,
			},
		},
		Indicators: []Indicator{
			{Label: "RSI", Value: FormatRSI(snap.RSI)},
			{Label: "Data Points", Value: FormatDataPoints(snap.DataPoints)},
			{Label: "Last Update", Value: FormatLastUpdate(snap.LastUpdate, opts.Location)},
		},
	}
	if opts.Debug {
		if b, err := json.MarshalIndent(snap, "", "  "); err == nil {
			s.Debug = string(b)
		}
	}
	return s
}

// TrendTone is positive only for BULLISH and negative only for BEARISH.
func TrendTone(t model.Trend) Tone {
	switch t {
	case model.TrendBullish:
		return TonePositive
	case model.TrendBearish:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// ChangeTone is positive for changes >= 0 and negative below zero.
func ChangeTone(change *float64) Tone {
	if change == nil {
		return ToneNeutral
	}
	if *change >= 0 {
		return TonePositive
	}
	return ToneNegative
}

func selector[T ~string](name, current string, opts []model.Option[T]) Selector {
	s := Selector{Name: name, Current: current, Options: make([]SelectorOption, 0, len(opts))}
	for _, o := range opts {
		s.Options = append(s.Options, SelectorOption{
			ID:       string(o.ID),
			Label:    o.Name,
			Selected: string(o.ID) == current,
		})
	}
	return s
}
