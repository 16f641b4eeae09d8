package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"TrendWatch/internal/model"
)

// analysisPayload is the wire shape of /api/analysis/price.
type analysisPayload struct {
	Trend          string   `json:"trend" validate:"required"`
	Confidence     *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
	PriceChange24h *float64 `json:"price_change_24h"`
	CurrentPrice   *float64 `json:"current_price" validate:"required,gte=0"`
	Period         string   `json:"period"`
	RSI            *float64 `json:"rsi" validate:"omitempty,gte=0,lte=100"`
	DataPoints     *int     `json:"data_points" validate:"omitempty,gte=0"`
	Volatility     *float64 `json:"volatility"`
	LastUpdate     string   `json:"last_update"`
	LastUpdated    string   `json:"last_updated"`
	Error          string   `json:"error"`
}

// Timestamps arrive either zoned (RFC 3339) or as a naive ISO-8601 local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeSnapshot parses and validates a response body.
func decodeSnapshot(v *validator.Validate, body []byte) (*model.AnalysisSnapshot, error) {
	var p analysisPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, parseError(fmt.Errorf("decode body: %w", err))
	}
	if p.Error != "" {
		return nil, backendError(p.Error)
	}
	if err := v.Struct(&p); err != nil {
		return nil, parseError(describeValidation(err))
	}

	raw := p.LastUpdate
	if raw == "" {
		raw = p.LastUpdated
	}
	ts, err := parseTimestamp(raw)
	if err != nil {
		return nil, parseError(err)
	}

	return &model.AnalysisSnapshot{
		Trend:          model.Trend(p.Trend),
		Confidence:     *p.Confidence,
		PriceChange24h: p.PriceChange24h,
		CurrentPrice:   *p.CurrentPrice,
		Period:         p.Period,
		RSI:            p.RSI,
		DataPoints:     p.DataPoints,
		Volatility:     p.Volatility,
		LastUpdate:     ts,
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("last_update is required")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("last_update %q is not a timestamp", raw)
}

// describeValidation turns validator output into "field: rule" pairs.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, ", "))
}
