package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendWatch/internal/model"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestFetchAnalysis_Success(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{
		"trend": "BULLISH",
		"confidence": 0.82,
		"price_change_24h": 3.456,
		"current_price": 42050.5,
		"period": "SHORT",
		"rsi": 61.27,
		"data_points": 288,
		"last_update": "2024-03-01T12:30:00Z"
	}`)

	f := NewAnalysisFetcher(srv.URL, 5*time.Second, "")
	snap, err := f.FetchAnalysis(context.Background(), model.CoinEthereum, model.Period7d)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/analysis/price", req.URL.Path)
	assert.Equal(t, "ethereum", req.URL.Query().Get("coin"))
	assert.Equal(t, "7d", req.URL.Query().Get("period"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

	assert.Equal(t, model.TrendBullish, snap.Trend)
	assert.InDelta(t, 0.82, snap.Confidence, 1e-9)
	require.NotNil(t, snap.PriceChange24h)
	assert.InDelta(t, 3.456, *snap.PriceChange24h, 1e-9)
	assert.InDelta(t, 42050.5, snap.CurrentPrice, 1e-9)
	require.NotNil(t, snap.RSI)
	require.NotNil(t, snap.DataPoints)
	assert.Equal(t, 288, *snap.DataPoints)
	assert.True(t, snap.LastUpdate.Equal(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)))
}

func TestFetchAnalysis_OptionalFieldsAbsent(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{
		"trend": "NEUTRAL",
		"confidence": 0,
		"current_price": 0.52,
		"last_updated": "2024-03-01T12:30:00.123456"
	}`)

	snap, err := NewAnalysisFetcher(srv.URL, time.Second, "").FetchAnalysis(context.Background(), model.CoinRipple, model.Period24h)
	require.NoError(t, err)
	assert.Nil(t, snap.RSI)
	assert.Nil(t, snap.DataPoints)
	assert.Nil(t, snap.PriceChange24h)
	assert.Equal(t, 2024, snap.LastUpdate.Year())
	assert.Equal(t, time.Local, snap.LastUpdate.Location())
}

func TestFetchAnalysis_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound, http.StatusBadGateway} {
		// A well-formed body must not rescue a failing status.
		srv, _ := newTestServer(t, status, `{"trend":"BULLISH","confidence":1,"current_price":1,"last_update":"2024-03-01T12:30:00Z"}`)

		_, err := NewAnalysisFetcher(srv.URL, time.Second, "").FetchAnalysis(context.Background(), model.CoinBitcoin, model.Period24h)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrHTTPStatus)
		assert.Equal(t, statusMessage, err.Error())

		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, status, fe.StatusCode)
	}
}

func TestFetchAnalysis_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing trend", `{"confidence":0.5,"current_price":1,"last_update":"2024-03-01T12:30:00Z"}`},
		{"missing confidence", `{"trend":"BEARISH","current_price":1,"last_update":"2024-03-01T12:30:00Z"}`},
		{"confidence out of range", `{"trend":"BEARISH","confidence":1.5,"current_price":1,"last_update":"2024-03-01T12:30:00Z"}`},
		{"missing price", `{"trend":"BEARISH","confidence":0.5,"last_update":"2024-03-01T12:30:00Z"}`},
		{"bad rsi", `{"trend":"BEARISH","confidence":0.5,"current_price":1,"rsi":140,"last_update":"2024-03-01T12:30:00Z"}`},
		{"missing timestamp", `{"trend":"BEARISH","confidence":0.5,"current_price":1}`},
		{"bad timestamp", `{"trend":"BEARISH","confidence":0.5,"current_price":1,"last_update":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body)
			_, err := NewAnalysisFetcher(srv.URL, time.Second, "").FetchAnalysis(context.Background(), model.CoinBitcoin, model.Period24h)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			assert.Contains(t, err.Error(), "invalid analysis response")
		})
	}
}

func TestFetchAnalysis_BackendReportedError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"trend":"NEUTRAL","confidence":0,"current_price":0,"last_updated":"","error":"coingecko timeout"}`)

	_, err := NewAnalysisFetcher(srv.URL, time.Second, "").FetchAnalysis(context.Background(), model.CoinBitcoin, model.Period24h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "coingecko timeout")
}

func TestFetchAnalysis_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAnalysisFetcher(url, time.Second, "").FetchAnalysis(context.Background(), model.CoinBitcoin, model.Period24h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchAnalysis_CancelledContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalysisFetcher(srv.URL, time.Second, "").FetchAnalysis(ctx, model.CoinBitcoin, model.Period24h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestDemoFetcher(t *testing.T) {
	d := NewDemoFetcher()
	for _, c := range model.Coins {
		snap, err := d.FetchAnalysis(context.Background(), c.ID, model.Period30d)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, snap.Confidence, 0.0)
		assert.LessOrEqual(t, snap.Confidence, 1.0)
		require.NotNil(t, snap.DataPoints)
		assert.Equal(t, 720, *snap.DataPoints)
		assert.Positive(t, snap.CurrentPrice)
		require.NotNil(t, snap.RSI)
		assert.GreaterOrEqual(t, *snap.RSI, 0.0)
		assert.LessOrEqual(t, *snap.RSI, 100.0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.FetchAnalysis(ctx, model.CoinBitcoin, model.Period24h)
	assert.ErrorIs(t, err, ErrNetwork)
}
