package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
	"github.com/seannamartin08/stock-market-dashboard/internal/loader"
	"github.com/seannamartin08/stock-market-dashboard/internal/metrics"
)

const stocksCSV = `Date,Ticker,Adj Close,Close
2024-01-01,A,100,101
2024-01-02,A,110,111
2024-01-03,A,121,122
2024-01-04,A,115,116
2024-01-01,B,20,21
2024-01-02,B,22,23
2024-01-03,B,24.2,25
2024-01-04,B,23,24
`

func newServer(t *testing.T, fallbackContent string) *httptest.Server {
	t.Helper()
	fallback := filepath.Join(t.TempDir(), "stocks.csv")
	if fallbackContent != "" {
		require.NoError(t, os.WriteFile(fallback, []byte(fallbackContent), 0644))
	}
	reg := prometheus.NewRegistry()
	svc := dashboard.NewService(fallback, loader.Options{}, metrics.New(reg), zerolog.Nop())
	h := NewHandler(svc, 20, 10, 1, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(h, reg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type dashboardDoc struct {
	Ticker      string `json:"ticker"`
	PriceColumn string `json:"price_column"`
	MAWindow    int    `json:"ma_window"`
	Points      []struct {
		Date   string   `json:"date"`
		Price  float64  `json:"price"`
		Return *float64 `json:"return"`
	} `json:"points"`
	Histogram   []json.RawMessage `json:"histogram"`
	Correlation struct {
		Tickers []string `json:"tickers"`
		Failure *struct {
			Reason string `json:"reason"`
		} `json:"failure"`
	} `json:"correlation"`
	Notices []struct {
		Kind string `json:"kind"`
	} `json:"notices"`
}

func TestHealth(t *testing.T) {
	srv := newServer(t, "")
	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestTickers(t *testing.T) {
	srv := newServer(t, stocksCSV)
	var body TickersResponse
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tickers", &body))
	assert.Equal(t, []string{"A", "B"}, body.Tickers)
	assert.Equal(t, "2024-01-01", body.Start)
	assert.Equal(t, "2024-01-04", body.End)
	assert.Equal(t, "Adj Close", body.PriceColumn)
	assert.Equal(t, 8, body.Rows)
	assert.Equal(t, 20, body.MAWindow.Default)
	assert.Equal(t, 5, body.MAWindow.Min)
}

func TestDashboard_Get(t *testing.T) {
	srv := newServer(t, stocksCSV)
	var doc dashboardDoc
	status := getJSON(t, srv.URL+"/api/dashboard?ticker=B&start=2024-01-02&end=2024-01-03&ma_window=5", &doc)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "B", doc.Ticker)
	assert.Equal(t, 5, doc.MAWindow)
	require.Len(t, doc.Points, 2)
	assert.Equal(t, "2024-01-02", doc.Points[0].Date)
	assert.Equal(t, 22.0, doc.Points[0].Price)
	assert.Nil(t, doc.Points[0].Return)
	assert.Len(t, doc.Histogram, 10)
	assert.Equal(t, []string{"A", "B"}, doc.Correlation.Tickers)
}

func TestDashboard_Defaults(t *testing.T) {
	srv := newServer(t, stocksCSV)
	var doc dashboardDoc
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/dashboard", &doc))
	assert.Equal(t, "A", doc.Ticker)
	assert.Equal(t, 20, doc.MAWindow)
	assert.Len(t, doc.Points, 4)
}

func TestDashboard_InvertedRange(t *testing.T) {
	srv := newServer(t, stocksCSV)
	var doc dashboardDoc
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/dashboard?start=2024-01-04&end=2024-01-01", &doc))
	assert.Empty(t, doc.Points)
	require.NotEmpty(t, doc.Notices)
	assert.Equal(t, "EMPTY_SELECTION", doc.Notices[0].Kind)
}

func TestDashboard_InvalidParams(t *testing.T) {
	srv := newServer(t, stocksCSV)
	tests := []struct {
		query string
		field string
	}{
		{"ma_window=2", "ma_window"},
		{"ma_window=61", "ma_window"},
		{"start=01/02/2024", "start"},
		{"ma_window=abc", ""},
	}
	for _, tt := range tests {
		var body ErrorResponse
		status := getJSON(t, srv.URL+"/api/dashboard?"+tt.query, &body)
		assert.Equal(t, http.StatusBadRequest, status, tt.query)
		assert.Equal(t, "INVALID_PARAMS", body.Code, tt.query)
		if tt.field != "" {
			assert.Equal(t, []string{tt.field}, body.Fields, tt.query)
		}
	}
}

func TestDashboard_NoSource(t *testing.T) {
	srv := newServer(t, "")
	var body ErrorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/dashboard", &body))
	assert.Equal(t, "NO_SOURCE", body.Code)
}

func upload(t *testing.T, url, filename, content string, fields map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestUpload(t *testing.T) {
	srv := newServer(t, "")
	resp := upload(t, srv.URL+"/api/dashboard", "single.csv",
		"date,close price\n2024-01-01,10\n2024-01-02,11\nnope,12\n", map[string]string{"ma_window": "5"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc dashboardDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "SINGLE", doc.Ticker)
	assert.Equal(t, "Close Price", doc.PriceColumn)
	assert.Len(t, doc.Points, 2)
	require.NotNil(t, doc.Correlation.Failure)
	assert.Equal(t, "INSUFFICIENT_TICKERS", doc.Correlation.Failure.Reason)

	kinds := map[string]bool{}
	for _, n := range doc.Notices {
		kinds[n.Kind] = true
	}
	assert.True(t, kinds["DATA_QUALITY"])
}

func TestUpload_SchemaError(t *testing.T) {
	srv := newServer(t, stocksCSV)
	resp := upload(t, srv.URL+"/api/dashboard", "bad.csv", "Date,Open\n2024-01-01,1\n", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "SCHEMA_ERROR", body.Code)
	assert.Contains(t, body.Message, "missing price column")
}

func TestUpload_WithoutFileUsesFallback(t *testing.T) {
	srv := newServer(t, stocksCSV)
	resp := upload(t, srv.URL+"/api/dashboard", "", "", map[string]string{"ticker": "B"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc dashboardDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "B", doc.Ticker)
}

func TestUpload_UnsupportedType(t *testing.T) {
	srv := newServer(t, stocksCSV)
	resp := upload(t, srv.URL+"/api/dashboard", "prices.json", "{}", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t, stocksCSV)
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/dashboard", &dashboardDoc{}))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dashboard_loads_total{outcome="ok",source="csv"} 1`)
}
