package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource downloads daily history for a set of symbols from the Yahoo
// Finance chart API and presents it as a Date,Ticker,Close,Adj Close table.
type YahooSource struct {
	Client    *http.Client
	BaseURL   string
	Symbols   []string
	Range     string            // Yahoo range, e.g. "1y", "2y", "5y"
	SymbolMap map[string]string // maps a display ticker to a Yahoo symbol
}

// NewYahooSource creates a Yahoo source that routes through proxyURL when set.
func NewYahooSource(symbols []string, rng, proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSource{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: yahooBaseURL,
		Symbols: symbols,
		Range:   rng,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (y *YahooSource) Name() string { return "yahoo" }

func (y *YahooSource) yahooSymbol(symbol string) string {
	if mapped, ok := y.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooBar struct {
	Time     time.Time
	Close    float64
	AdjClose float64
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func formatPrice(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Load fetches every configured symbol and merges them into one table.
func (y *YahooSource) Load(ctx context.Context) (*RawTable, error) {
	if len(y.Symbols) == 0 {
		return nil, fmt.Errorf("yahoo: no symbols configured")
	}
	raw := &RawTable{Columns: []string{"Date", "Ticker", "Close", "Adj Close"}}
	for _, sym := range y.Symbols {
		bars, err := y.fetchChart(ctx, sym)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", sym, err)
		}
		for _, b := range bars {
			raw.Rows = append(raw.Rows, []string{
				b.Time.UTC().Format("2006-01-02"),
				sym,
				formatPrice(b.Close),
				formatPrice(b.AdjClose),
			})
		}
	}
	return raw, nil
}

func (y *YahooSource) fetchChart(ctx context.Context, symbol string) ([]yahooBar, error) {
	rng := y.Range
	if rng == "" {
		rng = "2y"
	}
	base := y.BaseURL
	if base == "" {
		base = yahooBaseURL
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		base, url.PathEscape(y.yahooSymbol(symbol)), url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := y.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data")
	}
	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]yahooBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		var c, a float64
		if i < len(quote.Close) {
			c = toFloat(quote.Close[i])
		}
		if i < len(adj) {
			a = toFloat(adj[i])
		}
		if c == 0 && a == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, yahooBar{Time: time.Unix(ts, 0), Close: c, AdjClose: a})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
