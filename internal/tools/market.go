package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/model"
)

// MarketData fetches daily quote history from a Yahoo-style chart endpoint
// and derives the metrics the finance agent reports on.
type MarketData struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *Limiter
	store      cache.Cache // nil when caching is disabled
	quoteTTL   time.Duration
}

// NewMarketData creates the market data tool
func NewMarketData(marketCfg model.MarketConfig, httpCfg model.HTTPConfig, store cache.Cache) *MarketData {
	return &MarketData{
		baseURL:    strings.TrimSuffix(marketCfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		userAgent:  httpCfg.UserAgent,
		limiter:    NewLimiter(marketCfg.RequestsPerSecond, marketCfg.Burst),
		store:      store,
		quoteTTL:   marketCfg.QuoteTTL,
	}
}

// Name implements Tool
func (m *MarketData) Name() string { return "get_stock_data" }

// Description implements Tool
func (m *MarketData) Description() string {
	return "Fetch current price, 1D/5D/1M % changes, volume vs average, 30-day volatility and a risk level for one or more stock tickers. Returns a JSON array."
}

// Parameters implements Tool
func (m *MarketData) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"tickers": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Stock ticker symbols, e.g. [\"NVDA\", \"AMD\"]"
			}
		},
		"required": ["tickers"]
	}`)
}

type marketArgs struct {
	Tickers []string `json:"tickers"`
}

// Call implements Tool
func (m *MarketData) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var a marketArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", fmt.Errorf("get_stock_data arguments: %w", err)
	}
	if len(a.Tickers) == 0 {
		return "", fmt.Errorf("get_stock_data requires at least one ticker")
	}

	rows := make([]model.MarketData, 0, len(a.Tickers))
	for _, ticker := range a.Tickers {
		row, err := m.Quote(ctx, ticker)
		if err != nil {
			// One bad ticker should not sink the whole request; report it
			// inline so the model can mention the gap.
			rows = append(rows, model.MarketData{
				Ticker:   strings.ToUpper(strings.TrimSpace(ticker)),
				KeyNotes: fmt.Sprintf("data unavailable: %v", err),
			})
			continue
		}
		rows = append(rows, *row)
	}

	out, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal market data: %w", err)
	}
	return string(out), nil
}

// chart API response (only the fields we consume)
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches one month of daily candles for a ticker and derives metrics.
func (m *MarketData) Quote(ctx context.Context, ticker string) (*model.MarketData, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	quoteURL := fmt.Sprintf("%s/%s?range=1mo&interval=1d", m.baseURL, url.PathEscape(ticker))

	cacheKey := cache.Key("quote:" + quoteURL)
	if m.store != nil {
		if raw, ok := m.store.Get(cacheKey); ok {
			var cached model.MarketData
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	if err := m.limiter.Wait(ctx, quoteURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote endpoint returned HTTP %d for %s", resp.StatusCode, ticker)
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("quote error for %s: %s", ticker, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %s", ticker)
	}

	result := parsed.Chart.Result[0]
	closes := compact(result.Indicators.Quote[0].Close)
	volumes := compact(result.Indicators.Quote[0].Volume)

	if len(closes) == 0 {
		return nil, fmt.Errorf("no close prices for %s", ticker)
	}

	row := deriveMetrics(ticker, result.Meta.RegularMarketPrice, closes, volumes)

	if m.store != nil {
		if raw, err := json.Marshal(row); err == nil {
			_ = m.store.Set(cacheKey, raw, m.quoteTTL)
		}
	}

	return row, nil
}

// deriveMetrics computes the reportable figures from daily closes/volumes.
func deriveMetrics(ticker string, marketPrice float64, closes, volumes []float64) *model.MarketData {
	last := closes[len(closes)-1]
	price := marketPrice
	if price == 0 {
		price = last
	}

	row := &model.MarketData{
		Ticker:       ticker,
		CurrentPrice: round2(price),
	}

	row.Change1D = pctChangeFrom(closes, 1)
	row.Change5D = pctChangeFrom(closes, 5)
	row.Change1M = pctChangeFrom(closes, len(closes)-1)

	if len(volumes) > 1 {
		lastVol := volumes[len(volumes)-1]
		avg := mean(volumes[:len(volumes)-1])
		if avg > 0 {
			v := round2(lastVol / avg)
			row.VolumeVsAvg = &v
		}
	}

	if vol := annualizedVolatility(closes); vol != nil {
		row.Volatility30 = vol
		row.RiskLevel = riskLevel(*vol)
	}

	return row
}

// pctChangeFrom returns the percent change of the last close vs n sessions
// back, or nil when the history is too short.
func pctChangeFrom(closes []float64, n int) *float64 {
	if n <= 0 || len(closes) <= n {
		return nil
	}
	base := closes[len(closes)-1-n]
	if base == 0 {
		return nil
	}
	v := round2((closes[len(closes)-1] - base) / base * 100)
	return &v
}

// annualizedVolatility is the stddev of daily log returns scaled to a year,
// in percent.
func annualizedVolatility(closes []float64) *float64 {
	if len(closes) < 3 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < 2 {
		return nil
	}

	mu := mean(returns)
	var sumSq float64
	for _, r := range returns {
		sumSq += (r - mu) * (r - mu)
	}
	std := math.Sqrt(sumSq / float64(len(returns)-1))
	v := round2(std * math.Sqrt(252) * 100)
	return &v
}

// riskLevel buckets annualized volatility into the report's traffic lights.
func riskLevel(annualVolPct float64) string {
	switch {
	case annualVolPct < 20:
		return "🟢 LOW"
	case annualVolPct < 40:
		return "🟡 MEDIUM"
	default:
		return "🔴 HIGH"
	}
}

func compact(vals []*float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
