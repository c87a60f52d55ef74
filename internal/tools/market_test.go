package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/model"
)

// chartJSON builds a minimal chart payload with ascending closes 100..121
// and constant volume except a doubled final session.
func chartJSON(symbol string) string {
	closes := make([]string, 0, 22)
	volumes := make([]string, 0, 22)
	for i := 0; i < 22; i++ {
		closes = append(closes, fmt.Sprintf("%d", 100+i))
		vol := 1000000
		if i == 21 {
			vol = 2000000
		}
		volumes = append(volumes, fmt.Sprintf("%d", vol))
	}
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": %q, "regularMarketPrice": 121.0},
				"timestamp": [],
				"indicators": {"quote": [{"close": [%s], "volume": [%s]}]}
			}],
			"error": null
		}
	}`, symbol, strings.Join(closes, ","), strings.Join(volumes, ","))
}

func newMarketConfig(baseURL string) model.MarketConfig {
	return model.MarketConfig{
		BaseURL:           baseURL,
		QuoteTTL:          time.Minute,
		RequestsPerSecond: 100,
		Burst:             10,
	}
}

func TestMarketData_Quote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/NVDA") {
			t.Errorf("path = %s, want .../NVDA", r.URL.Path)
		}
		_, _ = w.Write([]byte(chartJSON("NVDA")))
	}))
	defer server.Close()

	md := NewMarketData(newMarketConfig(server.URL), newHTTPConfig(), nil)

	row, err := md.Quote(context.Background(), "nvda")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if row.Ticker != "NVDA" {
		t.Errorf("ticker = %s", row.Ticker)
	}
	if row.CurrentPrice != 121.0 {
		t.Errorf("price = %v, want 121.0", row.CurrentPrice)
	}

	// last close 121 vs 120 one session back
	if row.Change1D == nil || *row.Change1D != 0.83 {
		t.Errorf("change_1d = %v, want 0.83", row.Change1D)
	}
	// vs 116 five sessions back
	if row.Change5D == nil || *row.Change5D != 4.31 {
		t.Errorf("change_5d = %v, want 4.31", row.Change5D)
	}
	// vs 100 at the start of the window
	if row.Change1M == nil || *row.Change1M != 21.0 {
		t.Errorf("change_1m = %v, want 21.0", row.Change1M)
	}
	// final volume is double the trailing average
	if row.VolumeVsAvg == nil || *row.VolumeVsAvg != 2.0 {
		t.Errorf("volume_vs_avg = %v, want 2.0", row.VolumeVsAvg)
	}
	if row.Volatility30 == nil {
		t.Error("expected volatility to be computed")
	}
	if row.RiskLevel == "" {
		t.Error("expected a risk level")
	}
}

func TestMarketData_QuoteCached(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		_, _ = w.Write([]byte(chartJSON("AMD")))
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	md := NewMarketData(newMarketConfig(server.URL), newHTTPConfig(), store)

	for i := 0; i < 3; i++ {
		if _, err := md.Quote(context.Background(), "AMD"); err != nil {
			t.Fatalf("Quote %d failed: %v", i, err)
		}
	}

	if n := atomic.LoadInt64(&requests); n != 1 {
		t.Errorf("expected 1 upstream request, got %d", n)
	}
}

func TestMarketData_Call_BadTickerReportedInline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/BAD") {
			_, _ = w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
			return
		}
		_, _ = w.Write([]byte(chartJSON("NVDA")))
	}))
	defer server.Close()

	md := NewMarketData(newMarketConfig(server.URL), newHTTPConfig(), nil)

	out, err := md.Call(context.Background(), json.RawMessage(`{"tickers":["NVDA","BAD"]}`))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	var rows []model.MarketData
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("Call output is not JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].CurrentPrice != 121.0 {
		t.Errorf("good ticker row missing data: %+v", rows[0])
	}
	if !strings.Contains(rows[1].KeyNotes, "data unavailable") {
		t.Errorf("bad ticker not reported: %+v", rows[1])
	}
}

func TestMarketData_Call_NoTickers(t *testing.T) {
	md := NewMarketData(newMarketConfig("http://unused"), newHTTPConfig(), nil)

	if _, err := md.Call(context.Background(), json.RawMessage(`{"tickers":[]}`)); err == nil {
		t.Fatal("expected error for empty ticker list")
	}
}
