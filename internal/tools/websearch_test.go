package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/model"
)

const searchPage = `<html><body>
<div class="results">
  <div class="result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fnvda-record&rut=abc">NVDA hits record high</a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fnvda-record">Shares of Nvidia rose 4% on strong datacenter demand.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://other.com/amd-earnings">AMD earnings beat</a>
    </h2>
    <a class="result__snippet">AMD reported revenue above expectations.</a>
  </div>
</div>
</body></html>`

func newSearchConfig(baseURL string) model.SearchConfig {
	return model.SearchConfig{
		BaseURL:           baseURL,
		MaxResults:        8,
		RespectRobots:     false,
		RequestsPerSecond: 100,
		Burst:             10,
	}
}

func newHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "finbrief-test",
		MaxBodyBytes: 1_000_000,
	}
}

func TestWebSearch_ParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "nvidia news" {
			t.Errorf("query = %q, want %q", got, "nvidia news")
		}
		_, _ = w.Write([]byte(searchPage))
	}))
	defer server.Close()

	ws := NewWebSearch(newSearchConfig(server.URL), newHTTPConfig(), nil, 0)

	results, err := ws.Search(context.Background(), "nvidia news", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}

	if results[0].Title != "NVDA hits record high" {
		t.Errorf("title = %q", results[0].Title)
	}
	// The redirect wrapper must be unwrapped to the target URL
	if results[0].URL != "https://example.com/nvda-record" {
		t.Errorf("url = %q", results[0].URL)
	}
	if !strings.Contains(results[0].Snippet, "datacenter demand") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
	if results[1].URL != "https://other.com/amd-earnings" {
		t.Errorf("plain url mangled: %q", results[1].URL)
	}
}

func TestWebSearch_CacheHitSkipsFetch(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		_, _ = w.Write([]byte(searchPage))
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	ws := NewWebSearch(newSearchConfig(server.URL), newHTTPConfig(), store, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := ws.Search(context.Background(), "nvidia news", 0); err != nil {
			t.Fatalf("Search %d failed: %v", i, err)
		}
	}

	if n := atomic.LoadInt64(&requests); n != 1 {
		t.Errorf("expected 1 upstream request, got %d", n)
	}
}

func TestWebSearch_MaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchPage))
	}))
	defer server.Close()

	ws := NewWebSearch(newSearchConfig(server.URL), newHTTPConfig(), nil, 0)

	results, err := ws.Search(context.Background(), "nvidia", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestWebSearch_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchPage))
	}))
	defer server.Close()

	ws := NewWebSearch(newSearchConfig(server.URL), newHTTPConfig(), nil, 0)

	out, err := ws.Call(context.Background(), json.RawMessage(`{"query":"nvidia news"}`))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	var results []SearchResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("Call output is not JSON: %v", err)
	}
	if len(results) == 0 {
		t.Error("expected results in tool output")
	}
}

func TestWebSearch_Call_EmptyQuery(t *testing.T) {
	ws := NewWebSearch(newSearchConfig("http://unused"), newHTTPConfig(), nil, 0)

	if _, err := ws.Call(context.Background(), json.RawMessage(`{"query":"  "}`)); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestWebSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ws := NewWebSearch(newSearchConfig(server.URL), newHTTPConfig(), nil, 0)

	if _, err := ws.Search(context.Background(), "anything", 0); err == nil {
		t.Fatal("expected error for HTTP 503")
	}
}
