package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/model"
	"github.com/finbrief/finbrief/internal/util"
)

// SearchResult is one entry returned by the web search tool
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearch queries the DuckDuckGo HTML endpoint and parses organic results.
// No API key is needed; the endpoint serves plain HTML.
type WebSearch struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	maxResults   int
	maxBodyBytes int64
	limiter      *Limiter
	robots       *util.RobotsChecker // nil when robots checking is disabled
	store        cache.Cache         // nil when caching is disabled
	cacheTTL     time.Duration
}

// NewWebSearch creates the web search tool
func NewWebSearch(searchCfg model.SearchConfig, httpCfg model.HTTPConfig, store cache.Cache, cacheTTL time.Duration) *WebSearch {
	var robots *util.RobotsChecker
	if searchCfg.RespectRobots {
		robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}

	maxResults := searchCfg.MaxResults
	if maxResults <= 0 {
		maxResults = 8
	}

	return &WebSearch{
		baseURL:      strings.TrimSuffix(searchCfg.BaseURL, "/") + "/",
		httpClient:   &http.Client{Timeout: httpCfg.Timeout},
		userAgent:    httpCfg.UserAgent,
		maxResults:   maxResults,
		maxBodyBytes: httpCfg.MaxBodyBytes,
		limiter:      NewLimiter(searchCfg.RequestsPerSecond, searchCfg.Burst),
		robots:       robots,
		store:        store,
		cacheTTL:     cacheTTL,
	}
}

// Name implements Tool
func (w *WebSearch) Name() string { return "web_search" }

// Description implements Tool
func (w *WebSearch) Description() string {
	return "Search the web for recent news and information. Returns a JSON array of results with title, url and snippet."
}

// Parameters implements Tool
func (w *WebSearch) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The search query"},
			"max_results": {"type": "integer", "description": "Maximum number of results (default 8)"}
		},
		"required": ["query"]
	}`)
}

type webSearchArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Call implements Tool
func (w *WebSearch) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var a webSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", fmt.Errorf("web_search arguments: %w", err)
	}
	if strings.TrimSpace(a.Query) == "" {
		return "", fmt.Errorf("web_search requires a non-empty query")
	}

	results, err := w.Search(ctx, a.Query, a.MaxResults)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshal search results: %w", err)
	}
	return string(out), nil
}

// Search runs one query and returns up to max organic results.
func (w *WebSearch) Search(ctx context.Context, query string, max int) ([]SearchResult, error) {
	if max <= 0 || max > w.maxResults {
		max = w.maxResults
	}

	cacheKey := cache.Key("search:" + query)
	if w.store != nil {
		if raw, ok := w.store.Get(cacheKey); ok {
			var cached []SearchResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				return clip(cached, max), nil
			}
		}
	}

	searchURL := w.baseURL + "?q=" + url.QueryEscape(query)

	if w.robots != nil && !w.robots.IsAllowed(ctx, searchURL) {
		return nil, fmt.Errorf("search endpoint disallowed by robots.txt: %s", w.baseURL)
	}
	if err := w.limiter.Wait(ctx, searchURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if w.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, w.maxBodyBytes)
	}

	results, err := parseSearchHTML(body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	if w.store != nil {
		if raw, err := json.Marshal(results); err == nil {
			_ = w.store.Set(cacheKey, raw, w.cacheTTL)
		}
	}

	return clip(results, max), nil
}

func clip(results []SearchResult, max int) []SearchResult {
	if len(results) > max {
		return results[:max]
	}
	return results
}

// parseSearchHTML walks the result page. Organic results carry
// class "result__a" on the title anchor and "result__snippet" on the
// snippet node.
func parseSearchHTML(r io.Reader) ([]SearchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	var current *SearchResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			cls := attr(n, "class")
			switch {
			case strings.Contains(cls, "result__a"):
				if current != nil && current.Title != "" {
					results = append(results, *current)
				}
				current = &SearchResult{
					Title: strings.TrimSpace(textContent(n)),
					URL:   cleanResultURL(attr(n, "href")),
				}
			case strings.Contains(cls, "result__snippet"):
				if current != nil && current.Snippet == "" {
					current.Snippet = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if current != nil && current.Title != "" {
		results = append(results, *current)
	}
	return results, nil
}

// cleanResultURL unwraps the redirect links the endpoint uses
// (//duckduckgo.com/l/?uddg=<encoded>).
func cleanResultURL(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
