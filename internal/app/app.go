// Package app assembles the finbrief components from configuration.
//
// Everything downstream of the CLI is wired here: provider, cache, tools,
// the three analysis agents, the team, and the router. The CLI commands
// depend only on App; no command constructs agents itself.
package app

import (
	"context"
	"fmt"

	"github.com/finbrief/finbrief/internal/agent"
	"github.com/finbrief/finbrief/internal/cache"
	"github.com/finbrief/finbrief/internal/classify"
	"github.com/finbrief/finbrief/internal/factcheck"
	"github.com/finbrief/finbrief/internal/llm"
	"github.com/finbrief/finbrief/internal/model"
	"github.com/finbrief/finbrief/internal/prompt"
	"github.com/finbrief/finbrief/internal/router"
	"github.com/finbrief/finbrief/internal/session"
	"github.com/finbrief/finbrief/internal/team"
	"github.com/finbrief/finbrief/internal/tools"
)

// App holds the assembled query pipeline and its supporting services
type App struct {
	Config   *model.Config
	Provider llm.Provider
	Router   *router.Router
	Sessions *session.Store
}

// New builds the full pipeline from config. The session store is opened
// eagerly so a bad database path fails at startup, not mid-conversation.
func New(ctx context.Context, cfg *model.Config) (*App, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider)")
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	webSearch := tools.NewWebSearch(cfg.Search, cfg.HTTP, store, cfg.Cache.TTL)
	marketData := tools.NewMarketData(cfg.Market, cfg.HTTP, store)

	validator := &agent.Agent{
		Name:         "news-validator",
		Role:         prompt.ValidatorRole,
		Instructions: prompt.Validator,
		Provider:     provider,
		Tools:        []tools.Tool{webSearch},
		MaxTurns:     cfg.Team.MaxTurns,
	}
	webAgent := &agent.Agent{
		Name:         "web-agent",
		Role:         prompt.WebAgentRole,
		Instructions: prompt.WebAgent,
		Provider:     provider,
		Tools:        []tools.Tool{webSearch},
		MaxTurns:     cfg.Team.MaxTurns,
	}
	financeAgent := &agent.Agent{
		Name:         "finance-agent",
		Role:         prompt.FinanceAgentRole,
		Instructions: prompt.FinanceAgent,
		Provider:     provider,
		Tools:        []tools.Tool{marketData},
		MaxTurns:     cfg.Team.MaxTurns,
	}

	analysisTeam := &team.Team{
		Members:       []*agent.Agent{webAgent, financeAgent},
		Provider:      provider,
		Instructions:  prompt.LeadEditor,
		MemberTimeout: cfg.Team.MemberTimeout,
	}

	checker := factcheck.New(validator, cfg.Team.MemberTimeout)

	sessions, err := session.Open(ctx, cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &App{
		Config:   cfg,
		Provider: provider,
		Router:   router.New(classify.New(), checker, analysisTeam),
		Sessions: sessions,
	}, nil
}

// Query runs one query through the router and records the exchange when a
// session id is supplied. Session write failures do not fail the query.
func (a *App) Query(ctx context.Context, sessionID, query string) (string, error) {
	out, err := a.Router.Route(ctx, query)
	if err != nil {
		return "", err
	}
	if sessionID != "" {
		// The response is already computed; a failed log write drops the
		// turn from history but never the answer.
		_ = a.Sessions.AppendTurn(ctx, sessionID, query, out)
	}
	return out, nil
}

// Close releases the app's persistent resources.
func (a *App) Close() error {
	return a.Sessions.Close()
}
