// Package factcheck turns one delegated research call into a routing verdict.
//
// The checker asks a search-capable agent to verify the query, then maps the
// reply to a verdict two ways: structured JSON when the validator honored its
// schema, and fixed substring heuristics otherwise. The two arms are kept
// explicit so downstream code can tell "validator said nothing concerning"
// apart from "validator's output was malformed".
package factcheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finbrief/finbrief/internal/model"
)

// Researcher is the single external capability the checker depends on.
// *agent.Agent satisfies it; tests inject fakes.
type Researcher interface {
	Run(ctx context.Context, input string) (string, error)
}

// Checker validates user queries by searching for factual evidence.
type Checker struct {
	researcher Researcher
	timeout    time.Duration
}

// New creates a checker. A zero timeout disables the per-check deadline.
func New(researcher Researcher, timeout time.Duration) *Checker {
	return &Checker{researcher: researcher, timeout: timeout}
}

// Check runs one fact-check cycle for the query. Transport and model errors
// propagate to the caller; a malformed validator reply does not.
func (c *Checker) Check(ctx context.Context, query string) (model.FactCheckResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.researcher.Run(ctx, fmt.Sprintf(
		"Please fact-check this query and provide enhanced context in JSON: %s", query))
	if err != nil {
		return model.FactCheckResult{}, fmt.Errorf("fact-check research: %w", err)
	}

	return Evaluate(text), nil
}

// Evaluate maps raw validator output to a result. It is a pure function of
// the text: structured replies win, everything else falls back to the
// substring heuristics.
func Evaluate(text string) model.FactCheckResult {
	if verdict, ok := ParseVerdict(text); ok {
		reason := verdict.Summary
		if reason == "" {
			reason = "Validator returned no summary."
		}
		return model.FactCheckResult{
			Status:  verdict.Status.FactStatus(),
			Reason:  reason,
			Verdict: verdict,
		}
	}
	status, reason := Heuristic(text)
	return model.FactCheckResult{Status: status, Reason: reason}
}

// Heuristic is the simple-substring verdict mapping. Checks run in a fixed
// order; the first match wins.
func Heuristic(text string) (model.FactStatus, string) {
	t := strings.ToLower(text)

	switch {
	case strings.TrimSpace(t) == "" || strings.Contains(t, "no results"):
		return model.StatusFalse, "No evidence found in recent reports."
	case strings.Contains(t, "uncertain"),
		strings.Contains(t, "rumor"),
		strings.Contains(t, "unverified"):
		return model.StatusUncertain, "Conflicting or insufficient evidence."
	default:
		return model.StatusVerified, "Evidence found in multiple sources."
	}
}
