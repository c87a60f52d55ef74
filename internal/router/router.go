// Package router decides, per query, whether to clarify back to the user or
// dispatch to the analysis team.
//
// Policy: gate-then-clarify. Queries whose premise fails verification get a
// clarifying message and never reach the team; verified premises are
// forwarded with the fact-check context embedded in the prompt. finance_only
// queries skip the fact-check entirely.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/finbrief/finbrief/internal/classify"
	"github.com/finbrief/finbrief/internal/model"
	"github.com/finbrief/finbrief/internal/present"
	"github.com/finbrief/finbrief/internal/team"
)

// TeamRunner is the analysis boundary the router dispatches to
type TeamRunner interface {
	Run(ctx context.Context, prompt string) (*team.Response, error)
}

// Checker is the fact-check boundary
type Checker interface {
	Check(ctx context.Context, query string) (model.FactCheckResult, error)
}

// Router combines classifier and checker outputs into one decision per query
type Router struct {
	classifier *classify.Classifier
	checker    Checker
	team       TeamRunner
}

// New creates a router
func New(classifier *classify.Classifier, checker Checker, teamRunner TeamRunner) *Router {
	return &Router{classifier: classifier, checker: checker, team: teamRunner}
}

// Route processes one query end to end and returns the user-facing text.
// Classification and fact-check are computed fresh on every call.
func (r *Router) Route(ctx context.Context, query string) (string, error) {
	switch r.classifier.Classify(query) {
	case model.ClassFinanceOnly:
		return r.dispatch(ctx, query)

	case model.ClassFactCheck:
		check, err := r.checker.Check(ctx, query)
		if err != nil {
			return "", err
		}
		if check.Status != model.StatusVerified {
			return clarify(check), nil
		}
		return r.dispatch(ctx, EnhancedPrompt(query, check))

	default: // mixed
		check, err := r.checker.Check(ctx, query)
		if err != nil {
			return "", err
		}
		if check.Status != model.StatusVerified {
			return clarify(check), nil
		}
		return r.dispatch(ctx, EnhancedPrompt(query, check))
	}
}

// dispatch invokes the team once and cleans its response text
func (r *Router) dispatch(ctx context.Context, prompt string) (string, error) {
	resp, err := r.team.Run(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analysis team: %w", err)
	}
	return present.Clean(resp.Text()), nil
}

// clarify builds the non-error message for unverified premises
func clarify(check model.FactCheckResult) string {
	switch check.Status {
	case model.StatusFalse:
		return fmt.Sprintf("No recent reports confirm this. %s Would you like me to run a hypothetical analysis instead?", check.Reason)
	default:
		return fmt.Sprintf("I couldn't fully verify this. %s Should I proceed hypothetically?", check.Reason)
	}
}

// EnhancedPrompt embeds the fact-check context into the team prompt so the
// report's Fact-Check Results section has verified material to cite.
func EnhancedPrompt(query string, check model.FactCheckResult) string {
	status := string(check.Status)
	summary := check.Reason
	var sources []string
	if check.Verdict != nil {
		status = string(check.Verdict.Status)
		if check.Verdict.Summary != "" {
			summary = check.Verdict.Summary
		}
		sources = check.Verdict.Sources
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ORIGINAL USER QUERY: %s\n\n", query)
	fmt.Fprintf(&sb, "FACT-CHECK STATUS: %s\n", status)
	fmt.Fprintf(&sb, "FACT-CHECK SUMMARY: %s\n", summary)
	if len(sources) > 0 {
		fmt.Fprintf(&sb, "SOURCES: %s\n", strings.Join(sources, "; "))
	}
	sb.WriteString("\nTEAM INSTRUCTIONS:\n")
	sb.WriteString("Based on the validated context above, provide a comprehensive financial analysis. ")
	sb.WriteString("Use your own research and financial data, but do NOT repeat raw JSON blocks. ")
	sb.WriteString("Structure your response with clear sections and confidence indicators.")
	return sb.String()
}
