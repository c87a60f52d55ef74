// Package team coordinates the analysis agents and synthesizes their
// findings into the final report.
//
// The run mirrors a coordinate-mode team: every member receives the same
// prompt, members execute concurrently, and a lead-editor completion merges
// their contributions under the report template. Member parallelism stays
// inside this package; callers see one synchronous Run per query.
package team

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/finbrief/finbrief/internal/agent"
	"github.com/finbrief/finbrief/internal/llm"
)

// Response is the single tagged result type for a team run. All callers
// extract text through Text(); no other unwrapping exists.
type Response struct {
	// Content is the synthesized report
	Content string

	// Members maps member name to its raw contribution (kept for debugging
	// and the session log, not shown to the user)
	Members map[string]string

	// Model is the synthesis model used
	Model string

	// TokensUsed counts synthesis tokens (member usage is tracked by the
	// members' own providers)
	TokensUsed int
}

// Text returns the report content; safe on a nil response.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return r.Content
}

// Team fans a prompt out to its members and synthesizes a report
type Team struct {
	// Members are the specialized agents consulted on every run
	Members []*agent.Agent

	// Provider executes the synthesis completion
	Provider llm.Provider

	// Model overrides the provider's configured model when non-empty
	Model string

	// Instructions is the lead-editor system prompt
	Instructions string

	// MemberTimeout bounds each member's contribution (0 = no bound)
	MemberTimeout time.Duration

	// Now is injectable for tests; defaults to time.Now
	Now func() time.Time
}

type memberResult struct {
	name   string
	role   string
	output string
	err    error
}

// Run executes one coordinated analysis cycle for the prompt.
//
// A failed member does not abort the run: its error is surfaced to the
// synthesis step so the report can acknowledge the gap. Only when every
// member fails is the run itself an error.
func (t *Team) Run(ctx context.Context, prompt string) (*Response, error) {
	if t.Provider == nil {
		return nil, fmt.Errorf("team: no provider configured")
	}
	if len(t.Members) == 0 {
		return nil, fmt.Errorf("team: no members configured")
	}

	results := make([]memberResult, len(t.Members))
	var wg sync.WaitGroup

	for i, m := range t.Members {
		wg.Add(1)
		go func(idx int, m *agent.Agent) {
			defer wg.Done()

			mctx := ctx
			if t.MemberTimeout > 0 {
				var cancel context.CancelFunc
				mctx, cancel = context.WithTimeout(ctx, t.MemberTimeout)
				defer cancel()
			}

			out, err := m.Run(mctx, prompt)
			results[idx] = memberResult{name: m.Name, role: m.Role, output: out, err: err}
		}(i, m)
	}
	wg.Wait()

	members := make(map[string]string, len(results))
	var failures []error
	for _, r := range results {
		if r.err != nil {
			failures = append(failures, r.err)
			members[r.name] = fmt.Sprintf("(failed: %v)", r.err)
			continue
		}
		members[r.name] = r.output
	}
	if len(failures) == len(results) {
		return nil, fmt.Errorf("team: all members failed: %w", errors.Join(failures...))
	}

	resp, err := t.synthesize(ctx, prompt, results)
	if err != nil {
		return nil, err
	}
	resp.Members = members
	return resp, nil
}

// synthesize runs the lead-editor completion over the member findings.
func (t *Team) synthesize(ctx context.Context, prompt string, results []memberResult) (*Response, error) {
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\n# MEMBER FINDINGS\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "\n## %s (%s)\n", r.name, r.role)
		if r.err != nil {
			fmt.Fprintf(&sb, "This member failed (%v). Note the gap in the report.\n", r.err)
			continue
		}
		sb.WriteString(r.output)
		sb.WriteString("\n")
	}

	system := t.Instructions
	if now := t.now(); !now.IsZero() {
		system = fmt.Sprintf("%s\n\nCurrent date and time: %s", system, now.UTC().Format(time.RFC1123))
	}

	resp, err := t.Provider.Complete(ctx, llm.CompletionRequest{
		System:   system,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: sb.String()}},
		Model:    t.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("team synthesis: %w", err)
	}

	return &Response{
		Content:    resp.Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	}, nil
}

func (t *Team) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}
