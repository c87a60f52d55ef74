package team

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finbrief/finbrief/internal/agent"
	"github.com/finbrief/finbrief/internal/llm"
)

// cannedProvider answers every completion with the same message
type cannedProvider struct {
	content  string
	err      error
	requests []llm.CompletionRequest
}

func (p *cannedProvider) Name() string                     { return "canned" }
func (p *cannedProvider) IsAvailable(context.Context) bool { return true }
func (p *cannedProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{
		Message: llm.Message{Role: llm.RoleAssistant, Content: p.content},
		Model:   "test-model",
	}, nil
}

func newMember(name, role, output string, err error) *agent.Agent {
	p := &cannedProvider{content: output, err: err}
	return &agent.Agent{Name: name, Role: role, Provider: p}
}

func TestTeam_Run_SynthesizesMemberFindings(t *testing.T) {
	editor := &cannedProvider{content: "## Executive Summary\n- all good"}
	tm := &Team{
		Members: []*agent.Agent{
			newMember("web-agent", "research", "web findings here", nil),
			newMember("finance-agent", "data", "finance findings here", nil),
		},
		Provider:     editor,
		Instructions: "You are the lead editor.",
		Now:          func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) },
	}

	resp, err := tm.Run(context.Background(), "Analyze NVDA")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if resp.Text() != "## Executive Summary\n- all good" {
		t.Errorf("content = %q", resp.Text())
	}
	if resp.Members["web-agent"] != "web findings here" {
		t.Errorf("member output missing: %+v", resp.Members)
	}

	// Synthesis prompt must embed both member findings and the query
	synth := editor.requests[0].Messages[0].Content
	for _, want := range []string{"Analyze NVDA", "web findings here", "finance findings here", "web-agent", "finance-agent"} {
		if !strings.Contains(synth, want) {
			t.Errorf("synthesis prompt missing %q", want)
		}
	}
	if !strings.Contains(editor.requests[0].System, "Current date and time") {
		t.Error("datetime not appended to instructions")
	}
}

func TestTeam_Run_ToleratesOneFailedMember(t *testing.T) {
	editor := &cannedProvider{content: "report with gap"}
	tm := &Team{
		Members: []*agent.Agent{
			newMember("web-agent", "research", "", errors.New("search quota")),
			newMember("finance-agent", "data", "finance ok", nil),
		},
		Provider: editor,
	}

	resp, err := tm.Run(context.Background(), "Analyze AMD")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if resp.Text() != "report with gap" {
		t.Errorf("content = %q", resp.Text())
	}

	synth := editor.requests[0].Messages[0].Content
	if !strings.Contains(synth, "This member failed") {
		t.Error("synthesis prompt does not flag the failed member")
	}
	if !strings.Contains(resp.Members["web-agent"], "failed") {
		t.Errorf("member map does not record failure: %+v", resp.Members)
	}
}

func TestTeam_Run_AllMembersFailed(t *testing.T) {
	tm := &Team{
		Members: []*agent.Agent{
			newMember("web-agent", "research", "", errors.New("down")),
			newMember("finance-agent", "data", "", errors.New("down too")),
		},
		Provider: &cannedProvider{content: "unused"},
	}

	if _, err := tm.Run(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when every member fails")
	}
}

func TestTeam_Run_SynthesisErrorPropagates(t *testing.T) {
	tm := &Team{
		Members:  []*agent.Agent{newMember("web-agent", "research", "ok", nil)},
		Provider: &cannedProvider{err: errors.New("editor offline")},
	}

	_, err := tm.Run(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "editor offline") {
		t.Errorf("expected synthesis error, got %v", err)
	}
}

func TestResponse_Text_NilSafe(t *testing.T) {
	var r *Response
	if r.Text() != "" {
		t.Error("nil response should yield empty text")
	}
}
