package factcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finbrief/finbrief/internal/model"
)

type fakeResearcher struct {
	output string
	err    error
	input  string
}

func (f *fakeResearcher) Run(_ context.Context, input string) (string, error) {
	f.input = input
	return f.output, f.err
}

func TestHeuristic_FixedOrder(t *testing.T) {
	tests := []struct {
		text string
		want model.FactStatus
	}{
		{"Search returned no results for this claim", model.StatusFalse},
		{"", model.StatusFalse},
		{"   \n\t ", model.StatusFalse},
		{"This appears to be a rumor circulating on social media", model.StatusUncertain},
		{"The claim is UNVERIFIED at this time", model.StatusUncertain},
		{"Sources are uncertain about the timeline", model.StatusUncertain},
		{"Reuters and Bloomberg both covered the announcement", model.StatusVerified},
		// "no results" is checked before "rumor": first match wins
		{"no results found, only a rumor", model.StatusFalse},
	}

	for _, tt := range tests {
		got, _ := Heuristic(tt.text)
		if got != tt.want {
			t.Errorf("Heuristic(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestEvaluate_StructuredVerdict(t *testing.T) {
	text := "Here is my assessment:\n```json\n" +
		`{"status":"misinformation","summary":"No such attack occurred.",` +
		`"sources":["Reuters (2025-09-01)"],"confidence":"HIGH","confidence_pct":85}` +
		"\n```"

	res := Evaluate(text)
	if res.Status != model.StatusFalse {
		t.Errorf("status = %s, want false", res.Status)
	}
	if res.Verdict == nil {
		t.Fatal("expected parsed verdict")
	}
	if res.Verdict.Status != model.VerdictMisinformation {
		t.Errorf("verdict status = %s", res.Verdict.Status)
	}
	if res.Reason != "No such attack occurred." {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestEvaluate_StatusMapping(t *testing.T) {
	tests := []struct {
		status model.VerdictStatus
		want   model.FactStatus
	}{
		{model.VerdictConfirmed, model.StatusVerified},
		{model.VerdictPartiallyConfirmed, model.StatusVerified},
		{model.VerdictMisinformation, model.StatusFalse},
		{model.VerdictUncertain, model.StatusUncertain},
	}

	for _, tt := range tests {
		res := Evaluate(`{"status":"` + string(tt.status) + `","summary":"s"}`)
		if res.Status != tt.want {
			t.Errorf("status %s mapped to %s, want %s", tt.status, res.Status, tt.want)
		}
	}
}

func TestEvaluate_MalformedJSONFallsBack(t *testing.T) {
	// Unbalanced object: the heuristics apply, not the structured arm.
	res := Evaluate(`{"status":"confirmed", "summary": ... this is a rumor`)
	if res.Verdict != nil {
		t.Error("expected no parsed verdict for malformed JSON")
	}
	if res.Status != model.StatusUncertain {
		t.Errorf("status = %s, want uncertain via heuristics", res.Status)
	}
}

func TestEvaluate_NonVerdictJSONFallsBack(t *testing.T) {
	// Valid JSON but not the validator schema (no recognizable status).
	res := Evaluate(`{"headline":"Fed holds rates","source":"Reuters"}`)
	if res.Verdict != nil {
		t.Error("expected no verdict for non-verdict JSON")
	}
	if res.Status != model.StatusVerified {
		t.Errorf("status = %s, want verified via heuristics", res.Status)
	}
}

func TestParseVerdict_BracesInsideStrings(t *testing.T) {
	text := `note {curly} ahead {"status":"confirmed","summary":"brace } inside"}`
	v, ok := ParseVerdict(text)
	if ok {
		// The first balanced block is "{curly}", which is not valid JSON,
		// so parsing must fail rather than misattribute a verdict.
		t.Fatalf("expected parse failure, got %+v", v)
	}
}

func TestChecker_Check(t *testing.T) {
	r := &fakeResearcher{output: `{"status":"confirmed","summary":"Confirmed by two wires."}`}
	c := New(r, time.Second)

	res, err := c.Check(context.Background(), "Fed rate decision")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Status != model.StatusVerified {
		t.Errorf("status = %s, want verified", res.Status)
	}
	if r.input == "" || r.input == "Fed rate decision" {
		t.Errorf("expected wrapped instruction, got %q", r.input)
	}
}

func TestChecker_ResearchErrorPropagates(t *testing.T) {
	r := &fakeResearcher{err: errors.New("quota exceeded")}
	c := New(r, 0)

	_, err := c.Check(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, r.err) {
		t.Errorf("expected wrapped research error, got %v", err)
	}
}
