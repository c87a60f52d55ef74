package factcheck

import (
	"encoding/json"
	"strings"

	"github.com/finbrief/finbrief/internal/model"
)

// ParseVerdict attempts to decode validator output as the fixed-schema JSON
// verdict. Models often wrap JSON in markdown fences or prose, so the first
// balanced top-level object in the text is extracted before decoding.
//
// The boolean reports whether the text was parseable; callers must not treat
// a false return as a verdict of any kind.
func ParseVerdict(text string) (*model.Verdict, bool) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, false
	}

	var v model.Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}

	// A JSON object without a recognizable status is not a verdict
	// (e.g. the web agent's news payload also arrives as JSON).
	switch v.Status {
	case model.VerdictConfirmed, model.VerdictMisinformation,
		model.VerdictUncertain, model.VerdictPartiallyConfirmed:
		return &v, true
	default:
		return nil, false
	}
}

// extractJSONObject returns the first balanced {...} block in the text.
// Braces inside JSON strings are honored so prose like "{status}" before the
// real object cannot truncate it.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
