package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	leadingInstBlock = regexp.MustCompile(`(?is)^\[INST\].*?\[/INST\]\s*`)
	leadingInstOpen  = regexp.MustCompile(`(?i)^\[INST\]\s*`)
	leadingInstClose = regexp.MustCompile(`(?i)^\s*\[/INST\]\s*`)
)

// inferenceResult is one element of the inference API's success array.
type inferenceResult struct {
	GeneratedText *string `json:"generated_text"`
}

// extractText parses a success body and returns the cleaned text of its first result.
func extractText(body []byte) (string, *Error) {
	var results []json.RawMessage
	if err := json.Unmarshal(body, &results); err != nil {
		return "", malformedResponse("expected a JSON array")
	}
	if len(results) == 0 {
		return "", malformedResponse("empty result array")
	}

	var first inferenceResult
	if err := json.Unmarshal(results[0], &first); err != nil {
		return "", malformedResponse("first result has no string generated_text")
	}
	if first.GeneratedText == nil {
		return "", malformedResponse("missing generated_text")
	}
	return CleanText(*first.GeneratedText), nil
}

// CleanText trims the text and removes instruction markers echoed at its start.
// When the model echoed a whole "[INST] ... [/INST]" block, the block goes too.
func CleanText(text string) string {
	s := strings.TrimSpace(text)
	if leadingInstBlock.MatchString(s) {
		s = leadingInstBlock.ReplaceAllString(s, "")
	} else {
		s = leadingInstOpen.ReplaceAllString(s, "")
	}
	s = leadingInstClose.ReplaceAllString(s, "")
	return s
}
