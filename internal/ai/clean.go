package ai

import (
	"regexp"
	"strings"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripReasoning removes every <think>...</think> block and trims the result.
// A trailing block cut off by the token cap and a leading block whose opening
// tag the model omitted are removed as well.
func StripReasoning(text string) string {
	cleaned := reasoningBlock.ReplaceAllString(text, "")
	if i := strings.Index(cleaned, thinkOpen); i >= 0 {
		cleaned = cleaned[:i]
	}
	if i := strings.LastIndex(cleaned, thinkClose); i >= 0 {
		cleaned = cleaned[i+len(thinkClose):]
	}
	return strings.TrimSpace(cleaned)
}
