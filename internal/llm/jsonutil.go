package llm

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns for pulling JSON out of model responses.
var (
	// jsonBlockPattern matches JSON inside markdown code fences, with or
	// without a "json" language tag.
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// jsonObjectPattern matches any JSON object (greedy fallback).
	jsonObjectPattern = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	// fenceMarkerPattern matches stray fence markers left over when the model
	// fenced non-JSON content.
	fenceMarkerPattern = regexp.MustCompile("```(?:json)?")
)

// ExtractJSON pulls a JSON object out of a model response: fenced block
// first, then any raw object. Returns "" when no object is present.
func ExtractJSON(content string) string {
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	if match := jsonObjectPattern.FindString(content); match != "" {
		return strings.TrimSpace(match)
	}
	return ""
}

// StripCodeFences removes fence markers without requiring a JSON object
// inside. Used for the degraded raw_output path so the sentinel record does
// not carry markdown noise.
func StripCodeFences(content string) string {
	return strings.TrimSpace(fenceMarkerPattern.ReplaceAllString(content, ""))
}
