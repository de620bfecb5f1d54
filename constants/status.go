package constants

import "strings"

// DocumentStatus is the canonical processing status for a claim document.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusInProcess DocumentStatus = "in_process"
	StatusApproved  DocumentStatus = "approved"
	StatusRejected  DocumentStatus = "rejected"
	StatusDelayed   DocumentStatus = "delayed"
)

var allStatuses = []DocumentStatus{
	StatusInProcess,
	StatusApproved,
	StatusRejected,
	StatusDelayed,
}

func AsStringSlice() []string {
	result := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		result[i] = string(s)
	}
	return result
}

// IsValid reports whether the input is one of the four recognized statuses.
func IsValid(input string) bool {
	_, ok := Canonicalize(input)
	return ok
}

// Canonicalize maps model output to a canonical status. Unrecognized input
// returns ("", false); callers keep the raw string but must not bump a
// status-specific counter for it.
func Canonicalize(input string) (DocumentStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	// synonyms the model produces despite the enum in the prompt
	synonyms := map[string]DocumentStatus{
		"pending":    StatusInProcess,
		"in process": StatusInProcess,
		"in-process": StatusInProcess,
		"processing": StatusInProcess,
		"accepted":   StatusApproved,
		"granted":    StatusApproved,
		"denied":     StatusRejected,
		"declined":   StatusRejected,
		"on hold":    StatusDelayed,
		"postponed":  StatusDelayed,
	}
	if s, ok := synonyms[normalized]; ok {
		return s, true
	}

	for _, s := range allStatuses {
		if normalized == string(s) {
			return s, true
		}
	}
	return "", false
}
