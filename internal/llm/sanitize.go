package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// NormalizeClaimJSON cleans a parsed claim object before schema validation:
//   - drops null values and unknown keys (additionalProperties friendliness)
//   - coerces numbers to strings for Community_ID (models emit both)
//   - trims whitespace, lowercases document_status
//
// Returns the cleaned JSON plus the list of keys that were touched.
func NormalizeClaimJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 4)

	allowed := map[string]struct{}{
		"Community_Name": {}, "Community_ID": {}, "Gender": {},
		"village_name": {}, "tehsil_name": {}, "district_name": {},
		"Claim_Person": {}, "Occupation": {}, "document_status": {},
	}

	for k, v := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case float64:
			m[k] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
			dropped = append(dropped, k+"(number)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	if v, ok := m["document_status"].(string); ok {
		m["document_status"] = strings.ToLower(strings.ReplaceAll(v, " ", "_"))
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.sanitize", "touched", dropped)
	}
	return out, dropped, nil
}
