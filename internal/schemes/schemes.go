// Package schemes maps claimant occupations to government benefit schemes.
// The lookup table is static data compiled into the binary.
package schemes

import (
	_ "embed"
	"encoding/json"
	"strings"
)

//go:embed scheme.json
var schemeJSON []byte

// Lookup is the occupation -> schemes table.
type Lookup struct {
	byOccupation map[string][]string
}

// Load parses the embedded scheme table. The data ships with the binary, so
// a parse failure is a build defect, not a runtime condition.
func Load() (*Lookup, error) {
	var raw map[string][]string
	if err := json.Unmarshal(schemeJSON, &raw); err != nil {
		return nil, err
	}
	byOcc := make(map[string][]string, len(raw))
	for occ, list := range raw {
		byOcc[normalize(occ)] = list
	}
	return &Lookup{byOccupation: byOcc}, nil
}

// SchemesFor returns the schemes for one occupation; unknown occupations
// get an empty list, never a miss.
func (l *Lookup) SchemesFor(occupation string) []string {
	if list, ok := l.byOccupation[normalize(occupation)]; ok {
		return list
	}
	return []string{}
}

// Match joins a set of occupations against the table, keyed by the
// occupation string as given.
func (l *Lookup) Match(occupations []string) map[string][]string {
	out := make(map[string][]string, len(occupations))
	for _, occ := range occupations {
		if occ == "" {
			continue
		}
		out[occ] = l.SchemesFor(occ)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
