package entity

import "time"

// Location is a best-effort geocoded coordinate pair. Both fields are nil
// when the lookup was skipped or failed.
type Location struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Claim is one extracted land-rights document record. It is assembled per
// upload, snapshotted to disk, persisted once, and never mutated afterwards.
// The JSON field names match the snapshot/API contract inherited from the
// intake forms, mixed casing included.
type Claim struct {
	DocID          int64    `json:"DOC_ID_NUMBER"`
	CommunityName  string   `json:"Community_Name"`
	CommunityID    int64    `json:"Community_ID"`
	ClaimPerson    string   `json:"Claim_Person"`
	Gender         string   `json:"Gender"`
	Occupation     string   `json:"Occupation"`
	DocumentStatus string   `json:"document_status"`
	VillageName    string   `json:"village_name"`
	TehsilName     string   `json:"tehsil_name"`
	DistrictName   string   `json:"district_name"`
	Location       Location `json:"Location"`

	// RawOutput carries the unparsable model response when structured
	// extraction degraded; empty on the happy path.
	RawOutput string `json:"raw_output,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}
