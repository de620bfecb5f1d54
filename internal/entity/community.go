package entity

// Community is the durable aggregate grouping claims by community name.
// Latitude/longitude are a snapshot of the first claim's resolved location
// and are never recomputed. Counters only ever increment.
type Community struct {
	ID             int64   `json:"Community_ID"`
	Name           string  `json:"Community_Name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	TotalClaims    int64   `json:"total_claims"`
	TotalInProcess int64   `json:"total_in_process"`
	TotalApproved  int64   `json:"total_approved"`
	TotalRejected  int64   `json:"total_rejected"`
	TotalDelayed   int64   `json:"total_delayed"`
}

// Summary is the cross-community roll-up for the dashboard. Totals are
// summed in the caller, not in storage.
type Summary struct {
	TotalClaims    int64 `json:"total_claims"`
	TotalApproved  int64 `json:"total_approved"`
	TotalRejected  int64 `json:"total_rejected"`
	TotalInProcess int64 `json:"total_in_process"`
	TotalDelayed   int64 `json:"total_delayed"`
}

// MapPoint is one geolocated claim row for map rendering.
type MapPoint struct {
	ClaimPerson    string  `json:"Claim_Person"`
	VillageName    string  `json:"village_name"`
	TehsilName     string  `json:"tehsil_name"`
	DistrictName   string  `json:"district_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	CommunityID    int64   `json:"Community_ID"`
	DocumentStatus string  `json:"document_status"`
}

// SearchRow is one claim row in the per-community search listing.
type SearchRow struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DocumentStatus string `json:"document_status"`
	CommunityID    int64  `json:"Community_ID"`
}
