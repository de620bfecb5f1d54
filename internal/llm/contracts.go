package llm

import "context"

// ClaimFields is the normalized nine-field shape we want from the model.
// JSON names follow the claim form template verbatim so the model's output
// unmarshals directly.
type ClaimFields struct {
	CommunityName  string `json:"Community_Name"`
	CommunityID    string `json:"Community_ID,omitempty"` // model may echo an id; opaque, unused for joins
	Gender         string `json:"Gender"`
	VillageName    string `json:"village_name"`
	TehsilName     string `json:"tehsil_name"`
	DistrictName   string `json:"district_name"`
	ClaimPerson    string `json:"Claim_Person"`
	Occupation     string `json:"Occupation"`
	DocumentStatus string `json:"document_status"`
}

// Degradation tags the reason an adapter returned a fallback value instead
// of a full answer, so callers can tell "no data" from "service failure".
type Degradation string

const (
	DegradationNone           Degradation = ""
	DegradationEmptyResponse  Degradation = "empty_response"
	DegradationUnparsableJSON Degradation = "unparsable_json"
	DegradationSchemaMismatch Degradation = "schema_mismatch"
)

// TranslationResult carries the translated text or an empty string plus the
// reason it is empty.
type TranslationResult struct {
	Text        string
	Degradation Degradation
}

// ExtractionResult carries the parsed fields, the raw model output, and a
// degradation tag. On DegradationUnparsableJSON the Fields are zero and Raw
// holds the cleaned response; on DegradationSchemaMismatch the Fields are
// whatever unmarshaled. Neither is an error: the pipeline proceeds with the
// degraded record.
type ExtractionResult struct {
	Fields      ClaimFields
	Raw         string
	Degradation Degradation
}

// Translator turns arbitrary-language document text into English.
type Translator interface {
	Translate(ctx context.Context, text string) (TranslationResult, error)
}

// FieldExtractor is the interface the pipeline depends on for structured
// extraction.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, englishText string) (ExtractionResult, error)
}
