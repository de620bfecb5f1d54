package llm

import "strings"

// BuildTranslationPrompt wraps document text in the fixed translation
// instruction. The model is asked for plain text, no commentary.
func BuildTranslationPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Translate the following text into English. ")
	b.WriteString("Return only the translation, no preamble or notes.\n\n")
	b.WriteString(text)
	return b.String()
}

// BuildExtractionPrompt asks for a single JSON object with the nine claim
// fields. The template mirrors the intake form's field names exactly.
func BuildExtractionPrompt(englishText string) string {
	var b strings.Builder
	b.WriteString("Extract the following info from the land-claim document text ")
	b.WriteString("and return a single JSON dictionary:\n\n")
	b.WriteString(`{
  "Community_Name": "<community>",
  "Community_ID": "<id or null>",
  "Gender": "<Male/Female/Other>",
  "village_name": "<village>",
  "tehsil_name": "<tehsil>",
  "district_name": "<district>",
  "Claim_Person": "<name>",
  "Occupation": "<occupation>",
  "document_status": "<in_process/approved/rejected/delayed>"
}`)
	b.WriteString("\n\nReturn ONLY the JSON object. Text:\n\n")
	b.WriteString(englishText)
	return b.String()
}

// BuildClaimJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We use it locally to validate the model's output before
// trusting the fields.
func BuildClaimJSONSchema() map[string]any {
	props := map[string]any{
		"Community_Name":  stringProp(),
		"Community_ID":    map[string]any{"type": []string{"string", "null"}},
		"Gender":          stringProp(),
		"village_name":    stringProp(),
		"tehsil_name":     stringProp(),
		"district_name":   stringProp(),
		"Claim_Person":    stringProp(),
		"Occupation":      stringProp(),
		"document_status": stringProp(),
	}
	// Only the fields downstream joins depend on are required; the rest may
	// legitimately be absent on a damaged or partial form.
	required := []string{"Community_Name", "Claim_Person"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}
