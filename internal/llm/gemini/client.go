package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanadhikar/claimsd/internal/llm"
)

// generateContent wire types for the v1beta API.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Translate implements llm.Translator. An empty model response degrades to
// an empty string; only transport and decode failures are errors.
func (c *Client) Translate(ctx context.Context, text string) (llm.TranslationResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.translate.start", "req_id", rid, "model", c.cfg.Model, "text_len", len(text))

	out, err := c.generate(ctx, llm.BuildTranslationPrompt(text))
	if err != nil {
		c.logger.Error("llm.translate.error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.TranslationResult{}, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		c.logger.Warn("llm.translate.empty_response", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.TranslationResult{Degradation: llm.DegradationEmptyResponse}, nil
	}

	c.logger.Info("llm.translate.ok", "req_id", rid, "out_len", len(out),
		"elapsed_ms", time.Since(start).Milliseconds())
	return llm.TranslationResult{Text: out}, nil
}

// ExtractFields implements llm.FieldExtractor. Markdown fences are stripped
// before parsing; unparsable output degrades to a raw-text result, and a
// schema mismatch keeps whatever fields unmarshaled. Neither case is an
// error: the pipeline proceeds with the degraded record.
func (c *Client) ExtractFields(ctx context.Context, englishText string) (llm.ExtractionResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start", "req_id", rid, "model", c.cfg.Model, "text_len", len(englishText))

	raw, err := c.generate(ctx, llm.BuildExtractionPrompt(englishText))
	if err != nil {
		c.logger.Error("llm.extract.error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.ExtractionResult{}, err
	}

	cleaned := llm.ExtractJSON(raw)
	if cleaned == "" {
		// no JSON object at all; keep the de-fenced text as the sentinel record
		c.logger.Warn("llm.extract.unparsable", "req_id", rid, "raw_len", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.ExtractionResult{
			Raw:         llm.StripCodeFences(raw),
			Degradation: llm.DegradationUnparsableJSON,
		}, nil
	}

	normalized, _, err := llm.NormalizeClaimJSON([]byte(cleaned), c.logger)
	if err != nil {
		c.logger.Warn("llm.extract.unparsable", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.ExtractionResult{
			Raw:         llm.StripCodeFences(raw),
			Degradation: llm.DegradationUnparsableJSON,
		}, nil
	}

	degradation := llm.DegradationNone
	if err := llm.ValidateJSONAgainstSchema(llm.BuildClaimJSONSchema(), normalized); err != nil {
		// fields that did unmarshal are still usable downstream
		c.logger.Warn("llm.extract.schema_mismatch", "req_id", rid, "error", err)
		degradation = llm.DegradationSchemaMismatch
	}

	var fields llm.ClaimFields
	if err := json.Unmarshal(normalized, &fields); err != nil {
		c.logger.Warn("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return llm.ExtractionResult{
			Raw:         llm.StripCodeFences(raw),
			Degradation: llm.DegradationUnparsableJSON,
		}, nil
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"community", fields.CommunityName,
		"claimant", fields.ClaimPerson,
		"status", fields.DocumentStatus,
		"degradation", string(degradation),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.ExtractionResult{Fields: fields, Raw: cleaned, Degradation: degradation}, nil
}

// generate performs one generateContent call and returns the first
// candidate's concatenated text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature: c.cfg.Temperature,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("gemini response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw))
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
