package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanadhikar/claimsd/internal/llm"
)

// newModelServer fakes the generateContent endpoint, answering every call
// with the given candidate text.
func newModelServer(t *testing.T, candidateText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.NotEmpty(t, r.URL.Query().Get("key"))

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": candidateText}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClient(srvURL string) *Client {
	return NewClient(Config{APIKey: "test-key", BaseURL: srvURL}, nil)
}

func TestTranslate(t *testing.T) {
	t.Run("returns model text", func(t *testing.T) {
		srv := newModelServer(t, "The claimant Ramesh Kumar is a farmer.")
		defer srv.Close()

		res, err := newTestClient(srv.URL).Translate(context.Background(), "दावेदार रमेश कुमार किसान है।")
		require.NoError(t, err)
		assert.Equal(t, "The claimant Ramesh Kumar is a farmer.", res.Text)
		assert.Equal(t, llm.DegradationNone, res.Degradation)
	})

	t.Run("empty response degrades, no error", func(t *testing.T) {
		srv := newModelServer(t, "")
		defer srv.Close()

		res, err := newTestClient(srv.URL).Translate(context.Background(), "text")
		require.NoError(t, err)
		assert.Empty(t, res.Text)
		assert.Equal(t, llm.DegradationEmptyResponse, res.Degradation)
	})

	t.Run("http failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Translate(context.Background(), "text")
		assert.Error(t, err)
	})
}

func TestExtractFields(t *testing.T) {
	const claimJSON = `{
		"Community_Name": "Gond",
		"Community_ID": null,
		"Gender": "Male",
		"village_name": "Anandpur",
		"tehsil_name": "Kotdwar",
		"district_name": "Pauri",
		"Claim_Person": "Ramesh Kumar",
		"Occupation": "farmer",
		"document_status": "approved"
	}`

	t.Run("plain JSON response", func(t *testing.T) {
		srv := newModelServer(t, claimJSON)
		defer srv.Close()

		res, err := newTestClient(srv.URL).ExtractFields(context.Background(), "claim text")
		require.NoError(t, err)
		assert.Equal(t, llm.DegradationNone, res.Degradation)
		assert.Equal(t, "Gond", res.Fields.CommunityName)
		assert.Equal(t, "Ramesh Kumar", res.Fields.ClaimPerson)
		assert.Equal(t, "approved", res.Fields.DocumentStatus)
	})

	t.Run("fenced response with json tag", func(t *testing.T) {
		srv := newModelServer(t, "```json\n"+claimJSON+"\n```")
		defer srv.Close()

		res, err := newTestClient(srv.URL).ExtractFields(context.Background(), "claim text")
		require.NoError(t, err)
		assert.Equal(t, llm.DegradationNone, res.Degradation)
		assert.Equal(t, "Anandpur", res.Fields.VillageName)
	})

	t.Run("fenced response without tag", func(t *testing.T) {
		srv := newModelServer(t, "```\n"+claimJSON+"\n```")
		defer srv.Close()

		res, err := newTestClient(srv.URL).ExtractFields(context.Background(), "claim text")
		require.NoError(t, err)
		assert.Equal(t, "Pauri", res.Fields.DistrictName)
	})

	t.Run("non-JSON response degrades to raw text", func(t *testing.T) {
		srv := newModelServer(t, "```\nI could not find any claim fields in this document.\n```")
		defer srv.Close()

		res, err := newTestClient(srv.URL).ExtractFields(context.Background(), "claim text")
		require.NoError(t, err)
		assert.Equal(t, llm.DegradationUnparsableJSON, res.Degradation)
		assert.Equal(t, "I could not find any claim fields in this document.", res.Raw)
		assert.Empty(t, res.Fields.ClaimPerson)
	})

	t.Run("schema mismatch keeps parsed fields", func(t *testing.T) {
		// missing required Claim_Person
		srv := newModelServer(t, `{"Community_Name": "Gond"}`)
		defer srv.Close()

		res, err := newTestClient(srv.URL).ExtractFields(context.Background(), "claim text")
		require.NoError(t, err)
		assert.Equal(t, llm.DegradationSchemaMismatch, res.Degradation)
		assert.Equal(t, "Gond", res.Fields.CommunityName)
	})
}
