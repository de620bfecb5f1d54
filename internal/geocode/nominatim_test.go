package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeoServer(body string, status int, calls *atomic.Int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestResolveShortCircuitsOnIncompleteInput(t *testing.T) {
	var calls atomic.Int64
	srv := newGeoServer(`[]`, http.StatusOK, &calls)
	defer srv.Close()
	r := NewResolver(Config{BaseURL: srv.URL}, nil)

	tests := []struct {
		name                       string
		village, tehsil, district string
	}{
		{name: "missing village", tehsil: "Kotdwar", district: "Pauri"},
		{name: "missing tehsil", village: "Anandpur", district: "Pauri"},
		{name: "missing district", village: "Anandpur", tehsil: "Kotdwar"},
		{name: "whitespace only", village: "  ", tehsil: "Kotdwar", district: "Pauri"},
		{name: "all missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(context.Background(), tt.village, tt.tehsil, tt.district)
			assert.False(t, res.Resolved)
			assert.Equal(t, ReasonIncompleteInput, res.Reason)
			assert.Nil(t, res.Location.Lat)
			assert.Nil(t, res.Location.Lon)
		})
	}
	assert.Equal(t, int64(0), calls.Load(), "incomplete input must not hit the network")
}

func TestResolveTakesFirstHit(t *testing.T) {
	var calls atomic.Int64
	srv := newGeoServer(
		`[{"lat": "29.7462", "lon": "78.5226"}, {"lat": "12.0", "lon": "77.0"}]`,
		http.StatusOK, &calls)
	defer srv.Close()

	res := NewResolver(Config{BaseURL: srv.URL}, nil).
		Resolve(context.Background(), "Anandpur", "Kotdwar", "Pauri")

	require.True(t, res.Resolved)
	require.NotNil(t, res.Location.Lat)
	require.NotNil(t, res.Location.Lon)
	assert.InDelta(t, 29.7462, *res.Location.Lat, 1e-9)
	assert.InDelta(t, 78.5226, *res.Location.Lon, 1e-9)
	assert.Equal(t, int64(1), calls.Load())
}

func TestResolveDegradations(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   Reason
	}{
		{name: "no results", body: `[]`, status: http.StatusOK, want: ReasonNoResults},
		{name: "server error", body: `oops`, status: http.StatusInternalServerError, want: ReasonLookupFailed},
		{name: "malformed body", body: `{not json`, status: http.StatusOK, want: ReasonLookupFailed},
		{name: "unparsable coordinates", body: `[{"lat": "abc", "lon": "78.5"}]`, status: http.StatusOK, want: ReasonLookupFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int64
			srv := newGeoServer(tt.body, tt.status, &calls)
			defer srv.Close()

			res := NewResolver(Config{BaseURL: srv.URL}, nil).
				Resolve(context.Background(), "Anandpur", "Kotdwar", "Pauri")

			assert.False(t, res.Resolved)
			assert.Equal(t, tt.want, res.Reason)
			assert.Nil(t, res.Location.Lat)
		})
	}
}

func TestResolveSurvivesUnreachableEndpoint(t *testing.T) {
	r := NewResolver(Config{BaseURL: "http://127.0.0.1:1"}, nil)
	res := r.Resolve(context.Background(), "Anandpur", "Kotdwar", "Pauri")
	assert.False(t, res.Resolved)
	assert.Equal(t, ReasonLookupFailed, res.Reason)
}
