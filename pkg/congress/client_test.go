package congress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadBody = `{
	"congress": {
		"congress": 119,
		"startYear": 2025,
		"endYear": 2026,
		"sessions": [
			{"session": 1, "startDate": "2025-01-03", "endDate": "2025-12-18"},
			{"session": 2, "startDate": "2026-01-05", "endDate": ""}
		]
	}
}`

func TestGetCongress_PluralPath(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		w.Write([]byte(payloadBody)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	payload, err := c.GetCongress(context.Background(), 119)
	require.NoError(t, err)

	assert.Equal(t, "/congresses/119", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, 119, payload.Congress)
	assert.Equal(t, 2025, payload.StartYear)
	require.Len(t, payload.Sessions, 2)
	assert.Equal(t, "2025-12-18", payload.Sessions[0].EndDate)
}

func TestGetCongress_SingularFallback(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/congresses/119" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(payloadBody)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	payload, err := c.GetCongress(context.Background(), 119)
	require.NoError(t, err)

	assert.Equal(t, []string{"/congresses/119", "/congress/119"}, paths)
	assert.Equal(t, 119, payload.Congress)
}

func TestGetCongress_BothPathsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.GetCongress(context.Background(), 119)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both path forms failed")
}

func TestGetCongress_MissingAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.GetCongress(context.Background(), 119)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing API key")
}

func TestGetCongress_BarePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"congress": 118, "startYear": 2023, "endYear": 2024, "sessions": []}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	payload, err := c.GetCongress(context.Background(), 118)
	require.NoError(t, err)
	assert.Equal(t, 118, payload.Congress)
	assert.Equal(t, 2023, payload.StartYear)
}

func TestGetCongress_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.GetCongress(context.Background(), 119)
	require.Error(t, err)
}

func TestSessionEnd(t *testing.T) {
	p := &SessionPayload{Sessions: []Session{
		{Number: 1, EndDate: "2025-12-18"},
		{Number: 2, EndDate: ""},
	}}

	end, ok := p.SessionEnd(1)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.December, 18, 0, 0, 0, 0, time.UTC), end)

	_, ok = p.SessionEnd(2)
	assert.False(t, ok)

	_, ok = p.SessionEnd(3)
	assert.False(t, ok)
}
