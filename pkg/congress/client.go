// Package congress wraps the legislative-session data API.
package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.congress.gov/v3"

// Session is one of a Congress's two annual sessions.
type Session struct {
	Number    int    `json:"session"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// SessionPayload is the API's description of a single Congress.
type SessionPayload struct {
	Congress  int       `json:"congress"`
	StartYear int       `json:"startYear"`
	EndYear   int       `json:"endYear"`
	Sessions  []Session `json:"sessions"`
}

// SessionEnd returns the parsed end date for the given session number,
// or false when the session entry or its end date is missing.
func (p *SessionPayload) SessionEnd(session int) (time.Time, bool) {
	for _, s := range p.Sessions {
		if s.Number != session || s.EndDate == "" {
			continue
		}
		end, err := time.Parse("2006-01-02", s.EndDate)
		if err != nil {
			return time.Time{}, false
		}
		return end, true
	}
	return time.Time{}, false
}

// Client fetches session data for a Congress.
type Client interface {
	GetCongress(ctx context.Context, congress int) (*SessionPayload, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithLimiter sets the request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) { c.limiter = l }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a legislative-data API client. Requests are a
// single attempt; callers own any fallback behavior.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetCongress fetches the session payload for a Congress, trying the
// plural path form first and falling back to the singular form on 404.
func (c *httpClient) GetCongress(ctx context.Context, congress int) (*SessionPayload, error) {
	if c.apiKey == "" {
		return nil, eris.New("congress: missing API key")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "congress: rate limit")
	}

	payload, err := c.get(ctx, fmt.Sprintf("/congresses/%d", congress))
	if err == nil {
		return payload, nil
	}

	payload, singularErr := c.get(ctx, fmt.Sprintf("/congress/%d", congress))
	if singularErr != nil {
		return nil, eris.Wrapf(err, "congress: both path forms failed (singular: %v)", singularErr)
	}
	return payload, nil
}

func (c *httpClient) get(ctx context.Context, path string) (*SessionPayload, error) {
	params := url.Values{"api_key": {c.apiKey}, "format": {"json"}}
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "congress: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "congress: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "congress: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("congress: unexpected status %d for %s", resp.StatusCode, path)
	}

	// The API nests the payload under "congress" on some deployments
	// and returns it bare on others.
	var wrapped struct {
		Congress json.RawMessage `json:"congress"`
	}
	raw := body
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Congress) > 0 && wrapped.Congress[0] == '{' {
		raw = wrapped.Congress
	}

	var payload SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, eris.Wrap(err, "congress: parse response")
	}
	return &payload, nil
}
