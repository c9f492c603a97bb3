// Package mailer sends templated transactional email through a
// Resend-compatible HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/civicgive/compliance-cli/internal/resilience"
)

const defaultBaseURL = "https://api.resend.com"

// Message is a templated outbound email. Data feeds the template;
// callers never pre-render bodies.
type Message struct {
	To        string
	Template  string
	FirstName string
	Data      map[string]any
}

// Sender dispatches a single message and returns the provider's id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
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

type httpClient struct {
	apiKey  string
	baseURL string
	from    string
	http    *http.Client
}

// NewClient creates a mail API client sending from the given address.
func NewClient(apiKey, from string, opts ...Option) Sender {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		from:    from,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// sendEmailRequest is the provider's send-email request body.
type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// Send renders the message's template and posts it to the API.
func (c *httpClient) Send(ctx context.Context, msg Message) (string, error) {
	subject, text, err := render(msg)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(sendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return "", eris.Wrap(err, "mailer: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "mailer: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "mailer: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "mailer: read response")
	}
	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("mailer: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return "", statusErr
	}

	var result sendEmailResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "mailer: parse response")
	}
	return result.ID, nil
}
