// Package api implements the HTTP client for the research agent backend.
// All requests carry the persisted session cookie and a correlation ID;
// a 401 from any endpoint surfaces as ErrAuthRequired.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader carries the per-request correlation ID the backend
// logs under.
const requestIDHeader = "X-Request-ID"

// Client talks to the research agent backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client (tests, custom jars).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the backend at baseURL. A cookie jar is
// installed so the session cookie set at login flows to later calls.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("api: creating cookie jar: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Jar exposes the cookie jar for session persistence.
func (c *Client) Jar() http.CookieJar { return c.http.Jar }

// LoginURL returns the browser URL that initiates the OAuth flow for
// the given provider. The flow itself is redirect-based; the client
// only hands the URL to the user.
func (c *Client) LoginURL(provider string) string {
	return c.baseURL + "/auth/login/" + url.PathEscape(provider)
}

// CurrentUser fetches the authenticated session user.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/auth/user", nil, &u)
	return u, err
}

// Logout terminates the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Research runs person research.
func (c *Client) Research(ctx context.Context, req ResearchRequest) (ResearchResponse, error) {
	var resp ResearchResponse
	err := c.do(ctx, http.MethodPost, "/api/research", req, &resp)
	return resp, err
}

// GenerateNote generates an outreach note from a profile.
func (c *Client) GenerateNote(ctx context.Context, req NoteRequest) (NoteResponse, error) {
	var resp NoteResponse
	err := c.do(ctx, http.MethodPost, "/api/generate-note", req, &resp)
	return resp, err
}

// DeepResearch runs topic research.
func (c *Client) DeepResearch(ctx context.Context, req DeepResearchRequest) (DeepResearchResponse, error) {
	var resp DeepResearchResponse
	err := c.do(ctx, http.MethodPost, "/api/deep-research", req, &resp)
	return resp, err
}

// CompanyResearch runs company analysis.
func (c *Client) CompanyResearch(ctx context.Context, req CompanyRequest) (CompanyResponse, error) {
	var resp CompanyResponse
	err := c.do(ctx, http.MethodPost, "/api/research/company", req, &resp)
	return resp, err
}

// Profiles lists historical results, newest first by default.
func (c *Client) Profiles(ctx context.Context, skip, limit int, sort string) (ProfilePage, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if sort != "" {
		q.Set("sort", sort)
	}
	var page ProfilePage
	err := c.do(ctx, http.MethodGet, "/api/profiles?"+q.Encode(), nil, &page)
	return page, err
}

// SearchProfiles runs a text search over the history.
func (c *Client) SearchProfiles(ctx context.Context, query string) ([]ProfileSummary, error) {
	q := url.Values{}
	q.Set("q", query)
	var page ProfilePage
	if err := c.do(ctx, http.MethodGet, "/api/profiles/search?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return page.Profiles, nil
}

// Profile fetches a single historical result.
func (c *Client) Profile(ctx context.Context, id string) (ProfileDetail, error) {
	var d ProfileDetail
	err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(id), nil, &d)
	return d, err
}

// DeleteProfile removes a historical result.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/profiles/"+url.PathEscape(id), nil, nil)
}

// SetSecret stores an encrypted secret on the backend.
func (c *Client) SetSecret(ctx context.Context, key, value string) (Status, error) {
	var st Status
	err := c.do(ctx, http.MethodPost, "/api/secrets/set", Secret{Key: key, Value: value}, &st)
	return st, err
}

// GetSecret retrieves a stored secret.
func (c *Client) GetSecret(ctx context.Context, key string) (Secret, error) {
	var s Secret
	err := c.do(ctx, http.MethodGet, "/api/secrets/get/"+url.PathEscape(key), nil, &s)
	return s, err
}

// do issues one request and decodes the response into out (if non-nil).
// 401 maps to ErrAuthRequired; other non-2xx statuses map to a
// RequestError with the backend's detail message normalized.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(data, &eb)
		return &RequestError{
			StatusCode: resp.StatusCode,
			Detail:     normalizeDetail(eb.Detail, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decoding %s %s response: %w", method, path, err)
	}
	return nil
}
