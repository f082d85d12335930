package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAuthURL     = "https://api.accounts.surgicalsafety.com/oauth/v1/token"
	defaultExportURL   = "https://api.blackbox.surgicalsafety.com/api/explorer/v2/export"
	defaultHTTPTimeout = 30 * time.Second
	defaultTokenTTL    = 30 * time.Minute
)

// ErrAuthentication marks credential and token failures.
var ErrAuthentication = errors.New("explorer authentication failed")

// Case is one surgical case as returned by the Explorer export endpoint.
// A case spans every media file recorded for a single procedure instance.
type Case struct {
	Procedures           []string    `json:"procedures"`
	Specialties          []string    `json:"specialties"`
	Room                 string      `json:"room"`
	CaseDate             string      `json:"caseDate"`
	UploadDate           string      `json:"uploadDate"`
	VideoDurationSeconds float64     `json:"videoDurationSeconds"`
	Users                []string    `json:"users"`
	MediaFiles           []MediaFile `json:"mediaFiles"`
}

// MediaFile is one camera feed's recording within a case.
type MediaFile struct {
	S3Location string `json:"s3Location"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// Client calls the Explorer API. It is safe for concurrent use; the cached
// bearer token is guarded by a mutex and refreshed when it approaches the
// TTL.
type Client struct {
	clientID     string
	clientSecret string
	authURL      string
	exportURL    string
	tokenTTL     time.Duration
	httpClient   *http.Client
	now          func() time.Time

	tokenMu      sync.Mutex
	token        string
	tokenFetched time.Time
}

// Option customizes the Explorer client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAuthURL overrides the token endpoint (useful for tests/mocks).
func WithAuthURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.authURL = base
		}
	}
}

// WithExportURL overrides the export endpoint (useful for tests/mocks).
func WithExportURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.exportURL = base
		}
	}
}

// WithTokenTTL overrides how long a fetched bearer token is reused.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs an Explorer API client.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	client := &Client{
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		authURL:      defaultAuthURL,
		exportURL:    defaultExportURL,
		tokenTTL:     defaultTokenTTL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Authenticate fetches a fresh bearer token and caches it. Most callers do
// not need to call this directly; Export authenticates on demand.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("%w: client credentials not configured", ErrAuthentication)
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("explorer auth: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("explorer auth: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("explorer auth: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: http %d: %s", ErrAuthentication, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("explorer auth: decode response: %w", err)
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuthentication)
	}

	c.tokenMu.Lock()
	c.token = parsed.AccessToken
	c.tokenFetched = c.now()
	c.tokenMu.Unlock()
	return parsed.AccessToken, nil
}

func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	token := c.token
	fresh := token != "" && c.now().Sub(c.tokenFetched) < c.tokenTTL
	c.tokenMu.Unlock()
	if fresh {
		return token, nil
	}
	return c.Authenticate(ctx)
}

func (c *Client) invalidateToken() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenMu.Unlock()
}

type exportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Export fetches every case whose upload date falls inside the inclusive
// date range (YYYY-MM-DD strings). A 401 invalidates the cached token and
// retries once with a fresh one.
func (c *Client) Export(ctx context.Context, startDate, endDate string) ([]Case, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	cases, status, err := c.export(ctx, token, startDate, endDate)
	if status == http.StatusUnauthorized {
		c.invalidateToken()
		token, err = c.Authenticate(ctx)
		if err != nil {
			return nil, err
		}
		cases, _, err = c.export(ctx, token, startDate, endDate)
	}
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *Client) export(ctx context.Context, token, startDate, endDate string) ([]Case, int, error) {
	payload, err := json.Marshal(exportRequest{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, 0, fmt.Errorf("explorer export: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.exportURL, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("explorer export: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("explorer export: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("explorer export: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, fmt.Errorf("explorer export: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cases []Case
	if err := json.Unmarshal(body, &cases); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("explorer export: decode response: %w", err)
	}
	return cases, resp.StatusCode, nil
}
