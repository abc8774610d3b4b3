// Package api implements the client for the Scam Alert Pro REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scamalert/alertpro/internal/errs"
)

// Doer is the subset of the API surface the synchronizer depends on. It is
// implemented by *Client and stubbed in tests.
type Doer interface {
	FetchFeedPage(ctx context.Context, page int) (FeedPage, error)
	FetchNotificationsPage(ctx context.Context, page int) (NotificationPage, error)
	LikePost(ctx context.Context, id PostID) error
	UnlikePost(ctx context.Context, id PostID) error
	SavePost(ctx context.Context, id PostID) error
	UnsavePost(ctx context.Context, id PostID) error
	FollowUser(ctx context.Context, userID int64) error
	UnfollowUser(ctx context.Context, userID int64) error
}

// Ensure Client implements Doer at compile time.
var _ Doer = (*Client)(nil)

// Client talks to the Scam Alert Pro HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	deviceID  string
}

const (
	defaultUserAgent = "alertpro/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL ("https://host" or
// "host:port").
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// SetToken installs the bearer token sent with subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// SetDeviceID installs the per-install device id header value.
func (c *Client) SetDeviceID(id string) { c.deviceID = id }

// BaseURL returns the normalized base URL, used to resolve attachment paths.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// ResolveFileURL turns a server-relative attachment path into an absolute URL.
// The API returns Windows-style separators for some uploads.
func (c *Client) ResolveFileURL(path string) string {
	cleaned := strings.TrimPrefix(strings.ReplaceAll(path, `\`, "/"), "/")
	if cleaned == "" {
		return ""
	}
	rel := &url.URL{Path: "/" + cleaned}
	return c.baseURL.ResolveReference(rel).String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	return c.do(ctx, http.MethodGet, rel, nil, dest)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	var buf io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(encoded)
	}
	return c.do(ctx, http.MethodPost, &url.URL{Path: path}, buf, dest)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body io.Reader, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %v", errs.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, rel); err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}
}

func checkStatus(resp *http.Response, rel *url.URL) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: api %s", errs.ErrUnauthorized, rel.Path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: api %s returned status %d", errs.ErrNetwork, rel.Path, resp.StatusCode)
	}
	return nil
}

func newMultipartRequest(ctx context.Context, reqURL string, body io.Reader, contentType, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

func decodeJSON(r io.Reader, dest any) error {
	if err := json.NewDecoder(r).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
