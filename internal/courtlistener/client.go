// Package courtlistener wraps the case-law verification REST API: direct
// citation lookup, case-name search, server-side citation extraction, and
// opinion fetch. Failures are classified into a fixed taxonomy (see errors.go)
// and never retried here; retry policy belongs to the caller.
package courtlistener

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

	"github.com/mkoval/citehound/internal/cache"
	"github.com/mkoval/citehound/internal/model"
	"github.com/mkoval/citehound/internal/token"
	"github.com/mkoval/citehound/internal/worker"
)

const maxResponseBytes = 10 << 20

// Client talks to the verification service. The credential is read from the
// injected token store before each call; requests without a credential are
// sent unauthenticated and classified by the remote response.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     token.Store
	userAgent  string

	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewClient creates a client for the service at cfg.BaseURL.
func NewClient(cfg model.APIConfig, tokens token.Store) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, &APIError{Kind: KindInvalidRequest, Cause: err}
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tokens:    tokens,
		userAgent: cfg.UserAgent,
	}, nil
}

// SetLimiter installs a rate limiter consulted before every request.
func (c *Client) SetLimiter(l *worker.Limiter) {
	c.limiter = l
}

// SetCache installs a response cache for the GET endpoints (search, opinion
// fetch). Citation lookups are never cached.
func (c *Client) SetCache(responses cache.Cache, ttl time.Duration) {
	c.cache = responses
	c.cacheTTL = ttl
}

// ValidateCitation sends a citation string for direct lookup. An empty
// cluster list in the first result means "not found", not an error.
func (c *Client) ValidateCitation(ctx context.Context, citation string) ([]CitationLookupResult, error) {
	body, err := json.Marshal(map[string]string{"text": citation})
	if err != nil {
		return nil, &APIError{Kind: KindInvalidRequest, Cause: err}
	}

	data, err := c.post(ctx, "citation-lookup/", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []CitationLookupResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, &APIError{Kind: KindInvalidResponse, Cause: err}
	}
	return results, nil
}

// LookupCitationsInText performs extraction and lookup server-side on an
// unstructured blob. Unlike the other operations it requires a credential and
// fails fast locally when none is set.
func (c *Client) LookupCitationsInText(ctx context.Context, text string) ([]CitationLookupResult, error) {
	if _, ok := c.tokens.Get(); !ok {
		return nil, &APIError{Kind: KindUnauthorized}
	}

	form := url.Values{"text": {text}}
	data, err := c.post(ctx, "citation-lookup/", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	var results []CitationLookupResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, &APIError{Kind: KindInvalidResponse, Cause: err}
	}
	return results, nil
}

// SearchCaseName runs a full-text search for candidate rulings by case name.
func (c *Client) SearchCaseName(ctx context.Context, caseName string) ([]CaseMatch, error) {
	query := url.Values{
		"type":      {"o"},
		"case_name": {caseName},
	}

	data, err := c.get(ctx, "search/?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &APIError{Kind: KindInvalidResponse, Cause: err}
	}
	return resp.Results, nil
}

// FetchOpinion retrieves the full plain-text ruling for a cluster id.
func (c *Client) FetchOpinion(ctx context.Context, clusterID int64) (*Opinion, error) {
	data, err := c.get(ctx, fmt.Sprintf("clusters/%d/", clusterID))
	if err != nil {
		return nil, err
	}

	var op Opinion
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, &APIError{Kind: KindInvalidResponse, Cause: err}
	}
	return &op, nil
}

// AbsoluteURL resolves a service-relative URL (e.g. "/opinion/1/brown/")
// against the service host.
func (c *Client) AbsoluteURL(relative string) string {
	ref, err := url.Parse(relative)
	if err != nil {
		return relative
	}
	return c.baseURL.ResolveReference(ref).String()
}

// get performs a cached GET against a path relative to the API base.
func (c *Client) get(ctx context.Context, relPath string) ([]byte, error) {
	target, err := c.resolve(relPath)
	if err != nil {
		return nil, err
	}

	key := cache.Key(target)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &APIError{Kind: KindInvalidRequest, Cause: err}
	}

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, data, c.cacheTTL)
	}
	return data, nil
}

// post performs a POST against a path relative to the API base.
func (c *Client) post(ctx context.Context, relPath, contentType string, body io.Reader) ([]byte, error) {
	target, err := c.resolve(relPath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, &APIError{Kind: KindInvalidRequest, Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req)
}

// do executes one request: rate-limit clearance, auth header, status
// classification. Exactly one attempt per call.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context(), req.URL.String()); err != nil {
			return nil, &APIError{Kind: KindTransport, Cause: err}
		}
	}

	req.Header.Set("User-Agent", c.userAgent)
	if credential, ok := c.tokens.Get(); ok {
		req.Header.Set("Authorization", "Token "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}
	return data, nil
}

// resolve joins a relative API path (which may carry a query string) onto the
// base URL.
func (c *Client) resolve(relPath string) (string, error) {
	ref, err := url.Parse(relPath)
	if err != nil {
		return "", &APIError{Kind: KindInvalidRequest, Cause: err}
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}
