// Package openalex is a rate-limited client for the OpenAlex works API.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fredbr/cocite/internal/identity"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 10 requests per second per OpenAlex documentation.
	RateLimit = 10.0

	// referenceBatchSize is the number of work IDs fetched per request when
	// expanding a work's reference list.
	referenceBatchSize = 50

	// citingPageSize is the page size used when paging through citing works.
	citingPageSize = 100
)

// Client is a rate-limited HTTP client for the OpenAlex API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact address sent in the User-Agent header,
// which places requests in the OpenAlex polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new OpenAlex API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, requestURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	userAgent := "cocite/1.0"
	if c.mailto != "" {
		userAgent = fmt.Sprintf("cocite/1.0 (mailto:%s)", c.mailto)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// GetWorkByDOI fetches a work by DOI.
func (c *Client) GetWorkByDOI(ctx context.Context, doi string) (*Work, error) {
	normalized := identity.NormalizeDOI(doi)
	requestURL := fmt.Sprintf("%s/works/https://doi.org/%s", c.baseURL, url.QueryEscape(normalized))

	var work Work
	if err := c.get(ctx, requestURL, &work); err != nil {
		return nil, err
	}
	return &work, nil
}

// GetReferences expands a work's referenced_works IDs into full work
// objects, batching lookups referenceBatchSize IDs at a time.
func (c *Client) GetReferences(ctx context.Context, work *Work) ([]Work, error) {
	ids := work.ReferencedWorks
	if len(ids) == 0 {
		return nil, nil
	}

	var references []Work
	for start := 0; start < len(ids); start += referenceBatchSize {
		end := start + referenceBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		filter := strings.Join(ids[start:end], "|")
		requestURL := fmt.Sprintf("%s/works?filter=openalex:%s&per-page=%d",
			c.baseURL, url.QueryEscape(filter), referenceBatchSize)

		var page listResponse
		if err := c.get(ctx, requestURL, &page); err != nil {
			return nil, fmt.Errorf("fetching references batch: %w", err)
		}
		references = append(references, page.Results...)
	}
	return references, nil
}

// GetCitingWorks pages through the works citing the given work via cursor
// pagination, up to maxResults.
func (c *Client) GetCitingWorks(ctx context.Context, work *Work, maxResults int) ([]Work, error) {
	if work.ID == "" {
		return nil, nil
	}

	var citing []Work
	cursor := "*"
	for cursor != "" && len(citing) < maxResults {
		requestURL := fmt.Sprintf("%s/works?filter=cites:%s&per-page=%d&cursor=%s",
			c.baseURL, url.QueryEscape(work.ID), citingPageSize, url.QueryEscape(cursor))

		var page listResponse
		if err := c.get(ctx, requestURL, &page); err != nil {
			return nil, fmt.Errorf("fetching citing works: %w", err)
		}
		if len(page.Results) == 0 {
			break
		}
		citing = append(citing, page.Results...)
		cursor = page.Meta.NextCursor
	}

	if len(citing) > maxResults {
		citing = citing[:maxResults]
	}
	return citing, nil
}
