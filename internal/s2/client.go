// Package s2 is a rate-limited client for the Semantic Scholar Graph API.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/fredbr/cocite/internal/identity"
)

const (
	// BaseURL is the Semantic Scholar Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second, the free-tier allowance.
	RateLimit = 1.0

	// paperFields are the fields requested for paper lookups.
	paperFields = "paperId,externalIds,title,authors,year,venue,citationCount"

	// pageSize is the page size used for paginated endpoints.
	pageSize = 100
)

// Client is a rate-limited HTTP client for the S2 Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests, which raises
// the rate-limit allowance.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
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

// NewClient creates a new Semantic Scholar API client. The S2_API_KEY
// environment variable supplies the API key unless WithAPIKey overrides it.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
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
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
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

// GetPaperByDOI fetches a paper by DOI. ArXiv DOIs are looked up by arXiv
// ID instead, which has better coverage for preprints.
func (c *Client) GetPaperByDOI(ctx context.Context, doi string) (*Paper, error) {
	var paperPath string
	if arxivID := identity.ArXivIDFromDOI(doi); arxivID != "" {
		paperPath = "arXiv:" + arxivID
	} else {
		paperPath = "DOI:" + identity.NormalizeDOI(doi)
	}
	requestURL := fmt.Sprintf("%s/paper/%s?fields=%s", c.baseURL, url.PathEscape(paperPath), paperFields)

	var p Paper
	if err := c.get(ctx, requestURL, &p); err != nil {
		return nil, err
	}
	if p.PaperID == "" {
		return nil, ErrNotFound
	}
	return &p, nil
}

// GetReferences pages through the papers the given paper cites, up to
// maxResults. Null entries (references S2 could not resolve) are skipped.
func (c *Client) GetReferences(ctx context.Context, paperID string, maxResults int) ([]Paper, error) {
	endpoint := fmt.Sprintf("%s/paper/%s/references", c.baseURL, url.PathEscape(paperID))
	entries, err := getPaged[referenceEntry](ctx, c, endpoint, maxResults)
	if err != nil {
		return nil, fmt.Errorf("fetching references: %w", err)
	}

	papers := make([]Paper, 0, len(entries))
	for _, e := range entries {
		if !e.CitedPaper.IsZero() {
			papers = append(papers, e.CitedPaper)
		}
	}
	return papers, nil
}

// GetCitations pages through the papers citing the given paper, up to
// maxResults.
func (c *Client) GetCitations(ctx context.Context, paperID string, maxResults int) ([]Paper, error) {
	endpoint := fmt.Sprintf("%s/paper/%s/citations", c.baseURL, url.PathEscape(paperID))
	entries, err := getPaged[citationEntry](ctx, c, endpoint, maxResults)
	if err != nil {
		return nil, fmt.Errorf("fetching citations: %w", err)
	}

	papers := make([]Paper, 0, len(entries))
	for _, e := range entries {
		if !e.CitingPaper.IsZero() {
			papers = append(papers, e.CitingPaper)
		}
	}
	return papers, nil
}

// getPaged walks an offset-paginated endpoint until maxResults entries are
// collected or the API reports no further page.
func getPaged[T any](ctx context.Context, c *Client, endpoint string, maxResults int) ([]T, error) {
	var entries []T
	offset := 0
	for len(entries) < maxResults {
		requestURL := fmt.Sprintf("%s?fields=%s&offset=%d&limit=%d", endpoint, paperFields, offset, pageSize)

		var page pagedResponse[T]
		if err := c.get(ctx, requestURL, &page); err != nil {
			return nil, err
		}
		if len(page.Data) == 0 {
			break
		}
		entries = append(entries, page.Data...)
		if page.Next == nil {
			break
		}
		offset = *page.Next
	}

	if len(entries) > maxResults {
		entries = entries[:maxResults]
	}
	return entries, nil
}
