package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// BaseURL is the Crossref works search endpoint.
	BaseURL = "https://api.crossref.org/works"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// SelectFields limits the payload to what a lookup needs.
	SelectFields = "DOI,title,score,container-title,author,published"

	// DefaultUserAgent identifies the tool to Crossref.
	DefaultUserAgent = "refdoi/dev"

	// maxResponseBytes caps how much of a response body is decoded.
	maxResponseBytes = 4 << 20
)

// Lookuper resolves a free-text reference to its best matching work.
// A nil work with a nil error means the search matched nothing.
type Lookuper interface {
	Lookup(ctx context.Context, query, contact string) (*Work, error)
}

// Client is an HTTP client for the Crossref works search.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom works endpoint (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the tool name sent in the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
		userAgent:  DefaultUserAgent,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ValidContact reports whether contact looks enough like an email address
// to be sent as the polite-pool mailto.
func ValidContact(contact string) bool {
	return strings.Contains(strings.TrimSpace(contact), "@")
}

// buildURL assembles the search URL for a bibliographic query.
func (c *Client) buildURL(query, contact string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	params := u.Query()
	params.Set("query.bibliographic", query)
	params.Set("rows", "1")
	params.Set("select", SelectFields)
	if ValidContact(contact) {
		params.Set("mailto", strings.TrimSpace(contact))
	}
	u.RawQuery = params.Encode()

	return u.String(), nil
}

// userAgentFor returns the User-Agent header, naming the contact when set.
func (c *Client) userAgentFor(contact string) string {
	if ValidContact(contact) {
		return fmt.Sprintf("%s (mailto:%s)", c.userAgent, strings.TrimSpace(contact))
	}
	return c.userAgent
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Keep only the first line of the body; error pages can be HTML
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	excerpt, _, _ := strings.Cut(strings.TrimSpace(string(body)), "\n")
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    strings.TrimSpace(excerpt),
	}
}

// Lookup searches for the single best match of a free-text reference.
// contact is attached as mailto when it passes ValidContact.
func (c *Client) Lookup(ctx context.Context, query, contact string) (*Work, error) {
	reqURL, err := c.buildURL(query, contact)
	if err != nil {
		return nil, err
	}

	log := c.logger.With(zap.String("url", reqURL))
	log.Debug("querying Crossref")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgentFor(contact))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	log.Debug("Crossref responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var works WorksResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&works); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: decoding works: %v", ErrInvalidResponse, err)
	}

	work, err := works.first()
	if err != nil {
		return nil, err
	}
	if work == nil {
		log.Debug("no match", zap.Int("total_results", works.Message.TotalResults))
		return nil, nil
	}

	log.Debug("matched", zap.String("doi", work.DOI), zap.Float64("score", work.Score))
	return work, nil
}
