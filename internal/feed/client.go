package feed

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gbdata/roadsync/internal/fetcher"
)

// Client fetches raw feed payloads from the provider's open-data service.
type Client struct {
	base    string
	key     string
	fetcher fetcher.Fetcher
	timeout time.Duration
}

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration // per-call bound; 0 means 30s
	Fetcher    fetcher.Fetcher
}

// NewClient creates a feed client. The base URL and service key are only
// validated at fetch time so a client can be constructed before config is
// fully resolved.
func NewClient(opts ClientOptions) *Client {
	f := opts.Fetcher
	if f == nil {
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: opts.Timeout})
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:    strings.TrimSpace(opts.BaseURL),
		key:     strings.TrimSpace(opts.ServiceKey),
		fetcher: f,
		timeout: timeout,
	}
}

// Fetch issues a single GET for the named feed and returns the raw payload.
// extra carries optional request parameters such as laeId, routeId, pageNo,
// or numOfRows.
func (c *Client) Fetch(ctx context.Context, feedID string, extra url.Values) ([]byte, error) {
	if c.base == "" || c.key == "" {
		return nil, wrapKind(ErrConfiguration, nil,
			"feed: base endpoint and service key must be set before fetching %q", feedID)
	}

	target := c.buildURL(feedID, extra)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.fetcher.Get(ctx, target)
	if err != nil {
		return nil, wrapKind(ErrTransport, err, "feed: fetch %q", feedID)
	}
	return body, nil
}

// buildURL concatenates the base endpoint and feed name, then appends the
// percent-encoded service key followed by any extra parameters. The key is
// always the first query parameter, matching the provider's examples.
func (c *Client) buildURL(feedID string, extra url.Values) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(c.base, "/"))
	b.WriteString("/")
	b.WriteString(feedID)
	b.WriteString("?serviceKey=")
	b.WriteString(url.QueryEscape(c.key))
	if len(extra) > 0 {
		b.WriteString("&")
		b.WriteString(extra.Encode())
	}
	return b.String()
}
