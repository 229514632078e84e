package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// ClientType selects the header profile used for outbound requests.
type ClientType string

const (
	// BrowserClient uses browser-like headers. Some podcast hosts return
	// 406 (Not Acceptable) to unknown user agents.
	BrowserClient ClientType = "browser"

	// SimpleClient uses curl-like headers. Cloudflare-fronted hosts block
	// browser impersonation but allow simple tools.
	SimpleClient ClientType = "simple"
)

// Client wraps an http.Client with a header profile. The classifier and the
// acquirer share one instance so every probe presents the same identity.
type Client struct {
	client     *http.Client
	clientType ClientType
}

// New creates an HTTP client with the specified header profile.
func New(clientType ClientType) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow up to 10 redirects.
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		clientType: clientType,
	}
}

// Do executes req with the profile headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get issues a GET request for url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Head issues a metadata-only probe for url. No body is downloaded beyond
// what the server insists on sending; the response body is the caller's to
// close.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Connection", "keep-alive")

	case SimpleClient:
		req.Header.Set("User-Agent", "curl/8.7.1")

	default:
		// Go's default User-Agent.
	}
}

// DrainAndClose discards any remaining body bytes so the underlying
// connection can be reused, then closes it.
func DrainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
