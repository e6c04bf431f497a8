// Package httpclient implements ports.Fetcher with net/http.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fetcher = (*Client)(nil)

// hopHeaders are connection-scoped and never forwarded or stored.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Client sends requests to the application origin.
type Client struct {
	origin *url.URL
	http   *http.Client
	now    func() time.Time
}

// New creates a Client for origin. A zero timeout means no limit.
func New(origin string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "fetcher"), "origin", origin)
	}

	return &Client{
		origin: u,
		http: &http.Client{
			Timeout: timeout,
			// Redirects are returned to the caller as they are.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		now: time.Now,
	}, nil
}

// Resolve returns the absolute URL of an origin-relative reference.
func (c *Client) Resolve(ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInvalidRequest.Error()), "url", ref)
	}
	return c.origin.ResolveReference(r).String(), nil
}

// Fetch performs the round trip and buffers the full response body.
func (c *Client) Fetch(ctx context.Context, req *domain.Request) (*domain.StoredResponse, error) {
	target, err := c.Resolve(req.URL)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), target, body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidRequest.Error()), "url", req.URL)
	}

	for k, v := range req.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}
	stripHop(httpReq.Header)
	// Let the transport negotiate compression so stored bodies are identity encoded.
	httpReq.Header.Del("Accept-Encoding")
	httpReq.Header.Del("Host")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrNetworkUnavailable, err), "url", target)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrNetworkUnavailable, err), "url", target)
	}

	header := resp.Header.Clone()
	stripHop(header)
	header.Del("Content-Length")

	return &domain.StoredResponse{
		Status:   resp.StatusCode,
		Header:   header,
		Body:     data,
		StoredAt: c.now().UTC(),
	}, nil
}

func stripHop(h http.Header) {
	for _, k := range hopHeaders {
		h.Del(k)
	}
}
