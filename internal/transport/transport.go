// Package transport provides the HTTP transport used by the GitHub API client.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/ghactivity/internal/logfields"
)

//go:generate mockgen -destination=mocks/transport.go -package=mocks . Transport

const DefaultHTTPClientTimeout = time.Minute

const loggerName = "transport"

// Transport sends GET requests to the API.
// Implementations return an error only if no response was received, non-2xx
// responses are returned as *Response.
type Transport interface {
	// Get requests rawURL. The entries of query are added to the query
	// parameters of rawURL. If query is empty, rawURL is requested
	// unmodified.
	Get(ctx context.Context, rawURL string, header http.Header, query url.Values) (*Response, error)
}

// Response is a received HTTP response with a fully read body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTP is a Transport that sends requests via a *http.Client.
type HTTP struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTP returns a new HTTP transport.
// If client is nil, a http.Client with a timeout of DefaultHTTPClientTimeout
// is used.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{
			Timeout: DefaultHTTPClientTimeout,
		}
	}

	return &HTTP{
		client: client,
		logger: zap.L().Named(loggerName),
	}
}

// Get sends a GET request and reads the whole response body.
func (h *HTTP) Get(ctx context.Context, rawURL string, header http.Header, query url.Values) (*Response, error) {
	reqURL, err := withQuery(rawURL, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.logger.Warn(
			"reading http response body failed",
			logfields.Event("http_get_reading_response_body_failed"),
			logfields.URL(reqURL),
			logfields.StatusCode(resp.StatusCode),
			zap.Error(err),
		)

		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func withQuery(rawURL string, query url.Values) (string, error) {
	if len(query) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url failed: %w", err)
	}

	q := u.Query()
	for k, vals := range query {
		for _, v := range vals {
			q.Add(k, v)
		}
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}
