// Package githubclt provides a GitHub REST API client.
package githubclt

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

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/simplesurance/ghactivity/internal/apierr"
	"github.com/simplesurance/ghactivity/internal/logfields"
	"github.com/simplesurance/ghactivity/internal/transport"
)

const (
	DefaultBaseURL = "https://api.github.com/"
	DefaultAccept  = "application/vnd.github+json"
)

// tokenType is the authorization scheme used for API tokens,
// requests are sent with an "Authorization: token <value>" header.
const tokenType = "token"

const loggerName = "github_client"

// Client is a GitHub REST API client.
// It only holds immutable configuration and can be used concurrently.
// All methods return an *apierr.NetworkError when a request failed and an
// *apierr.DecodeError when a response did not match the expected schema.
type Client struct {
	baseURL     *url.URL
	accept      string
	tokenSource oauth2.TokenSource
	transport   transport.Transport
	logger      *zap.Logger
}

type Option func(*Client) error

// WithBaseURL sets the API endpoint, e.g. the URL of a GitHub Enterprise
// Server instance.
func WithBaseURL(baseURL string) Option {
	return func(clt *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("parsing base url failed: %w", err)
		}

		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("base url %q is not an absolute url", baseURL)
		}

		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}

		clt.baseURL = u
		return nil
	}
}

// WithToken authenticates requests with a static API token.
// An empty token results in unauthenticated requests.
func WithToken(token string) Option {
	return func(clt *Client) error {
		if token == "" {
			clt.tokenSource = nil
			return nil
		}

		clt.tokenSource = oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token, TokenType: tokenType},
		)

		return nil
	}
}

// WithTokenSource authenticates requests with tokens retrieved from ts.
// The token is requested for every request.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(clt *Client) error {
		clt.tokenSource = ts
		return nil
	}
}

// WithTransport sets the transport that is used to send requests.
// By default a transport.HTTP with a default http.Client is used.
func WithTransport(tr transport.Transport) Option {
	return func(clt *Client) error {
		if tr == nil {
			return errors.New("transport is nil")
		}

		clt.transport = tr
		return nil
	}
}

// WithAccept sets the value of the Accept header that is sent with every
// request.
func WithAccept(accept string) Option {
	return func(clt *Client) error {
		clt.accept = accept
		return nil
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(clt *Client) error {
		clt.logger = logger.Named(loggerName)
		return nil
	}
}

// New returns a new github api client.
func New(opts ...Option) (*Client, error) {
	baseURL, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, err
	}

	clt := Client{
		baseURL: baseURL,
		accept:  DefaultAccept,
	}

	for _, o := range opts {
		if err := o(&clt); err != nil {
			return nil, err
		}
	}

	if clt.logger == nil {
		clt.logger = zap.L().Named(loggerName)
	}

	if clt.transport == nil {
		clt.transport = transport.NewHTTP(nil)
	}

	return &clt, nil
}

// BaseURL returns the API endpoint, it always ends with a slash.
func (clt *Client) BaseURL() string {
	return clt.baseURL.String()
}

// endpoint returns the URL of an API path, relative to the base URL.
// The elements are path escaped.
func (clt *Client) endpoint(elems ...string) string {
	escaped := make([]string, 0, len(elems))
	for _, e := range elems {
		escaped = append(escaped, url.PathEscape(e))
	}

	return clt.baseURL.JoinPath(escaped...).String()
}

func (clt *Client) header() (http.Header, error) {
	hdr := http.Header{}

	if clt.accept != "" {
		hdr.Set("Accept", clt.accept)
	}

	if clt.tokenSource == nil {
		return hdr, nil
	}

	token, err := clt.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("retrieving api token failed: %w", err)
	}

	hdr.Set("Authorization", token.Type()+" "+token.AccessToken)

	return hdr, nil
}

// get sends a GET request to rawURL.
// An *apierr.NetworkError is returned if no response was received or it had
// a non-2xx status code.
func (clt *Client) get(ctx context.Context, resource, rawURL string, query url.Values) (*transport.Response, error) {
	logger := clt.logger.With(logfields.Resource(resource), logfields.URL(rawURL))

	hdr, err := clt.header()
	if err != nil {
		return nil, apierr.NewTransportError(rawURL, err)
	}

	resp, err := clt.transport.Get(ctx, rawURL, hdr, query)
	if err != nil {
		metrics.RequestsInc(resource, 0)
		logger.Debug(
			"sending request failed",
			logfields.Event("github_api_request_failed"),
			zap.Error(err),
		)

		return nil, apierr.NewTransportError(rawURL, err)
	}

	metrics.RequestsInc(resource, resp.StatusCode)

	if !resp.IsSuccess() {
		err := checkResponse(rawURL, resp)
		logger.Debug(
			"api request returned an unsuccessful status code",
			logfields.Event("github_api_request_unsuccessful"),
			logfields.StatusCode(resp.StatusCode),
			zap.Error(err),
		)

		return nil, apierr.NewStatusError(rawURL, resp.StatusCode, resp.Body, err)
	}

	logger.Debug(
		"api request successful",
		logfields.Event("github_api_request_successful"),
		logfields.StatusCode(resp.StatusCode),
		zap.Int("http_response_size", len(resp.Body)),
	)

	return resp, nil
}

// checkResponse converts a non-2xx response to the error types of the
// go-github package, e.g. *github.ErrorResponse or *github.RateLimitError.
func checkResponse(rawURL string, resp *transport.Response) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	return github.CheckResponse(&http.Response{
		Status:     fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       io.NopCloser(bytes.NewReader(resp.Body)),
		Request:    req,
	})
}

// getOne retrieves a single JSON object.
func getOne[T any](ctx context.Context, clt *Client, resource, rawURL string) (*T, error) {
	resp, err := clt.get(ctx, resource, rawURL, nil)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, apierr.NewDecodeError(fmt.Sprintf("%T", &result), err)
	}

	return &result, nil
}
