// Package graphclient issues signed requests against the content graph
// gateway and layers the synonym, pinned result and content search helpers on
// top of them.
package graphclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/internal/runtimeconfig"
	"github.com/goliatone/go-cms-graph/internal/signing"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

// AuthorizationHeader carries the epi-hmac value.
const AuthorizationHeader = "Authorization"

const (
	contentTypeText = "text/plain"
	contentTypeJSON = "application/json"
)

const (
	textCodeTransportFailed = "GRAPH_TRANSPORT_FAILED"
	textCodeResponseInvalid = "GRAPH_RESPONSE_INVALID"
	textCodeRequestInvalid  = "GRAPH_REQUEST_INVALID"
)

// QueryParam is one query string entry. Params are encoded in the order given.
type QueryParam struct {
	Key   string
	Value string
}

// RequestOptions describes one outbound call. An empty Method means GET.
type RequestOptions struct {
	Method  string
	Body    []byte
	Headers map[string]string
	Query   []QueryParam
}

// Client signs and sends requests to a single gateway. It keeps no per-call
// state and is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	signer  *signing.Signer
	http    *http.Client
	logger  interfaces.Logger
	now     func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client. Retries and pooling belong to
// the client passed here.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		c.logger = logging.EnsureLogger(logger)
	}
}

// NewClient builds a client for cfg. When signer is nil one is derived from
// cfg, so missing credentials fail here.
func NewClient(cfg runtimeconfig.GraphConfig, signer *signing.Signer, opts ...Option) (*Client, error) {
	if signer == nil {
		var err error
		signer, err = signing.NewSigner(cfg)
		if err != nil {
			return nil, err
		}
	}
	base, err := url.Parse(cfg.Gateway())
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, goerrors.Wrap(runtimeconfig.ErrGraphGatewayInvalid, goerrors.CategoryValidation, "graph client configuration invalid").
			WithTextCode("GRAPH_CONFIG_INVALID")
	}

	c := &Client{
		baseURL: base,
		signer:  signer,
		http:    &http.Client{},
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Request sends one signed call to endpointPath and returns the raw response.
// Status codes are not interpreted; the caller must close the body.
func (c *Client) Request(ctx context.Context, endpointPath string, opts RequestOptions) (*http.Response, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.buildURL(endpointPath, opts.Query)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "graph request invalid").
			WithTextCode(textCodeRequestInvalid)
	}

	var body []byte
	if method != http.MethodGet {
		body = opts.Body
	}

	signedPath := target.EscapedPath()
	if target.RawQuery != "" {
		signedPath += "?" + target.RawQuery
	}
	header, err := c.signer.AuthHeader(method, signedPath, body)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if method != http.MethodGet {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "graph request invalid").
			WithTextCode(textCodeRequestInvalid)
	}
	req.Header.Set("Content-Type", contentTypeText)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set(AuthorizationHeader, header)

	logger := logging.WithRequestContext(c.logger, method, target.EscapedPath())
	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("graph.request.failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "graph request failed").
			WithTextCode(textCodeTransportFailed)
	}
	logger.Debug("graph.request.completed", "status", resp.StatusCode, "duration", c.now().Sub(start))
	return resp, nil
}

// buildURL joins endpointPath onto the gateway and appends query in order.
// A query string already present on endpointPath is kept ahead of query.
func (c *Client) buildURL(endpointPath string, query []QueryParam) (*url.URL, error) {
	endpoint, err := url.Parse(endpointPath)
	if err != nil {
		return nil, fmt.Errorf("graphclient: parse endpoint %q: %w", endpointPath, err)
	}
	if endpoint.IsAbs() || endpoint.Host != "" {
		return nil, fmt.Errorf("graphclient: endpoint %q must be a path", endpointPath)
	}

	target := *c.baseURL
	target.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(endpoint.Path, "/")
	target.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(endpoint.EscapedPath(), "/")
	target.Fragment = ""

	parts := make([]string, 0, len(query)+1)
	if endpoint.RawQuery != "" {
		parts = append(parts, endpoint.RawQuery)
	}
	for _, param := range query {
		if param.Key == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(param.Key)+"="+url.QueryEscape(param.Value))
	}
	target.RawQuery = strings.Join(parts, "&")
	return &target, nil
}

// readBody drains and closes resp.Body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "graph response unreadable").
			WithTextCode(textCodeResponseInvalid)
	}
	return data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// remoteError formats a non-2xx response for display.
func remoteError(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("graph request failed with status %d", status)
	}
	return fmt.Sprintf("graph request failed with status %d: %s", status, text)
}

// errorMessage returns the user facing part of err.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
