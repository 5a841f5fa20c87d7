// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas

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
	"time"

	"golang.org/x/time/rate"

	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/retry"
)

const (
	// APIPath is the prefix of every REST resource.
	APIPath = "/api/v1"

	defaultPerPage = 100
	defaultTimeout = 60 * time.Second
)

var ErrUndefinedHost = errors.New("missing canvas host")

// Client is responsible for talking with the Canvas REST API.
type Client struct {
	host    string
	token   string
	perPage int

	retryMax  int
	limiter   *rate.Limiter
	httpSetup func(*http.Client) *http.Client

	http *http.Client
}

// ClientOption is functional option modifying Canvas client.
type ClientOption func(*Client)

// NewClient creates a new instance of the client.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		perPage: defaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.host == "" {
		return nil, ErrUndefinedHost
	}
	base, err := url.Parse(c.host)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid canvas host %q", c.host)
	}
	c.host = strings.TrimSuffix(base.String(), "/")

	httpClient := retry.WrapHTTPClient(&http.Client{Timeout: defaultTimeout}, retry.HTTPOptions{RetryMax: c.retryMax})
	if c.httpSetup != nil {
		httpClient = c.httpSetup(httpClient)
	}
	c.http = httpClient

	return c, nil
}

// Address option sets the host to use to connect to Canvas, as in
// https://school.instructure.com.
func Address(address string) ClientOption {
	return func(c *Client) {
		c.host = address
	}
}

// Token option sets the API access token sent as bearer token.
func Token(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// RetryMax option sets the number of retries on transient failures.
func RetryMax(retryMax int) ClientOption {
	return func(c *Client) {
		c.retryMax = retryMax
	}
}

// RateLimit option limits the number of requests per second sent by the
// client. A non positive limit disables limiting.
func RateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// PerPage option sets the page size requested from list endpoints.
func PerPage(perPage int) ClientOption {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// HTTPClientSetup adds an initializing function for the http client.
func HTTPClientSetup(setup func(*http.Client) *http.Client) ClientOption {
	return func(c *Client) {
		c.httpSetup = setup
	}
}

// Host returns the base address of the Canvas instance.
func (c *Client) Host() string {
	return c.host
}

type response struct {
	statusCode int
	header     http.Header
	body       []byte
}

func (c *Client) get(ctx context.Context, resourcePath string) (*response, error) {
	return c.sendRequest(ctx, http.MethodGet, resourcePath, nil)
}

func (c *Client) post(ctx context.Context, resourcePath string, body []byte) (*response, error) {
	return c.sendRequest(ctx, http.MethodPost, resourcePath, body)
}

func (c *Client) put(ctx context.Context, resourcePath string, body []byte) (*response, error) {
	return c.sendRequest(ctx, http.MethodPut, resourcePath, body)
}

func (c *Client) sendRequest(ctx context.Context, method, resourcePath string, body []byte) (*response, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	request, err := c.newRequest(ctx, method, resourcePath, reqBody)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}
	return c.doRequest(request)
}

// resourceURL resolves resourcePath against the API root. Absolute URLs, as
// found in pagination links, are accepted only for the configured host.
func (c *Client) resourceURL(resourcePath string) (*url.URL, error) {
	base, err := url.Parse(c.host)
	if err != nil {
		return nil, fmt.Errorf("could not create base URL from host: %v: %w", c.host, err)
	}

	rel, err := url.Parse(resourcePath)
	if err != nil {
		return nil, fmt.Errorf("could not create relative URL from resource path: %v: %w", resourcePath, err)
	}
	if rel.IsAbs() {
		if rel.Host != base.Host {
			return nil, fmt.Errorf("refusing to follow %s outside of %s", rel.Redacted(), base.Host)
		}
		return rel, nil
	}

	u := base.JoinPath(APIPath, rel.EscapedPath())
	u.RawQuery = rel.RawQuery
	return u, nil
}

func (c *Client) newRequest(ctx context.Context, method, resourcePath string, reqBody io.Reader) (*http.Request, error) {
	u, err := c.resourceURL(resourcePath)
	if err != nil {
		return nil, err
	}

	logger.Debugf("%s %s", method, u)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not create %v request to Canvas API resource: %s: %w", method, resourcePath, err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) doRequest(request *http.Request) (*response, error) {
	resp, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not send request to Canvas API: %w", err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	logger.Tracef("%s %s: %d (%d bytes)", request.Method, request.URL, resp.StatusCode, len(body))

	return &response{statusCode: resp.StatusCode, header: resp.Header, body: body}, nil
}

// decode checks the status of a single resource response and decodes its body.
func decode[T any](method, resourcePath string, resp *response) (T, error) {
	var item T
	if resp.statusCode < 200 || resp.statusCode >= 300 {
		return item, newAPIError(method, resourcePath, resp.statusCode, resp.body)
	}
	if err := json.Unmarshal(resp.body, &item); err != nil {
		return item, fmt.Errorf("could not decode %s response: %w", resourcePath, err)
	}
	return item, nil
}

// Get retrieves a single resource.
func Get[T any](ctx context.Context, c *Client, resourcePath string, opts *RequestOptions) (T, error) {
	var zero T
	path, err := withQuery(resourcePath, opts)
	if err != nil {
		return zero, err
	}
	resp, err := c.get(ctx, path)
	if err != nil {
		return zero, err
	}
	return decode[T](http.MethodGet, resourcePath, resp)
}

// Put updates a resource. The payload is encoded as JSON as is, so callers
// choose the wrapper key expected by the endpoint.
func Put[T any](ctx context.Context, c *Client, resourcePath string, payload any) (T, error) {
	var zero T
	body, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("could not encode payload for %s: %w", resourcePath, err)
	}
	resp, err := c.put(ctx, resourcePath, body)
	if err != nil {
		return zero, err
	}
	return decode[T](http.MethodPut, resourcePath, resp)
}

// Post creates a resource.
func Post[T any](ctx context.Context, c *Client, resourcePath string, payload any) (T, error) {
	var zero T
	body, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("could not encode payload for %s: %w", resourcePath, err)
	}
	resp, err := c.post(ctx, resourcePath, body)
	if err != nil {
		return zero, err
	}
	return decode[T](http.MethodPost, resourcePath, resp)
}
