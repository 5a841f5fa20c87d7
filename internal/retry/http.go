// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package retry

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 5 * time.Second

	// RateLimitRemainingHeader is reported by Canvas on every API response.
	// A throttled request is answered with 403 and a depleted bucket.
	RateLimitRemainingHeader = "X-Rate-Limit-Remaining"
)

type HTTPOptions struct {
	RetryMax int

	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// WrapHTTPClient returns a client retrying transient failures of the given
// one. With RetryMax <= 0 the client is returned unchanged.
func WrapHTTPClient(client *http.Client, opts HTTPOptions) *http.Client {
	if opts.RetryMax <= 0 {
		return client
	}
	if client == nil {
		client = &http.Client{}
	}
	if client.CheckRedirect == nil {
		client.CheckRedirect = checkRedirect
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = client
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = orDefault(opts.retryWaitMin, defaultRetryWaitMin)
	retryClient.RetryWaitMax = orDefault(opts.retryWaitMax, defaultRetryWaitMax)
	return retryClient.StandardClient()
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}

var (
	maxRedirects   = 10
	redirectsError = fmt.Errorf("stopped after %d redirects", maxRedirects)
)

// checkRedirect reimplements default http redirect policy but returning a typed error.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return redirectsError
	}
	return nil
}

// checkRetry reimplements retryablehttp.DefaultRetryPolicy with better error
// checking and awareness of Canvas throttling.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		if errors.Is(err, redirectsError) {
			return false, nil
		}

		var urlError *url.Error
		if errors.As(err, &urlError) {
			// URL is invalid, not recoverable.
			return false, nil
		}

		var certError *x509.CertificateInvalidError
		if errors.As(err, &certError) {
			return false, nil
		}

		var caError *x509.UnknownAuthorityError
		if errors.As(err, &caError) {
			return false, nil
		}

		// Consider other errors as recoverable.
		return true, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || throttled(resp) {
		return true, nil
	}

	// 500-range responses are usually not permanent. This also catches
	// invalid response codes like 0 and 999.
	if resp.StatusCode == 0 || (resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented) {
		return true, err
	}

	return false, nil
}

// throttled reports a 403 caused by an exhausted rate limit bucket, as
// opposed to a permission error, which also uses 403.
func throttled(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	remaining := resp.Header.Get(RateLimitRemainingHeader)
	if remaining == "" {
		return false
	}
	value, err := strconv.ParseFloat(remaining, 64)
	return err == nil && value <= 0
}
