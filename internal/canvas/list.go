// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"

	"github.com/tomnomnom/linkheader"
)

// List returns a lazy sequence over every item of a paginated collection.
// Pages are requested only when iteration reaches them, so a consumer
// breaking early saves the remaining requests. Every iteration starts again
// from the first page. A missing collection yields an empty sequence. Any
// other failure is yielded once as error and ends the sequence.
func List[T any](ctx context.Context, c *Client, resourcePath string, opts *RequestOptions) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		pageOpts := RequestOptions{}
		if opts != nil {
			pageOpts = *opts
		}
		if pageOpts.PerPage == 0 {
			pageOpts.PerPage = c.perPage
		}
		next, err := withQuery(resourcePath, &pageOpts)
		if err != nil {
			yield(zero, err)
			return
		}

		for page := 1; next != ""; page++ {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			resp, err := c.get(ctx, next)
			if err != nil {
				yield(zero, fmt.Errorf("can't fetch page %d of %s: %w", page, resourcePath, err))
				return
			}
			if resp.statusCode == http.StatusNotFound {
				return
			}
			if resp.statusCode != http.StatusOK {
				yield(zero, newAPIError(http.MethodGet, resourcePath, resp.statusCode, resp.body))
				return
			}

			var items []T
			if err := json.Unmarshal(resp.body, &items); err != nil {
				yield(zero, fmt.Errorf("could not decode page %d of %s: %w", page, resourcePath, err))
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			next = nextPage(resp.header)
		}
	}
}

// nextPage returns the "next" relation of the Link header, if any.
func nextPage(header http.Header) string {
	links := linkheader.ParseMultiple(header.Values("Link")).FilterByRel("next")
	if len(links) == 0 {
		return ""
	}
	return links[0].URL
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
