// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/google/go-querystring/query"

	"github.com/lms-tools/course-check/internal/common"
)

// RequestOptions are the query parameters of a request.
type RequestOptions struct {
	// SearchTerm is passed verbatim to list endpoints supporting it.
	SearchTerm string `url:"search_term,omitempty"`
	// Include eager-loads related fields, encoded as include[]=.
	Include []string `url:"include,brackets,omitempty"`
	PerPage int      `url:"per_page,omitempty"`

	// Params are sent verbatim. Nested maps and slices use bracket notation.
	Params common.MapStr `url:"-"`
}

// MergeOptions returns new options with the values of opts layered over
// defaults. Include lists are joined, params are merged deeply. Neither
// argument is modified.
func MergeOptions(defaults, opts *RequestOptions) (*RequestOptions, error) {
	merged := &RequestOptions{}
	if opts != nil {
		*merged = *opts
		merged.Include = slices.Clone(opts.Include)
	}
	params := common.MapStr{}
	if defaults != nil {
		params.DeepUpdate(defaults.Params)
	}
	if opts != nil {
		params.DeepUpdate(opts.Params)
	}
	merged.Params = nil

	if defaults != nil {
		src := *defaults
		src.Params = nil
		src.Include = slices.Clone(defaults.Include)
		if err := mergo.Merge(merged, src, mergo.WithAppendSlice); err != nil {
			return nil, fmt.Errorf("could not merge request options: %w", err)
		}
	}
	slices.Sort(merged.Include)
	merged.Include = slices.Compact(merged.Include)
	if len(params) > 0 {
		merged.Params = params
	}
	return merged, nil
}

// Values encodes the options as query values.
func (o *RequestOptions) Values() (url.Values, error) {
	if o == nil {
		return url.Values{}, nil
	}
	values, err := query.Values(o)
	if err != nil {
		return nil, fmt.Errorf("could not encode request options: %w", err)
	}
	o.Params.EncodeForm(values)
	return values, nil
}

func withQuery(resourcePath string, opts *RequestOptions) (string, error) {
	values, err := opts.Values()
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return resourcePath, nil
	}
	sep := "?"
	if strings.Contains(resourcePath, "?") {
		sep = "&"
	}
	return resourcePath + sep + values.Encode(), nil
}
