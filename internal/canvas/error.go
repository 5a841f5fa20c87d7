// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches API errors caused by a missing resource.
var ErrNotFound = errors.New("resource not found")

// APIError is returned for unexpected status codes of the Canvas API.
type APIError struct {
	Method     string
	Resource   string
	StatusCode int
	// Messages are the error messages reported in the body, when it could be
	// parsed. Otherwise Body keeps the raw response.
	Messages []string
	Body     string
}

func (e *APIError) Error() string {
	detail := e.Body
	if len(e.Messages) > 0 {
		detail = strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("%s %s failed; API status code = %d; %s", e.Method, e.Resource, e.StatusCode, detail)
}

// Is allows errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// errorBody covers the shapes used by Canvas to report errors:
// {"errors":[{"message":...}]}, {"errors":{"field":[{"message":...}]}}
// and {"message":...}.
type errorBody struct {
	Errors  json.RawMessage `json:"errors"`
	Message string          `json:"message"`
}

type errorMessage struct {
	Message string `json:"message"`
}

func newAPIError(method, resource string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Resource:   resource,
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Fall back to the raw body if it cannot be parsed.
		return apiErr
	}
	if parsed.Message != "" {
		apiErr.Messages = append(apiErr.Messages, parsed.Message)
	}

	var list []errorMessage
	if err := json.Unmarshal(parsed.Errors, &list); err == nil {
		for _, m := range list {
			apiErr.Messages = append(apiErr.Messages, m.Message)
		}
		return apiErr
	}

	var fields map[string][]errorMessage
	if err := json.Unmarshal(parsed.Errors, &fields); err == nil {
		for field, messages := range fields {
			for _, m := range messages {
				apiErr.Messages = append(apiErr.Messages, fmt.Sprintf("%s: %s", field, m.Message))
			}
		}
	}
	return apiErr
}
