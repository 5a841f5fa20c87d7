// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package multierror

import (
	"fmt"
	"strings"
)

// Error is a multi-error representation. Fixes that patch several content
// items collect the per-item failures here.
type Error []error

// Append adds err when it is not nil.
func (me *Error) Append(err error) {
	if err != nil {
		*me = append(*me, err)
	}
}

// ErrorOrNil returns nil for an empty collection so callers can return it as
// a plain error.
func (me Error) ErrorOrNil() error {
	if len(me) == 0 {
		return nil
	}
	return me
}

// Error combines a detailed report consisting of attached errors separated with new lines.
func (me Error) Error() string {
	if me == nil {
		return ""
	}

	strs := make([]string, len(me))
	for i, err := range me {
		strs[i] = fmt.Sprintf("[%d] %v", i, err)
	}
	return strings.Join(strs, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (me Error) Unwrap() []error {
	return me
}

// Unique returns a new collection without errors sharing the same message,
// keeping the first occurrence of each.
func (me Error) Unique() Error {
	var unique Error
	seen := make(map[string]struct{}, len(me))
	for _, err := range me {
		if _, found := seen[err.Error()]; found {
			continue
		}
		seen[err.Error()] = struct{}{}
		unique = append(unique, err)
	}
	return unique
}
