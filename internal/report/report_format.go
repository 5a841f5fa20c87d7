// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package report

import (
	"fmt"
	"maps"
	"slices"
)

// Format represents a report format
type Format string

// FormatFunc defines the report formatter function.
type FormatFunc func(r *Report) (string, error)

var formatters = map[Format]FormatFunc{}

// RegisterFormat registers a report formatter.
func RegisterFormat(name Format, formatFunc FormatFunc) {
	formatters[name] = formatFunc
}

// FormatReport delegates formatting of the report to the registered formatter
func FormatReport(name Format, r *Report) (string, error) {
	formatFunc, defined := formatters[name]
	if !defined {
		return "", fmt.Errorf("unregistered report format: %s", name)
	}

	return formatFunc(r)
}

// Formats returns the names of the registered formats.
func Formats() []string {
	var names []string
	for _, name := range slices.Sorted(maps.Keys(formatters)) {
		names = append(names, string(name))
	}
	return names
}
