// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// Output represents an output for a report
type Output string

// OutputFunc defines the report writer function. w receives what the
// operator should see.
type OutputFunc func(w io.Writer, r *Report, formatted string, format Format) error

var outputs = map[Output]OutputFunc{}

// RegisterOutput registers a report output.
func RegisterOutput(name Output, outputFunc OutputFunc) {
	outputs[name] = outputFunc
}

// WriteReport delegates writing of the report to the registered output
func WriteReport(w io.Writer, name Output, r *Report, formatted string, format Format) error {
	outputFunc, defined := outputs[name]
	if !defined {
		return fmt.Errorf("unregistered report output: %s", name)
	}

	return outputFunc(w, r, formatted, format)
}

// Outputs returns the names of the registered outputs.
func Outputs() []string {
	var names []string
	for _, name := range slices.Sorted(maps.Keys(outputs)) {
		names = append(names, string(name))
	}
	return names
}
