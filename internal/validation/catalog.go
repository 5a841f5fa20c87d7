// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Catalog is the ordered set of validations offered to operators.
type Catalog struct {
	validations []Validation
	byName      map[string]Validation
}

// NewCatalog creates a catalog. Names must be unique.
func NewCatalog(validations ...Validation) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Validation, len(validations))}
	for _, v := range validations {
		if _, found := c.byName[v.Name()]; found {
			return nil, fmt.Errorf("duplicated validation name %q", v.Name())
		}
		c.byName[v.Name()] = v
		c.validations = append(c.validations, v)
	}
	return c, nil
}

// All returns the validations in registration order.
func (c *Catalog) All() []Validation {
	return slices.Clone(c.validations)
}

// Get returns the validation with the exact name.
func (c *Catalog) Get(name string) (Validation, bool) {
	v, found := c.byName[name]
	return v, found
}

// Match returns the validations whose name matches the glob pattern,
// ignoring case, in registration order.
func (c *Catalog) Match(pattern string) ([]Validation, error) {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid validation pattern %q: %w", pattern, err)
	}
	var matched []Validation
	for _, v := range c.validations {
		if g.Match(strings.ToLower(v.Name())) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}
