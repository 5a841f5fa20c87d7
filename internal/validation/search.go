// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
)

// SearchName is the name of the validation built from a search pattern.
const SearchName = "Content search"

// escapedCharacters have a meaning in regular expressions and are escaped
// when searching for literal text.
const escapedCharacters = `\.+*?()|[]{}^$`

var ErrEmptyPattern = errors.New("search pattern is empty")

// SearchOptions configure a content search.
type SearchOptions struct {
	Pattern string
	// Regex interprets the pattern as a regular expression instead of
	// literal text.
	Regex         bool
	CaseSensitive bool
}

// SearchMatch is an item whose body matches a search.
type SearchMatch struct {
	Kind    string
	ID      int
	Title   string
	HTMLURL string
}

// CompileSearch returns the expression used for the given options. It fails
// for empty patterns and invalid regular expressions.
func CompileSearch(opts SearchOptions) (*regexp.Regexp, error) {
	if opts.Pattern == "" {
		return nil, ErrEmptyPattern
	}
	expr := opts.Pattern
	if !opts.Regex {
		expr = EscapeLiteral(expr)
	}
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", opts.Pattern, err)
	}
	return re, nil
}

// EscapeLiteral escapes the characters with a special meaning in regular
// expressions.
func EscapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(escapedCharacters, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewSearch builds a detection only validation reporting the pages,
// assignments and discussions whose body matches the options.
func NewSearch(set content.Set, opts SearchOptions) (Validation, error) {
	re, err := CompileSearch(opts)
	if err != nil {
		return nil, err
	}

	mode := "text"
	if opts.Regex {
		mode = "expression"
	}
	sensitivity := "case insensitive"
	if opts.CaseSensitive {
		sensitivity = "case sensitive"
	}
	description := fmt.Sprintf("Finds content matching the %s %q (%s).", mode, opts.Pattern, sensitivity)

	run := func(ctx context.Context, course *canvas.Course) (Result[[]SearchMatch], error) {
		var matches []SearchMatch
		var messages []Message
		collect := func(m SearchMatch, body string) {
			if !re.MatchString(body) {
				return
			}
			matches = append(matches, m)
			messages = append(messages, Message{
				BodyLines: []string{fmt.Sprintf("%s %q matches", m.Kind, m.Title)},
				Links:     nonEmpty(m.HTMLURL),
			})
		}

		if err := scan(ctx, set.Pages, course.ID, collect); err != nil {
			return Result[[]SearchMatch]{}, err
		}
		if err := scan(ctx, set.Assignments, course.ID, collect); err != nil {
			return Result[[]SearchMatch]{}, err
		}
		if err := scan(ctx, set.Discussions, course.ID, collect); err != nil {
			return Result[[]SearchMatch]{}, err
		}

		if len(matches) == 0 {
			return New(Passed, ResultOptions[[]SearchMatch]{
				NotFailureMessage: Text(fmt.Sprintf("No content matches %q.", opts.Pattern)),
			}), nil
		}
		return New(Failed, ResultOptions[[]SearchMatch]{
			FailureMessage: messages,
			UserData:       matches,
		}), nil
	}

	return NewUnit(SearchName, description, run, nil), nil
}

func scan[T, U any](ctx context.Context, kind content.Kind[T, U], courseID int, collect func(SearchMatch, string)) error {
	for item, err := range kind.List(ctx, courseID, nil) {
		if err != nil {
			return fmt.Errorf("can't list %ss: %w", kind.Name(), err)
		}
		collect(SearchMatch{
			Kind:    kind.Name(),
			ID:      kind.ID(item),
			Title:   kind.Title(item),
			HTMLURL: kind.HTMLURL(item),
		}, kind.Body(item))
	}
	return nil
}

func nonEmpty(values ...string) []string {
	var result []string
	for _, v := range values {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
