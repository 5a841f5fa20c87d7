// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package validation

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/canvas/test"
	"github.com/lms-tools/course-check/internal/content"
)

func TestEscapeLiteral(t *testing.T) {
	for _, s := range []string{
		`a.b*c+d?e^f$g{h}i(j)k|l[m]n\o`,
		"Price: $5.00 (approx.)",
		"plain text",
		"ünïcode [x]",
	} {
		assert.Equal(t, regexp.QuoteMeta(s), EscapeLiteral(s), s)
	}
	assert.Equal(t, `\\\.\+\*\?\(\)\|\[\]\{\}\^\$`, EscapeLiteral(`\.+*?()|[]{}^$`))
}

func TestCompileSearch(t *testing.T) {
	cases := []struct {
		title    string
		opts     SearchOptions
		matches  []string
		excludes []string
	}{
		{
			title:    "literal case insensitive",
			opts:     SearchOptions{Pattern: "DOC-1285"},
			matches:  []string{"see doc-1285", "DOC-1285"},
			excludes: []string{"DOC-128"},
		},
		{
			title:    "literal keeps special characters",
			opts:     SearchOptions{Pattern: "(due: $5.00)"},
			matches:  []string{"fee (DUE: $5.00) today"},
			excludes: []string{"due: $5.00", "(due: $5x00)"},
		},
		{
			title:    "literal case sensitive",
			opts:     SearchOptions{Pattern: "Canvas", CaseSensitive: true},
			matches:  []string{"the Canvas guide"},
			excludes: []string{"the canvas guide"},
		},
		{
			title:    "regex case insensitive",
			opts:     SearchOptions{Pattern: `docs/DOC-\d+`, Regex: true},
			matches:  []string{"https://community.canvaslms.com/DOCS/doc-10701"},
			excludes: []string{"docs/DOC-"},
		},
		{
			title:    "regex case sensitive",
			opts:     SearchOptions{Pattern: `^Week \d`, Regex: true, CaseSensitive: true},
			matches:  []string{"Week 1"},
			excludes: []string{"week 1", "Module Week 1"},
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			re, err := CompileSearch(c.opts)
			require.NoError(t, err)
			for _, s := range c.matches {
				assert.True(t, re.MatchString(s), s)
			}
			for _, s := range c.excludes {
				assert.False(t, re.MatchString(s), s)
			}
		})
	}
}

func TestCompileSearchRejectsInvalidPatterns(t *testing.T) {
	_, err := CompileSearch(SearchOptions{})
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = CompileSearch(SearchOptions{Pattern: "week (1", Regex: true})
	assert.ErrorContains(t, err, `invalid regular expression "week (1"`)

	// The same text is fine as literal.
	_, err = CompileSearch(SearchOptions{Pattern: "week (1"})
	assert.NoError(t, err)
}

func TestSearchValidation(t *testing.T) {
	server := test.NewServer(t, test.Course{
		Course: canvas.Course{ID: 1},
		Pages: []canvas.Page{
			{PageID: 1, Title: "Welcome", Body: "<p>Read the Syllabus.</p>", HTMLURL: "https://lms.test/courses/1/pages/welcome"},
			{PageID: 2, Title: "Course Resources", Body: "<p>Library hours</p>"},
		},
		Assignments: []canvas.Assignment{
			{ID: 3, Name: "Essay", Description: "See the syllabus", SubmissionTypes: []string{"online_upload"}},
		},
		Discussions: []canvas.DiscussionTopic{
			{ID: 4, Title: "Introductions", Message: "Say hello"},
		},
	})
	set := content.NewSet(test.NewClient(t, server))

	search, err := NewSearch(set, SearchOptions{Pattern: "syllabus"})
	require.NoError(t, err)
	assert.Equal(t, SearchName, search.Name())
	assert.False(t, search.CanFix())

	result := search.Run(t.Context(), &canvas.Course{ID: 1})
	require.Equal(t, Failed, result.Status)
	matches, ok := result.UserData.([]SearchMatch)
	require.True(t, ok)
	assert.Equal(t, []SearchMatch{
		{Kind: "page", ID: 1, Title: "Welcome", HTMLURL: "https://lms.test/courses/1/pages/welcome"},
		{Kind: "assignment", ID: 3, Title: "Essay"},
	}, matches)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, []string{"https://lms.test/courses/1/pages/welcome"}, result.Messages[0].Links)

	sensitive, err := NewSearch(set, SearchOptions{Pattern: "Syllabus", CaseSensitive: true})
	require.NoError(t, err)
	result = sensitive.Run(t.Context(), &canvas.Course{ID: 1})
	assert.Len(t, result.UserData, 1)

	none, err := NewSearch(set, SearchOptions{Pattern: "DOC-1285"})
	require.NoError(t, err)
	result = none.Run(t.Context(), &canvas.Course{ID: 1})
	assert.Equal(t, Passed, result.Status)

	fixed := none.Fix(t.Context(), &canvas.Course{ID: 1}, &result)
	assert.Equal(t, NotRun, fixed.Status)
	assert.Zero(t, server.CountRequests(http.MethodPut, "/"))
}

func TestSearchValidationListError(t *testing.T) {
	server := test.NewServer(t, test.Course{Course: canvas.Course{ID: 1}})
	server.Fail(http.MethodGet, "/api/v1/courses/1/assignments", http.StatusForbidden)
	set := content.NewSet(test.NewClient(t, server))

	search, err := NewSearch(set, SearchOptions{Pattern: "x"})
	require.NoError(t, err)
	result := search.Run(t.Context(), &canvas.Course{ID: 1})
	assert.Equal(t, Failed, result.Status)
	assert.Contains(t, result.Messages[0].BodyLines[0], "can't list assignments")
}
