// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/canvas/test"
	"github.com/lms-tools/course-check/internal/validation"
	"github.com/lms-tools/course-check/internal/validation/checks"
)

const copiedBody = `<p><a href="/courses/99/pages/intro">Intro</a> ` +
	`<a href="https://lms.example.com/courses/99/files/3">Slides</a> ` +
	`<a href="https://other.example.com/courses/99">Partner</a> ` +
	`<a href="/courses/1/pages/syllabus">Syllabus</a></p>`

func TestCrossCourseLinks(t *testing.T) {
	course := canvas.Course{ID: 1}
	set, server := newSet(t, test.Course{
		Course: course,
		Pages: []canvas.Page{
			{PageID: 1, URL: "home", Title: "Home", Body: `<a href="/courses/1/modules">Modules</a>`},
			{PageID: 2, URL: "week-1", Title: "Week 1", Body: copiedBody, HTMLURL: "https://lms.example.com/courses/1/pages/week-1"},
		},
	})
	unit := checks.CrossCourseLinks(set.Pages, "lms.example.com")

	result := unit.Check(t.Context(), &course)
	require.Equal(t, validation.Failed, result.Status)
	require.Len(t, result.UserData, 1)
	assert.Equal(t, []string{"/courses/99/pages/intro", "https://lms.example.com/courses/99/files/3"}, result.UserData[0].Links)
	assert.Equal(t, []string{"https://lms.example.com/courses/1/pages/week-1"}, result.Messages[0].Links)

	fixed := unit.Remediate(t.Context(), &course, &result)
	require.Equal(t, validation.Passed, fixed.Status, messageLines(fixed.Messages))

	expected := `<p><a href="/courses/1/pages/intro">Intro</a> ` +
		`<a href="https://lms.example.com/courses/1/files/3">Slides</a> ` +
		`<a href="https://other.example.com/courses/99">Partner</a> ` +
		`<a href="/courses/1/pages/syllabus">Syllabus</a></p>`
	assert.Equal(t, expected, server.Content(1).Pages[1].Body)
	assert.Equal(t, 1, server.CountRequests(http.MethodPut, "/api/v1/courses/1/pages"))

	assert.Equal(t, validation.Passed, unit.Check(t.Context(), &course).Status)
}

func TestCrossCourseLinksFixFailure(t *testing.T) {
	course := canvas.Course{ID: 1}
	set, server := newSet(t, test.Course{
		Course: course,
		Pages:  []canvas.Page{{PageID: 2, URL: "week-1", Title: "Week 1", Body: copiedBody}},
	})
	server.Fail(http.MethodPut, "/api/v1/courses/1/pages/2", http.StatusInternalServerError)

	fixed := checks.CrossCourseLinks(set.Pages, "lms.example.com").Remediate(t.Context(), &course, nil)
	assert.Equal(t, validation.Failed, fixed.Status)
	assert.Contains(t, messageLines(fixed.Messages), "Fixed 0 of 1 pages")
	assert.Len(t, fixed.UserData, 1)
}

func TestCrossCourseLinksCanvasAddress(t *testing.T) {
	course := canvas.Course{ID: 1}
	set, _ := newSet(t, test.Course{
		Course: course,
		Pages: []canvas.Page{
			{PageID: 2, URL: "week-1", Title: "Week 1", Body: `<a href="https://lms.example.com/courses/99/files/3">Slides</a>`},
		},
	})

	for _, host := range []string{"lms.example.com", "https://lms.example.com", "https://LMS.example.com/"} {
		t.Run(host, func(t *testing.T) {
			result := checks.CrossCourseLinks(set.Pages, host).Check(t.Context(), &course)
			require.Equal(t, validation.Failed, result.Status)
			require.Len(t, result.UserData, 1)
			assert.Equal(t, []string{"https://lms.example.com/courses/99/files/3"}, result.UserData[0].Links)
		})
	}
}

func TestCrossCourseLinksUnquotedHref(t *testing.T) {
	course := canvas.Course{ID: 1}
	set, server := newSet(t, test.Course{
		Course: course,
		Pages:  []canvas.Page{{PageID: 2, URL: "week-1", Title: "Week 1", Body: `<p><a href=/courses/99/pages/intro>Intro</a></p>`}},
	})
	unit := checks.CrossCourseLinks(set.Pages, "https://lms.example.com")

	result := unit.Check(t.Context(), &course)
	require.Equal(t, validation.Failed, result.Status)

	fixed := unit.Remediate(t.Context(), &course, &result)
	require.Equal(t, validation.Passed, fixed.Status, messageLines(fixed.Messages))
	assert.Equal(t, `<p><a href="/courses/1/pages/intro">Intro</a></p>`, server.Content(1).Pages[0].Body)

	assert.Equal(t, validation.Passed, unit.Check(t.Context(), &course).Status)
}

func TestCrossCourseLinksNothingRewritten(t *testing.T) {
	course := canvas.Course{ID: 1}
	set, server := newSet(t, test.Course{
		Course: course,
		Pages:  []canvas.Page{{PageID: 2, URL: "week-1", Title: "Week 1", Body: `<p>Edited meanwhile</p>`}},
	})
	stale := validation.New(validation.Failed, validation.ResultOptions[[]checks.CrossCoursePage]{
		UserData: []checks.CrossCoursePage{{
			Page:  canvas.Page{PageID: 2, Title: "Week 1", Body: `<p>Edited meanwhile</p>`},
			Links: []string{"/courses/99/pages/intro"},
		}},
	})

	fixed := checks.CrossCourseLinks(set.Pages, "lms.example.com").Remediate(t.Context(), &course, &stale)
	require.Equal(t, validation.Failed, fixed.Status)
	assert.Contains(t, messageLines(fixed.Messages), `could not rewrite the links of page "Week 1"`)
	assert.Len(t, fixed.UserData, 1)
	assert.Zero(t, server.CountRequests(http.MethodPut, "/api/v1/courses/1/pages"))
}

func TestCrossCourseLinksFixAfterListingFailure(t *testing.T) {
	course := canvas.Course{ID: 1}
	set, server := newSet(t, test.Course{
		Course: course,
		Pages:  []canvas.Page{{PageID: 2, URL: "week-1", Title: "Week 1", Body: copiedBody}},
	})
	server.Fail(http.MethodGet, "/api/v1/courses/1/pages", http.StatusInternalServerError)
	unit := checks.CrossCourseLinks(set.Pages, "lms.example.com")

	result := unit.Check(t.Context(), &course)
	require.Equal(t, validation.Failed, result.Status)
	assert.Contains(t, messageLines(result.Messages), "can't list pages")

	fixed := unit.Remediate(t.Context(), &course, &result)
	assert.Equal(t, validation.Failed, fixed.Status)
	assert.Contains(t, messageLines(fixed.Messages), "Failed to fix: no pages to update")
	assert.Zero(t, server.CountRequests(http.MethodPut, "/api/v1/courses/1/pages"))
}
