// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package content_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/canvas/test"
	"github.com/lms-tools/course-check/internal/content"
)

func newSet(t *testing.T, courses ...test.Course) (content.Set, *test.Server) {
	server := test.NewServer(t, courses...)
	return content.NewSet(test.NewClient(t, server)), server
}

func TestPagesListSearchAndBody(t *testing.T) {
	set, server := newSet(t, test.Course{
		Course: canvas.Course{ID: 1},
		Pages: []canvas.Page{
			{PageID: 1, URL: "welcome", Title: "Welcome", Body: "<p>hi</p>"},
			{PageID: 2, URL: "course-resources", Title: "Course Resources", Body: "<p>resources</p>"},
		},
	})

	items, err := canvas.Collect(set.Pages.List(t.Context(), 1, &canvas.RequestOptions{SearchTerm: "Course Resources"}))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "<p>resources</p>", set.Pages.Body(items[0]))
	assert.Equal(t, 2, set.Pages.ID(items[0]))

	requests := server.Requests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "search_term=Course+Resources")
	assert.Contains(t, requests[0], "include%5B%5D=body")
}

func TestPagesWritesUseWrapperKey(t *testing.T) {
	set, server := newSet(t, test.Course{
		Course: canvas.Course{ID: 1},
		Pages:  []canvas.Page{{PageID: 3, URL: "syllabus", Title: "Syllabus", Body: "<p>old</p>"}},
	})

	updated, err := set.Pages.Put(t.Context(), 1, 3, canvas.PageUpdate{Body: "<p>new</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>new</p>", updated.Body)

	created, err := set.Pages.Post(t.Context(), 1, canvas.PageUpdate{Title: "Notes", Body: "<p>notes</p>"})
	require.NoError(t, err)
	assert.True(t, set.Pages.Is(created))
	assert.Len(t, server.Content(1).Pages, 2)

	_, err = set.Pages.Get(t.Context(), 1, 99, nil)
	assert.ErrorIs(t, err, canvas.ErrNotFound)
}

func TestAssignmentsGuardAndPut(t *testing.T) {
	set, server := newSet(t, test.Course{
		Course: canvas.Course{ID: 1},
		Assignments: []canvas.Assignment{
			{ID: 10, Name: "Essay", SubmissionTypes: []string{"online_upload"}},
		},
	})

	assert.True(t, set.Assignments.Is(canvas.Assignment{ID: 10, SubmissionTypes: []string{}}))
	assert.True(t, set.Assignments.Is(&canvas.Assignment{ID: 10, SubmissionTypes: []string{"none"}}))
	assert.False(t, set.Assignments.Is(canvas.Assignment{ID: 10}))
	assert.False(t, set.Assignments.Is((*canvas.Assignment)(nil)))
	assert.False(t, set.Assignments.Is(nil))
	assert.False(t, set.Assignments.Is(canvas.Page{PageID: 10, Title: "Essay"}))

	_, err := set.Assignments.Put(t.Context(), 1, 10, canvas.AssignmentUpdate{SubmissionTypes: []string{"online_upload", "online_text_entry"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"online_upload", "online_text_entry"}, server.Content(1).Assignments[0].SubmissionTypes)
}

func TestDiscussionsWritesAreUnwrapped(t *testing.T) {
	set, server := newSet(t, test.Course{
		Course:      canvas.Course{ID: 1},
		Discussions: []canvas.DiscussionTopic{{ID: 4, Title: "Introductions", Message: "<p>hello</p>"}},
	})

	topic, err := set.Discussions.Put(t.Context(), 1, 4, canvas.DiscussionTopicUpdate{Message: "<p>updated</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>updated</p>", set.Discussions.Body(topic))
	assert.Equal(t, "<p>updated</p>", server.Content(1).Discussions[0].Message)
}

func TestListMissingCourseIsEmpty(t *testing.T) {
	set, _ := newSet(t)

	items, err := canvas.Collect(set.Discussions.List(t.Context(), 5, nil))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFirstStopsEarly(t *testing.T) {
	var pages []canvas.Page
	for i := 1; i <= 9; i++ {
		pages = append(pages, canvas.Page{PageID: i, Title: "Page"})
	}
	pages[2].Title = "Change Log"
	set, server := newSet(t, test.Course{Course: canvas.Course{ID: 1}, Pages: pages})

	page, found, err := content.First(set.Pages.List(t.Context(), 1, nil), func(p canvas.Page) bool {
		return p.Title == "Change Log"
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, page.PageID)
	// Item 3 is on the second page of two items.
	assert.Equal(t, 2, server.CountRequests(http.MethodGet, "/api/v1/courses/1/pages"))
}

func TestModulesWithItems(t *testing.T) {
	published := true
	set, server := newSet(t, test.Course{
		Course: canvas.Course{ID: 1},
		Modules: []canvas.Module{
			{ID: 1, Name: "Week 1", Published: true, Items: []canvas.ModuleItem{
				{ID: 11, ModuleID: 1, Title: "Read", Type: "Page"},
				{ID: 12, ModuleID: 1, Title: "Submit", Type: "Assignment"},
			}},
		},
	})

	modules, err := canvas.Collect(set.Modules.List(t.Context(), 1, nil))
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Len(t, modules[0].Items, 2)

	// Items are requested when the listing does not embed them.
	listed := modules[0]
	listed.Items = nil
	items, err := canvas.Collect(content.ItemsOf(t.Context(), set.Modules, 1, listed))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, server.CountRequests(http.MethodGet, "/api/v1/courses/1/modules/1/items"))

	item, err := set.Modules.Items(1).Put(t.Context(), 1, 12, canvas.ModuleItemUpdate{Published: &published})
	require.NoError(t, err)
	require.NotNil(t, item.Published)
	assert.True(t, *item.Published)
}
