// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/canvas/test"
)

func pages(n int) []canvas.Page {
	var pages []canvas.Page
	for i := 1; i <= n; i++ {
		pages = append(pages, canvas.Page{
			PageID: i,
			URL:    fmt.Sprintf("page-%d", i),
			Title:  fmt.Sprintf("Page %d", i),
			Body:   fmt.Sprintf("<p>body %d</p>", i),
		})
	}
	return pages
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := canvas.NewClient()
	assert.ErrorIs(t, err, canvas.ErrUndefinedHost)

	_, err = canvas.NewClient(canvas.Address("lms.example.edu"))
	assert.ErrorContains(t, err, "invalid canvas host")
}

func TestListFollowsLinkHeader(t *testing.T) {
	server := test.NewServer(t, test.Course{Course: canvas.Course{ID: 1}, Pages: pages(5)})
	client := test.NewClient(t, server)

	opts := &canvas.RequestOptions{Include: []string{"body"}}
	items, err := canvas.Collect(canvas.List[canvas.Page](t.Context(), client, "courses/1/pages", opts))
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "<p>body 5</p>", items[4].Body)

	// Five items with two per page.
	assert.Equal(t, 3, server.CountRequests(http.MethodGet, "/api/v1/courses/1/pages"))
	assert.Contains(t, server.Requests()[0], "include%5B%5D=body")
}

func TestListStopsFetchingOnBreak(t *testing.T) {
	server := test.NewServer(t, test.Course{Course: canvas.Course{ID: 1}, Pages: pages(6)})
	client := test.NewClient(t, server)

	for page, err := range canvas.List[canvas.Page](t.Context(), client, "courses/1/pages", nil) {
		require.NoError(t, err)
		if page.PageID == 2 {
			break
		}
	}
	assert.Equal(t, 1, server.CountRequests(http.MethodGet, "/api/v1/courses/1/pages"))

	// A new iteration starts again from the first page.
	seq := canvas.List[canvas.Page](t.Context(), client, "courses/1/pages", nil)
	for page, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, 1, page.PageID)
		break
	}
	assert.Equal(t, 2, server.CountRequests(http.MethodGet, "/api/v1/courses/1/pages"))
}

func TestListMissingCollectionIsEmpty(t *testing.T) {
	server := test.NewServer(t)
	client := test.NewClient(t, server)

	items, err := canvas.Collect(canvas.List[canvas.Page](t.Context(), client, "courses/404/pages", nil))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListYieldsAPIErrors(t *testing.T) {
	server := test.NewServer(t, test.Course{Course: canvas.Course{ID: 1}, Pages: pages(1)})
	server.Fail(http.MethodGet, "/api/v1/courses/1/pages", http.StatusInternalServerError)
	client := test.NewClient(t, server)

	_, err := canvas.Collect(canvas.List[canvas.Page](t.Context(), client, "courses/1/pages", nil))
	var apiErr *canvas.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "injected failure")
}

func TestGetPutPost(t *testing.T) {
	server := test.NewServer(t, test.Course{Course: canvas.Course{ID: 7, Name: "DEV_BUS202:01: Business Management"}, Pages: pages(1)})
	client := test.NewClient(t, server)

	course, err := client.GetCourse(t.Context(), 7)
	require.NoError(t, err)
	assert.Equal(t, "DEV_BUS202:01: Business Management", course.Name)

	_, err = client.GetCourse(t.Context(), 8)
	assert.ErrorIs(t, err, canvas.ErrNotFound)

	page, err := canvas.Put[canvas.Page](t.Context(), client, "courses/7/pages/1",
		map[string]any{"wiki_page": canvas.PageUpdate{Body: "<p>new</p>"}})
	require.NoError(t, err)
	assert.Equal(t, "<p>new</p>", page.Body)

	_, err = canvas.Put[canvas.Page](t.Context(), client, "courses/7/pages/1", canvas.PageUpdate{Body: "<p>unwrapped</p>"})
	assert.ErrorContains(t, err, "missing wiki_page parameter")

	created, err := canvas.Post[canvas.Page](t.Context(), client, "courses/7/pages",
		map[string]any{"wiki_page": canvas.PageUpdate{Title: "BUS202 Change Log", Body: "<table></table>"}})
	require.NoError(t, err)
	assert.Equal(t, "bus202-change-log", created.URL)
	assert.Len(t, server.Content(7).Pages, 2)
}

func TestClientRefusesForeignLinks(t *testing.T) {
	server := test.NewServer(t)
	client := test.NewClient(t, server)

	_, err := canvas.Get[canvas.Course](t.Context(), client, "https://elsewhere.example.com/api/v1/courses/1", nil)
	assert.ErrorContains(t, err, "refusing to follow")
	assert.Empty(t, server.Requests())
}

func TestClientRateLimit(t *testing.T) {
	server := test.NewServer(t, test.Course{Course: canvas.Course{ID: 1}})
	client := test.NewClient(t, server, canvas.RateLimit(1000, 1))

	for range 3 {
		_, err := client.GetCourse(t.Context(), 1)
		require.NoError(t, err)
	}
	assert.Len(t, server.Requests(), 3)
}

func TestAccountCache(t *testing.T) {
	rootID := 1
	server := test.NewServer(t,
		test.Course{Course: canvas.Course{ID: 10, Name: "BUS202 Business Management", CourseCode: "BUS202"}},
		test.Course{Course: canvas.Course{ID: 11, Name: "ACC101 Accounting", CourseCode: "ACC101"}},
	)
	server.SetAccounts(
		canvas.Account{ID: 5, Name: "Business", ParentAccountID: &rootID, RootAccountID: &rootID},
		canvas.Account{ID: rootID, Name: "University"},
	)
	client := test.NewClient(t, server)
	cache := canvas.NewAccountCache(client)

	root, err := cache.Root(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "University", root.Name)

	_, err = cache.Root(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, server.CountRequests(http.MethodGet, "/api/v1/accounts?"))

	courses, err := canvas.Collect(canvas.SearchCourses(t.Context(), client, cache, "bus"))
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 10, courses[0].ID)
	assert.Equal(t, 1, server.CountRequests(http.MethodGet, "/api/v1/accounts?"))

	cache.Invalidate()
	_, err = cache.Root(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, server.CountRequests(http.MethodGet, "/api/v1/accounts?"))
}

func TestAccountCacheWithoutAccounts(t *testing.T) {
	server := test.NewServer(t)
	cache := canvas.NewAccountCache(test.NewClient(t, server))

	_, err := cache.Root(t.Context())
	assert.ErrorContains(t, err, "no accounts available")
	assert.False(t, errors.Is(err, canvas.ErrNotFound))
}
