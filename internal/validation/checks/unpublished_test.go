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

func published(v bool) *bool { return &v }

func unpublishedCourse() test.Course {
	return test.Course{
		Course: canvas.Course{ID: 1},
		Modules: []canvas.Module{
			{
				ID: 1, Name: "Week 1", Published: true,
				Items: []canvas.ModuleItem{
					{ID: 11, Title: "Essay", Type: "Assignment", Published: published(false)},
					{ID: 12, Title: "Reading", Type: "Page", Published: published(true)},
					{ID: 13, Title: "Resources", Type: "SubHeader"},
					{ID: 14, Title: "Quiz", Type: "Quiz", Published: published(false)},
				},
			},
			{
				ID: 2, Name: "Week 2", Published: false,
				Items: []canvas.ModuleItem{{ID: 21, Title: "Draft", Type: "Page", Published: published(false)}},
			},
		},
	}
}

func TestUnpublishedItems(t *testing.T) {
	data := unpublishedCourse()
	set, server := newSet(t, data)
	unit := checks.UnpublishedItems(set.Modules)

	result := unit.Check(t.Context(), &data.Course)
	require.Equal(t, validation.Failed, result.Status)
	require.Len(t, result.UserData, 2)
	assert.Equal(t, `Essay (module "Week 1")`, result.Messages[0].BodyLines[0])

	fixed := unit.Remediate(t.Context(), &data.Course, &result)
	require.Equal(t, validation.Passed, fixed.Status, messageLines(fixed.Messages))

	items := server.Content(1).Modules[0].Items
	assert.True(t, *items[0].Published)
	assert.True(t, *items[3].Published)
	assert.False(t, *server.Content(1).Modules[1].Items[0].Published)

	assert.Equal(t, validation.Passed, unit.Check(t.Context(), &data.Course).Status)
}

func TestUnpublishedItemsPartialFix(t *testing.T) {
	data := unpublishedCourse()
	set, server := newSet(t, data)
	server.Fail(http.MethodPut, "/api/v1/courses/1/modules/1/items/14", http.StatusInternalServerError)

	fixed := checks.UnpublishedItems(set.Modules).Remediate(t.Context(), &data.Course, nil)
	require.Equal(t, validation.Failed, fixed.Status)
	assert.Contains(t, messageLines(fixed.Messages), "Published 1 of 2 items before failing")
	assert.Contains(t, messageLines(fixed.Messages), "injected failure")
	require.Len(t, fixed.UserData, 1)
	assert.Equal(t, 14, fixed.UserData[0].ID)

	assert.True(t, *server.Content(1).Modules[0].Items[0].Published)
}

func TestUnpublishedItemsFixAfterListingFailure(t *testing.T) {
	data := unpublishedCourse()
	set, server := newSet(t, data)
	server.Fail(http.MethodGet, "/api/v1/courses/1/modules", http.StatusInternalServerError)
	unit := checks.UnpublishedItems(set.Modules)

	result := unit.Check(t.Context(), &data.Course)
	require.Equal(t, validation.Failed, result.Status)
	assert.Contains(t, messageLines(result.Messages), "can't list modules")

	fixed := unit.Remediate(t.Context(), &data.Course, &result)
	assert.Equal(t, validation.Failed, fixed.Status)
	assert.Contains(t, messageLines(fixed.Messages), "Failed to fix: no module items to publish")
	assert.Zero(t, server.CountRequests(http.MethodPut, "/api/v1/courses/1/modules"))
	assert.False(t, *server.Content(1).Modules[0].Items[0].Published)
}
