// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/canvas/test"
	"github.com/lms-tools/course-check/internal/validation"
	"github.com/lms-tools/course-check/internal/validation/checks"
)

func TestCatalog(t *testing.T) {
	set, _ := newSet(t)

	catalog, err := checks.Catalog(set)
	require.NoError(t, err)

	var names []string
	for _, v := range catalog.All() {
		names = append(names, v.Name())
		assert.NotEmpty(t, v.Description())
	}
	assert.Equal(t, []string{
		"Introductions discussion profile link",
		"Course resources page support link",
		"Module items require completion",
		"Change log page",
		"Text entry submission enabled",
		"Cross-course links",
		"Unpublished module items in published modules",
	}, names)

	completion, found := catalog.Get(checks.ModuleCompletionName)
	require.True(t, found)
	assert.False(t, completion.CanFix())

	catalog, err = checks.Catalog(set, checks.WithCompletionPolicy(checks.CompletionPolicy{"Page": {Type: "must_view"}}))
	require.NoError(t, err)
	completion, _ = catalog.Get(checks.ModuleCompletionName)
	assert.True(t, completion.CanFix())
}

func TestCatalogSession(t *testing.T) {
	course := canvas.Course{ID: 1, Name: "DEV_BUS202:01: Business Management"}
	set, _ := newSet(t, test.Course{
		Course:      course,
		Discussions: []canvas.DiscussionTopic{{ID: 5, Title: "Introductions", Message: staleDiscussion}},
		Assignments: textEntryCourse().Assignments,
	})
	catalog, err := checks.Catalog(set, checks.WithHost("lms.example.com"))
	require.NoError(t, err)

	session := validation.NewSession(catalog)
	session.SelectAll()
	outcomes := session.Run(t.Context(), &course)
	require.Len(t, outcomes, 7)

	statuses := make(map[string]validation.Status)
	for _, o := range outcomes {
		statuses[o.Name] = o.Result.Status
		assert.NotEmpty(t, o.Result.Messages, o.Name)
	}
	assert.Equal(t, map[string]validation.Status{
		checks.IntroductionsLinkName: validation.Failed,
		checks.CourseResourcesName:   validation.Unknown,
		checks.ModuleCompletionName:  validation.Passed,
		checks.ChangeLogName:         validation.Failed,
		checks.TextEntryName:         validation.Failed,
		checks.CrossCourseLinksName:  validation.Passed,
		checks.UnpublishedItemsName:  validation.Passed,
	}, statuses)

	fixed, err := session.Fix(t.Context(), &course, checks.IntroductionsLinkName)
	require.NoError(t, err)
	assert.Equal(t, validation.Passed, fixed.Result.Status)

	fixed, err = session.Fix(t.Context(), &course, checks.IntroductionsLinkName)
	require.NoError(t, err)
	assert.Equal(t, validation.NotRun, fixed.Result.Status)
}
