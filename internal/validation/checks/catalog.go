// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package checks contains the validations offered for every course.
package checks

import (
	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/validation"
)

// Validation names are shown to operators and used to select validations.
const (
	IntroductionsLinkName = "Introductions discussion profile link"
	CourseResourcesName   = "Course resources page support link"
	ModuleCompletionName  = "Module items require completion"
	ChangeLogName         = "Change log page"
	TextEntryName         = "Text entry submission enabled"
	CrossCourseLinksName  = "Cross-course links"
	UnpublishedItemsName  = "Unpublished module items in published modules"
)

const (
	introductionsLinkDescription = "The Introductions discussion links to the current profile settings guide."
	courseResourcesDescription   = "The Course Resources page links to the current student help guide."
	moduleCompletionDescription  = "Items of published modules have a completion requirement, except badge instructions."
	changeLogDescription         = "Development courses have a page to record their changes."
	textEntryDescription         = "Assignments with online submissions accept text entries."
	crossCourseLinksDescription  = "Pages don't link to content of other courses."
	unpublishedItemsDescription  = "Published modules don't hold unpublished items."
)

// Outdated guides and their replacements.
const (
	ProfileGuideURL        = "https://community.canvaslms.com/docs/DOC-1285"
	CurrentProfileGuideURL = "https://community.instructure.com/en/kb/articles/662765-what-are-profile-settings"

	StudentHelpURL        = "https://community.canvaslms.com/docs/DOC-10701"
	CurrentStudentHelpURL = "https://community.instructure.com/en/kb/articles/662816-how-do-i-get-help-with-canvas-as-a-student"
)

type catalogOptions struct {
	host             string
	devMarker        string
	completionPolicy CompletionPolicy
}

// Option configures the catalog.
type Option func(*catalogOptions)

// WithHost sets the Canvas address, or its bare host name, used to tell
// links to other courses.
func WithHost(host string) Option {
	return func(o *catalogOptions) {
		o.host = host
	}
}

// WithDevMarker sets the part of the name identifying development courses.
func WithDevMarker(marker string) Option {
	return func(o *catalogOptions) {
		o.devMarker = marker
	}
}

// WithCompletionPolicy enables fixing missing completion requirements.
func WithCompletionPolicy(policy CompletionPolicy) Option {
	return func(o *catalogOptions) {
		o.completionPolicy = policy
	}
}

// IntroductionsLink checks the profile guide linked from the Introductions
// discussion.
func IntroductionsLink(discussions content.Discussions) *validation.Unit[canvas.DiscussionTopic] {
	return LinkCurrency(LinkCurrencyOptions[canvas.DiscussionTopic, canvas.DiscussionTopicUpdate]{
		Name:          IntroductionsLinkName,
		Description:   introductionsLinkDescription,
		Kind:          discussions,
		SearchTerm:    "Introductions",
		ContentName:   "Introductions discussion",
		DeprecatedURL: ProfileGuideURL,
		CurrentURL:    CurrentProfileGuideURL,
		Update: func(_ canvas.DiscussionTopic, body string) canvas.DiscussionTopicUpdate {
			return canvas.DiscussionTopicUpdate{Message: body}
		},
	})
}

// CourseResourcesLink checks the help guide linked from the Course
// Resources page.
func CourseResourcesLink(pages content.Pages) *validation.Unit[canvas.Page] {
	return LinkCurrency(LinkCurrencyOptions[canvas.Page, canvas.PageUpdate]{
		Name:          CourseResourcesName,
		Description:   courseResourcesDescription,
		Kind:          pages,
		SearchTerm:    "Course Resources",
		ContentName:   "Course Resources page",
		DeprecatedURL: StudentHelpURL,
		CurrentURL:    CurrentStudentHelpURL,
		Update: func(_ canvas.Page, body string) canvas.PageUpdate {
			return canvas.PageUpdate{Body: body}
		},
	})
}

// Catalog returns every validation, in the order they are offered.
func Catalog(set content.Set, opts ...Option) (*validation.Catalog, error) {
	o := catalogOptions{devMarker: DefaultDevMarker}
	for _, opt := range opts {
		opt(&o)
	}

	return validation.NewCatalog(
		IntroductionsLink(set.Discussions),
		CourseResourcesLink(set.Pages),
		ModuleCompletion(set.Modules, o.completionPolicy),
		ChangeLog(set.Pages, o.devMarker),
		TextEntry(set.Assignments),
		CrossCourseLinks(set.Pages, o.host),
		UnpublishedItems(set.Modules),
	)
}
