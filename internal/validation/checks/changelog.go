// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/validation"
)

const (
	// DefaultDevMarker is the part of a course name identifying development
	// courses.
	DefaultDevMarker = "DEV_"

	changeLogPhrase = "change log"
)

const changeLogTemplate = `<h2>{{code}} Change Log</h2>
<p>Record every change made to this course, newest first.</p>
<table style="border-collapse: collapse; width: 100%;" border="1">
<thead>
<tr>
<th>Date</th>
<th>Location</th>
<th>Change</th>
<th>Requested by</th>
<th>Made by</th>
</tr>
</thead>
<tbody>
<tr>
<td>{{example.date}}</td>
<td>{{example.location}}</td>
<td>{{example.change}}</td>
<td>{{example.requestedBy}}</td>
<td>{{example.madeBy}}</td>
</tr>
</tbody>
</table>
`

// CourseCode extracts the course code from a development course name, as
// in "BUS202" for "DEV_BUS202:01: Business Management".
func CourseCode(courseName string) string {
	code := courseName
	if _, after, found := strings.Cut(code, "_"); found {
		code = after
	}
	code, _, _ = strings.Cut(code, ":")
	return strings.TrimSpace(code)
}

// ChangeLogBody renders the body of a new change log page.
func ChangeLogBody(courseCode string) (string, error) {
	body, err := mustache.Render(changeLogTemplate, map[string]any{
		"code": courseCode,
		"example": map[string]string{
			"date":        "2024-01-15",
			"location":    "Module 2: Assignment 2.1",
			"change":      "Replaced the outdated rubric with the current one",
			"requestedBy": "Course lead",
			"madeBy":      "Instructional designer",
		},
	})
	if err != nil {
		return "", fmt.Errorf("can't render change log template: %w", err)
	}
	return body, nil
}

// ChangeLog checks that development courses have a change log page, and
// creates it when missing.
func ChangeLog(pages content.Pages, devMarker string) *validation.Unit[canvas.Page] {
	type result = validation.Result[canvas.Page]
	type options = validation.ResultOptions[canvas.Page]

	if devMarker == "" {
		devMarker = DefaultDevMarker
	}

	find := func(ctx context.Context, courseID int) (canvas.Page, bool, error) {
		return content.First(pages.List(ctx, courseID, nil), func(page canvas.Page) bool {
			return pages.Is(page) && containsFold(page.Title, changeLogPhrase)
		})
	}

	run := func(ctx context.Context, course *canvas.Course) (result, error) {
		if !strings.Contains(course.Name, devMarker) {
			return validation.New(validation.NotRun, options{
				NotFailureMessage: validation.Text(fmt.Sprintf("%q is not a development course", course.Name)),
			}), nil
		}
		page, found, err := find(ctx, course.ID)
		if err != nil {
			return result{}, fmt.Errorf("can't look for the change log page: %w", err)
		}
		if !found {
			return validation.New(validation.Failed, options{
				FailureMessage: validation.Text("The course has no change log page"),
			}), nil
		}
		return validation.New(validation.Passed, options{
			NotFailureMessage: []validation.Message{{
				BodyLines: []string{fmt.Sprintf("Change log page found: %s", page.Title)},
				Links:     nonEmpty(page.HTMLURL),
			}},
			UserData: page,
			Links:    nonEmpty(page.HTMLURL),
		}), nil
	}

	fix := func(ctx context.Context, course *canvas.Course, _ result) (result, error) {
		code := CourseCode(course.Name)
		body, err := ChangeLogBody(code)
		if err != nil {
			return result{}, err
		}

		title := code + " Change Log"
		published := false
		created, err := pages.Post(ctx, course.ID, canvas.PageUpdate{
			Title:     title,
			Body:      body,
			Published: &published,
		})
		if err != nil {
			return validation.New(validation.Failed, options{
				FailureMessage: validation.Text("Failed to create the change log page: " + err.Error()),
			}), nil
		}
		logger.Infof("Created page %q in course %d", title, course.ID)

		page, found, err := find(ctx, course.ID)
		if err != nil || !found {
			lines := []string{"The change log page was created but not found afterward"}
			if err != nil {
				lines = append(lines, err.Error())
			}
			return validation.New(validation.Failed, options{
				FailureMessage: []validation.Message{{BodyLines: lines, Links: nonEmpty(created.HTMLURL)}},
				UserData:       created,
			}), nil
		}
		return validation.New(validation.Passed, options{
			NotFailureMessage: []validation.Message{{
				BodyLines: []string{fmt.Sprintf("Created page %q", page.Title)},
				Links:     nonEmpty(page.HTMLURL),
			}},
			UserData: page,
			Links:    nonEmpty(page.HTMLURL),
		}), nil
	}

	return validation.NewUnit(ChangeLogName, changeLogDescription, run, fix)
}
