// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/htmlutil"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/multierror"
	"github.com/lms-tools/course-check/internal/validation"
)

var coursePath = regexp.MustCompile(`^/courses/(\d+)(/|$)`)

// CrossCoursePage is a page linking to content of other courses.
type CrossCoursePage struct {
	Page  canvas.Page
	Links []string
}

// hostname reduces a configured Canvas address such as
// "https://school.instructure.com" to the host name links are compared with.
func hostname(address string) string {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(address)
	}
	return u.Hostname()
}

// courseLink returns the course id a link points to when it is a link to a
// course of the given host. Relative links are resolved against the host.
func courseLink(href, host string) (int, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, false
	}
	if u.Host != "" && !strings.EqualFold(u.Hostname(), host) {
		return 0, false
	}
	if u.Host == "" && u.Scheme != "" {
		return 0, false
	}
	m := coursePath.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// rewriteCourseLink points a link to another course to the given course.
func rewriteCourseLink(href, host string, courseID int) (string, bool) {
	other, ok := courseLink(href, host)
	if !ok || other == courseID {
		return "", false
	}
	old := fmt.Sprintf("/courses/%d", other)
	return strings.Replace(href, old, fmt.Sprintf("/courses/%d", courseID), 1), true
}

// CrossCourseLinks flags pages with links to other courses in the same
// host, usually left behind when content is copied from another course.
// Its fix points these links to the course being checked. The host may be
// given as a bare name or as the Canvas address.
func CrossCourseLinks(pages content.Pages, host string) *validation.Unit[[]CrossCoursePage] {
	host = hostname(host)
	type result = validation.Result[[]CrossCoursePage]
	type options = validation.ResultOptions[[]CrossCoursePage]

	run := func(ctx context.Context, course *canvas.Course) (result, error) {
		var flagged []CrossCoursePage
		var messages []validation.Message
		for page, err := range pages.List(ctx, course.ID, nil) {
			if err != nil {
				return result{}, fmt.Errorf("can't list pages: %w", err)
			}
			links, err := htmlutil.Links(page.Body)
			if err != nil {
				logger.Debugf("Skipping page %q with unparseable body: %v", page.Title, err)
				continue
			}
			var foreign []string
			for _, link := range links {
				if id, ok := courseLink(link.Href, host); ok && id != course.ID {
					foreign = append(foreign, link.Href)
				}
			}
			if len(foreign) == 0 {
				continue
			}
			flagged = append(flagged, CrossCoursePage{Page: page, Links: foreign})
			messages = append(messages, validation.Message{
				BodyLines: append([]string{page.Title}, foreign...),
				Links:     nonEmpty(page.HTMLURL),
			})
		}
		if len(flagged) == 0 {
			return validation.New(validation.Passed, options{
				NotFailureMessage: validation.Text("No pages link to other courses"),
			}), nil
		}
		return validation.New(validation.Failed, options{
			FailureMessage: messages,
			UserData:       flagged,
		}), nil
	}

	fix := func(ctx context.Context, course *canvas.Course, failed result) (result, error) {
		if len(failed.UserData) == 0 {
			return validation.New(validation.Failed, options{
				FailureMessage: validation.Text("Failed to fix: no pages to update"),
			}), nil
		}

		var errs multierror.Error
		var remaining []CrossCoursePage
		fixed := 0
		for _, flagged := range failed.UserData {
			body, rewritten, err := htmlutil.RewriteLinks(flagged.Page.Body, func(href string) (string, bool) {
				return rewriteCourseLink(href, host, course.ID)
			})
			if err != nil {
				errs.Append(fmt.Errorf("can't rewrite links of page %q: %w", flagged.Page.Title, err))
				remaining = append(remaining, flagged)
				continue
			}
			if len(rewritten) == 0 {
				errs.Append(fmt.Errorf("could not rewrite the links of page %q", flagged.Page.Title))
				remaining = append(remaining, flagged)
				continue
			}
			if _, err := pages.Put(ctx, course.ID, flagged.Page.PageID, canvas.PageUpdate{Body: body}); err != nil {
				errs.Append(err)
				remaining = append(remaining, flagged)
				continue
			}
			logger.Infof("Rewrote %d links to other courses in page %q of course %d", len(rewritten), flagged.Page.Title, course.ID)
			fixed++
		}

		if len(errs) > 0 {
			messages := validation.Text(fmt.Sprintf("Fixed %d of %d pages, the rest still link to other courses", fixed, len(failed.UserData)))
			for _, err := range errs {
				messages = append(messages, validation.Message{BodyLines: []string{err.Error()}})
			}
			return validation.New(validation.Failed, options{
				FailureMessage: messages,
				UserData:       remaining,
			}), nil
		}
		return validation.New(validation.Passed, options{
			NotFailureMessage: validation.Text(fmt.Sprintf("Pointed the links of %d pages to this course", fixed)),
		}), nil
	}

	return validation.NewUnit(CrossCourseLinksName, crossCourseLinksDescription, run, fix)
}
