// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `<div><a href="https://community.canvaslms.com/docs/DOC-1285">Old profile guide link</a></div>` +
	`<p>See <a href='/courses/12/pages/syllabus'>the <b>syllabus</b></a> and <a name="anchor">this</a>.</p>`

func TestLinks(t *testing.T) {
	links, err := Links(body)
	require.NoError(t, err)

	assert.Equal(t, []Link{
		{Href: "https://community.canvaslms.com/docs/DOC-1285", Text: "Old profile guide link"},
		{Href: "/courses/12/pages/syllabus", Text: "the  syllabus"},
	}, links)
}

func TestLinksTopLevelAnchor(t *testing.T) {
	links, err := Links(`<a href="/a">A</a> text <a href="/b">B</a>`)
	require.NoError(t, err)
	assert.Equal(t, []Link{{Href: "/a", Text: "A"}, {Href: "/b", Text: "B"}}, links)
}

func TestText(t *testing.T) {
	text, err := Text(body)
	require.NoError(t, err)
	assert.Equal(t, "Old profile guide link See the syllabus and this .", text)
}

func TestRewriteLinks(t *testing.T) {
	rewritten, changed, err := RewriteLinks(body, func(href string) (string, bool) {
		if strings.HasPrefix(href, "/courses/12/") {
			return strings.Replace(href, "/courses/12/", "/courses/34/", 1), true
		}
		return "", false
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/courses/12/pages/syllabus"}, changed)
	assert.Equal(t, strings.Replace(body, "/courses/12/", "/courses/34/", 1), rewritten)
}

func TestRewriteLinksEscapedAmpersand(t *testing.T) {
	fragment := `<a href="/courses/1/files?a=1&amp;b=2">file</a>`
	rewritten, changed, err := RewriteLinks(fragment, func(href string) (string, bool) {
		return strings.Replace(href, "/courses/1/", "/courses/2/", 1), true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/courses/1/files?a=1&b=2"}, changed)
	assert.Equal(t, `<a href="/courses/2/files?a=1&amp;b=2">file</a>`, rewritten)
}

func TestRewriteLinksAttributeForms(t *testing.T) {
	cases := []struct {
		title    string
		fragment string
		expected string
	}{
		{
			title:    "unquoted",
			fragment: `<p><a href=/courses/99/pages/intro>Intro</a></p>`,
			expected: `<p><a href="/courses/1/pages/intro">Intro</a></p>`,
		},
		{
			title:    "upper case",
			fragment: `<A HREF="/courses/99/pages/intro" TARGET="_blank">Intro</A>`,
			expected: `<A HREF="/courses/1/pages/intro" TARGET="_blank">Intro</A>`,
		},
		{
			title:    "spaced",
			fragment: `<a class="btn" href = '/courses/99/files/3'>Slides</a>`,
			expected: `<a class="btn" href = '/courses/1/files/3'>Slides</a>`,
		},
		{
			title:    "href text inside another attribute",
			fragment: `<a title="see href=/courses/99/x" href="/courses/99/y">Y</a>`,
			expected: `<a title="see href=/courses/99/x" href="/courses/1/y">Y</a>`,
		},
		{
			title:    "data attribute left alone",
			fragment: `<a data-href="/courses/99/x" href="/courses/99/y">Y</a>`,
			expected: `<a data-href="/courses/99/x" href="/courses/1/y">Y</a>`,
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			rewritten, changed, err := RewriteLinks(c.fragment, func(href string) (string, bool) {
				return strings.Replace(href, "/courses/99/", "/courses/1/", 1), strings.Contains(href, "/courses/99/")
			})
			require.NoError(t, err)
			assert.Len(t, changed, 1)
			assert.Equal(t, c.expected, rewritten)
		})
	}
}

func TestRewriteLinksKeepsUntouchedMarkup(t *testing.T) {
	fragment := `<!-- copied --><p>Text &amp; more<br/><a href="/courses/99/a">A</a><a href="/courses/99/a">again</a></p>`
	rewritten, changed, err := RewriteLinks(fragment, func(href string) (string, bool) {
		return strings.Replace(href, "/courses/99/", "/courses/1/", 1), true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/courses/99/a"}, changed)
	assert.Equal(t, `<!-- copied --><p>Text &amp; more<br/><a href="/courses/1/a">A</a><a href="/courses/1/a">again</a></p>`, rewritten)
}

func TestDiff(t *testing.T) {
	diff, err := Diff("<p>a</p>", "<p>a</p>")
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = Diff(`<p><a href="old">x</a></p>`, `<p><a href="new">x</a></p>`)
	require.NoError(t, err)
	assert.Contains(t, diff, `-<a href="old">`)
	assert.Contains(t, diff, `+<a href="new">`)
	assert.Contains(t, diff, "--- before")
}
