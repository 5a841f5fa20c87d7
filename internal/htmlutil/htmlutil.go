// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package htmlutil inspects the HTML fragments stored as content bodies.
package htmlutil

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is an anchor found in a fragment.
type Link struct {
	Href string
	Text string
}

// Parse parses a body fragment as the children of a <body> element.
func Parse(fragment string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("could not parse html fragment: %w", err)
	}
	return nodes, nil
}

// Links returns the anchors with an href attribute, in document order.
func Links(fragment string) ([]Link, error) {
	nodes, err := Parse(fragment)
	if err != nil {
		return nil, err
	}

	var links []Link
	for n := range walk(nodes) {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			continue
		}
		if href, found := attr(n, "href"); found {
			links = append(links, Link{Href: href, Text: strings.TrimSpace(text(n))})
		}
	}
	return links, nil
}

// Text returns the text content of a fragment with whitespace collapsed.
func Text(fragment string) (string, error) {
	nodes, err := Parse(fragment)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, node := range nodes {
		parts = append(parts, text(node))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

// hrefAttr matches the href attribute of a raw start tag in any of the forms
// the tokenizer accepts: any case, spaces around "=", quoted or not.
var hrefAttr = regexp.MustCompile(`(?i)(\shref\s*=\s*)("[^"]*"|'[^']*'|[^\s"'=<>` + "`" + `]+)`)

// RewriteLinks replaces the href values for which rewrite returns a new
// value. Only the href attribute of the rewritten anchors changes, the rest
// of the fragment is left byte for byte as it was. It returns the new
// fragment and the distinct hrefs that were rewritten.
func RewriteLinks(fragment string, rewrite func(href string) (string, bool)) (string, []string, error) {
	var out strings.Builder
	var rewritten []string

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return "", nil, fmt.Errorf("could not tokenize html fragment: %w", err)
			}
			break
		}
		// TagName and TagAttr lower-case the underlying buffer.
		raw := string(z.Raw())
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.WriteString(raw)
			continue
		}
		name, hasAttr := z.TagName()
		href, found := "", false
		for hasAttr && string(name) == "a" && !found {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) == "href" {
				href, found = string(val), true
			}
		}
		if !found {
			out.WriteString(raw)
			continue
		}
		replacement, ok := rewrite(href)
		if !ok || replacement == href {
			out.WriteString(raw)
			continue
		}
		out.WriteString(replaceHref(raw, replacement))
		if !slices.Contains(rewritten, href) {
			rewritten = append(rewritten, href)
		}
	}
	return out.String(), rewritten, nil
}

// replaceHref sets the value of the first href attribute of a raw tag,
// keeping its quoting. Unquoted values are written with double quotes.
func replaceHref(raw, href string) string {
	var loc []int
	for _, m := range hrefAttr.FindAllStringSubmatchIndex(raw, -1) {
		if !insideQuotes(raw[:m[0]]) {
			loc = m
			break
		}
	}
	if loc == nil {
		return raw
	}
	value := raw[loc[4]:loc[5]]
	quote := `"`
	if strings.HasPrefix(value, "'") {
		quote = "'"
	}
	return raw[:loc[4]] + quote + html.EscapeString(href) + quote + raw[loc[5]:]
}

// insideQuotes tells if the end of a raw tag prefix is within a quoted
// attribute value.
func insideQuotes(prefix string) bool {
	var quote rune
	for _, r := range prefix {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case r == quote:
			quote = 0
		}
	}
	return quote != 0
}

// Diff returns a unified diff between two fragments, with one tag per line
// so changes inside long single line bodies stay readable. It is empty when
// both are equal.
func Diff(before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	var buf bytes.Buffer
	err := difflib.WriteUnifiedDiff(&buf, difflib.UnifiedDiff{
		A:        difflib.SplitLines(splitTags(before)),
		B:        difflib.SplitLines(splitTags(after)),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	if err != nil {
		return "", fmt.Errorf("could not diff fragments: %w", err)
	}
	return buf.String(), nil
}

func splitTags(fragment string) string {
	s := strings.ReplaceAll(fragment, ">", ">\n")
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// walk yields the nodes and all their descendants in document order.
func walk(nodes []*html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for _, node := range nodes {
			if !yield(node) {
				return
			}
			for d := range node.Descendants() {
				if !yield(d) {
					return
				}
			}
		}
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
			b.WriteString(" ")
		}
	}
	return b.String()
}
