// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package content

import (
	"context"
	"iter"

	"github.com/lms-tools/course-check/internal/canvas"
)

var (
	PageDescriptor = Descriptor[canvas.Page]{
		Name:       "page",
		Collection: "pages",
		Wrapper:    "wiki_page",
		// Lists leave the body out unless asked for it.
		Defaults: &canvas.RequestOptions{Include: []string{"body"}},
		Valid:    func(p canvas.Page) bool { return p.PageID != 0 && p.Title != "" },
		ID:       func(p canvas.Page) int { return p.PageID },
		Title:    func(p canvas.Page) string { return p.Title },
		Body:     func(p canvas.Page) string { return p.Body },
		HTMLURL:  func(p canvas.Page) string { return p.HTMLURL },
	}

	AssignmentDescriptor = Descriptor[canvas.Assignment]{
		Name:       "assignment",
		Collection: "assignments",
		Wrapper:    "assignment",
		Valid:      func(a canvas.Assignment) bool { return a.ID != 0 && a.SubmissionTypes != nil },
		ID:         func(a canvas.Assignment) int { return a.ID },
		Title:      func(a canvas.Assignment) string { return a.Name },
		Body:       func(a canvas.Assignment) string { return a.Description },
		HTMLURL:    func(a canvas.Assignment) string { return a.HTMLURL },
	}

	DiscussionDescriptor = Descriptor[canvas.DiscussionTopic]{
		Name:       "discussion",
		Collection: "discussion_topics",
		Valid:      func(d canvas.DiscussionTopic) bool { return d.ID != 0 && d.Title != "" },
		ID:         func(d canvas.DiscussionTopic) int { return d.ID },
		Title:      func(d canvas.DiscussionTopic) string { return d.Title },
		Body:       func(d canvas.DiscussionTopic) string { return d.Message },
		HTMLURL:    func(d canvas.DiscussionTopic) string { return d.HTMLURL },
	}

	ModuleDescriptor = Descriptor[canvas.Module]{
		Name:       "module",
		Collection: "modules",
		Wrapper:    "module",
		Defaults:   &canvas.RequestOptions{Include: []string{"items"}},
		Valid:      func(m canvas.Module) bool { return m.ID != 0 },
		ID:         func(m canvas.Module) int { return m.ID },
		Title:      func(m canvas.Module) string { return m.Name },
		Body:       func(canvas.Module) string { return "" },
		HTMLURL:    func(canvas.Module) string { return "" },
	}

	ModuleItemDescriptor = Descriptor[canvas.ModuleItem]{
		Name:       "module item",
		Collection: "modules/%d/items",
		Wrapper:    "module_item",
		Valid:      func(i canvas.ModuleItem) bool { return i.ID != 0 && i.Type != "" },
		ID:         func(i canvas.ModuleItem) int { return i.ID },
		Title:      func(i canvas.ModuleItem) string { return i.Title },
		Body:       func(canvas.ModuleItem) string { return "" },
		HTMLURL:    func(i canvas.ModuleItem) string { return i.HTMLURL },
	}
)

type (
	Pages       = Kind[canvas.Page, canvas.PageUpdate]
	Assignments = Kind[canvas.Assignment, canvas.AssignmentUpdate]
	Discussions = Kind[canvas.DiscussionTopic, canvas.DiscussionTopicUpdate]
	ModuleItems = Kind[canvas.ModuleItem, canvas.ModuleItemUpdate]
)

// Modules is the module kind, which also gives access to the items of
// each module.
type Modules interface {
	Kind[canvas.Module, canvas.ModuleUpdate]

	// Items returns the kind for the items of one module.
	Items(moduleID int) ModuleItems
}

type restModules struct {
	Kind[canvas.Module, canvas.ModuleUpdate]
	client *canvas.Client
}

func (m *restModules) Items(moduleID int) ModuleItems {
	return &restKind[canvas.ModuleItem, canvas.ModuleItemUpdate]{
		Descriptor: ModuleItemDescriptor,
		client:     m.client,
		parents:    []any{moduleID},
	}
}

// ItemsOf returns the items of a module, using the items embedded in the
// listing when present and requesting them otherwise.
func ItemsOf(ctx context.Context, modules Modules, courseID int, module canvas.Module) iter.Seq2[canvas.ModuleItem, error] {
	if module.Items != nil || module.ItemsCount == 0 {
		return func(yield func(canvas.ModuleItem, error) bool) {
			for _, item := range module.Items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
	return modules.Items(module.ID).List(ctx, courseID, nil)
}

// Set groups the kinds available to validations.
type Set struct {
	Pages       Pages
	Assignments Assignments
	Discussions Discussions
	Modules     Modules
}

// NewSet returns the kinds backed by the given client.
func NewSet(client *canvas.Client) Set {
	return Set{
		Pages:       NewKind[canvas.Page, canvas.PageUpdate](client, PageDescriptor),
		Assignments: NewKind[canvas.Assignment, canvas.AssignmentUpdate](client, AssignmentDescriptor),
		Discussions: NewKind[canvas.DiscussionTopic, canvas.DiscussionTopicUpdate](client, DiscussionDescriptor),
		Modules: &restModules{
			Kind:   NewKind[canvas.Module, canvas.ModuleUpdate](client, ModuleDescriptor),
			client: client,
		},
	}
}
