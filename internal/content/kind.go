// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package content exposes every kind of course content through the same
// list, read and write operations.
package content

import (
	"context"
	"fmt"
	"iter"

	"github.com/lms-tools/course-check/internal/canvas"
)

// Kind gives uniform access to one type of course content. T is the item
// as read from the API and U the writable subset sent on updates.
type Kind[T any, U any] interface {
	// Name of the content kind, like "page".
	Name() string

	// List returns a lazy sequence over the items of a course. Each call
	// starts from the beginning, and breaking out of the loop stops
	// fetching further pages. Nothing found is an empty sequence.
	List(ctx context.Context, courseID int, opts *canvas.RequestOptions) iter.Seq2[T, error]

	Get(ctx context.Context, courseID, id int, opts *canvas.RequestOptions) (T, error)
	Put(ctx context.Context, courseID, id int, update U) (T, error)
	Post(ctx context.Context, courseID int, update U) (T, error)

	// Is reports whether v is a complete item of this kind.
	Is(v any) bool

	ID(item T) int
	Title(item T) string
	Body(item T) string
	HTMLURL(item T) string
}

// Descriptor describes a content kind: where it lives in the API, how write
// payloads are wrapped and how to read its fields.
type Descriptor[T any] struct {
	Name string
	// Collection is the path of the collection below a course, or a format
	// string with a %d verb per parent id below the course.
	Collection string
	// Wrapper is the payload key expected by writes, like "wiki_page".
	// Empty sends the update at the top level.
	Wrapper string
	// Defaults are the request options used on every list.
	Defaults *canvas.RequestOptions

	// Valid distinguishes real items from partial or empty values.
	Valid   func(T) bool
	ID      func(T) int
	Title   func(T) string
	Body    func(T) string
	HTMLURL func(T) string
}

// Is reports whether v is a valid T or a non nil *T.
func (d Descriptor[T]) Is(v any) bool {
	switch item := v.(type) {
	case T:
		return d.Valid(item)
	case *T:
		return item != nil && d.Valid(*item)
	default:
		return false
	}
}

// Payload wraps an update with the key expected by the API.
func (d Descriptor[T]) Payload(update any) any {
	if d.Wrapper == "" {
		return update
	}
	return map[string]any{d.Wrapper: update}
}

type restKind[T any, U any] struct {
	Descriptor[T]
	client *canvas.Client
	// parents are ids between the course and the collection, like a module.
	parents []any
}

// NewKind returns a kind backed by the REST API.
func NewKind[T any, U any](client *canvas.Client, descriptor Descriptor[T]) Kind[T, U] {
	return &restKind[T, U]{Descriptor: descriptor, client: client}
}

func (k *restKind[T, U]) Name() string { return k.Descriptor.Name }

func (k *restKind[T, U]) collectionPath(courseID int) string {
	collection := k.Collection
	if len(k.parents) > 0 {
		collection = fmt.Sprintf(collection, k.parents...)
	}
	return fmt.Sprintf("courses/%d/%s", courseID, collection)
}

func (k *restKind[T, U]) itemPath(courseID, id int) string {
	return fmt.Sprintf("%s/%d", k.collectionPath(courseID), id)
}

func (k *restKind[T, U]) List(ctx context.Context, courseID int, opts *canvas.RequestOptions) iter.Seq2[T, error] {
	merged, err := canvas.MergeOptions(k.Defaults, opts)
	if err != nil {
		return func(yield func(T, error) bool) {
			var zero T
			yield(zero, err)
		}
	}
	return canvas.List[T](ctx, k.client, k.collectionPath(courseID), merged)
}

func (k *restKind[T, U]) Get(ctx context.Context, courseID, id int, opts *canvas.RequestOptions) (T, error) {
	item, err := canvas.Get[T](ctx, k.client, k.itemPath(courseID, id), opts)
	if err != nil {
		return item, fmt.Errorf("can't get %s %d: %w", k.Descriptor.Name, id, err)
	}
	return item, nil
}

func (k *restKind[T, U]) Put(ctx context.Context, courseID, id int, update U) (T, error) {
	item, err := canvas.Put[T](ctx, k.client, k.itemPath(courseID, id), k.Payload(update))
	if err != nil {
		return item, fmt.Errorf("can't update %s %d: %w", k.Descriptor.Name, id, err)
	}
	return item, nil
}

func (k *restKind[T, U]) Post(ctx context.Context, courseID int, update U) (T, error) {
	item, err := canvas.Post[T](ctx, k.client, k.collectionPath(courseID), k.Payload(update))
	if err != nil {
		return item, fmt.Errorf("can't create %s: %w", k.Descriptor.Name, err)
	}
	return item, nil
}

func (k *restKind[T, U]) Is(v any) bool { return k.Descriptor.Is(v) }

func (k *restKind[T, U]) ID(item T) int         { return k.Descriptor.ID(item) }
func (k *restKind[T, U]) Title(item T) string   { return k.Descriptor.Title(item) }
func (k *restKind[T, U]) Body(item T) string    { return k.Descriptor.Body(item) }
func (k *restKind[T, U]) HTMLURL(item T) string { return k.Descriptor.HTMLURL(item) }

// First returns the first item of the sequence accepted by match. It stops
// iterating as soon as one is found. found is false when none matched.
func First[T any](seq iter.Seq2[T, error], match func(T) bool) (item T, found bool, err error) {
	for candidate, err := range seq {
		if err != nil {
			return item, false, err
		}
		if match(candidate) {
			return candidate, true, nil
		}
	}
	return item, false, nil
}
