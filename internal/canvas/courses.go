// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas

import (
	"context"
	"fmt"
	"iter"
	"sync"
)

// GetCourse retrieves a course by id.
func (c *Client) GetCourse(ctx context.Context, courseID int) (*Course, error) {
	course, err := Get[Course](ctx, c, fmt.Sprintf("courses/%d", courseID), nil)
	if err != nil {
		return nil, fmt.Errorf("can't get course %d: %w", courseID, err)
	}
	return &course, nil
}

// AccountCache remembers the root account of the token's user. It is owned
// by its caller and shared explicitly with whoever needs the lookup.
type AccountCache struct {
	client *Client

	mutex sync.Mutex
	root  *Account
}

// NewAccountCache creates an empty cache.
func NewAccountCache(client *Client) *AccountCache {
	return &AccountCache{client: client}
}

// Root returns the root account, requesting it on first use.
func (a *AccountCache) Root(ctx context.Context) (Account, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.root != nil {
		return *a.root, nil
	}

	var first *Account
	for account, err := range List[Account](ctx, a.client, "accounts", nil) {
		if err != nil {
			return Account{}, fmt.Errorf("can't list accounts: %w", err)
		}
		if account.IsRoot() {
			a.root = &account
			return account, nil
		}
		if first == nil {
			first = &account
		}
	}
	if first == nil {
		return Account{}, fmt.Errorf("no accounts available for this token")
	}
	if first.RootAccountID == nil {
		return Account{}, fmt.Errorf("account %d has no root account", first.ID)
	}

	root, err := Get[Account](ctx, a.client, fmt.Sprintf("accounts/%d", *first.RootAccountID), nil)
	if err != nil {
		return Account{}, fmt.Errorf("can't get root account %d: %w", *first.RootAccountID, err)
	}
	a.root = &root
	return root, nil
}

// Invalidate forgets the cached account.
func (a *AccountCache) Invalidate() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.root = nil
}

// SearchCourses lists the courses of the root account matching term by name
// or code.
func SearchCourses(ctx context.Context, client *Client, accounts *AccountCache, term string) iter.Seq2[Course, error] {
	return func(yield func(Course, error) bool) {
		root, err := accounts.Root(ctx)
		if err != nil {
			yield(Course{}, err)
			return
		}
		opts := &RequestOptions{SearchTerm: term}
		for course, err := range List[Course](ctx, client, fmt.Sprintf("accounts/%d/courses", root.ID), opts) {
			if !yield(course, err) || err != nil {
				return
			}
		}
	}
}
