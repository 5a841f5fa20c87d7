// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package canvas

import "time"

// Course as returned by the courses API.
type Course struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	CourseCode    string     `json:"course_code"`
	AccountID     int        `json:"account_id"`
	RootAccountID int        `json:"root_account_id"`
	WorkflowState string     `json:"workflow_state"`
	Blueprint     bool       `json:"blueprint"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	StartAt       *time.Time `json:"start_at,omitempty"`
}

// Page is a wiki page. List endpoints only include the body when asked with
// include[]=body.
type Page struct {
	PageID    int        `json:"page_id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	Published bool       `json:"published"`
	FrontPage bool       `json:"front_page"`
	HTMLURL   string     `json:"html_url"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PageUpdate is the writable subset of a page, sent as {"wiki_page": {...}}.
type PageUpdate struct {
	Title     string `json:"title,omitempty"`
	Body      string `json:"body,omitempty"`
	Published *bool  `json:"published,omitempty"`
}

// Assignment as returned by the assignments API. SubmissionTypes is always
// present on real assignments.
type Assignment struct {
	ID              int      `json:"id"`
	CourseID        int      `json:"course_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	SubmissionTypes []string `json:"submission_types"`
	Published       bool     `json:"published"`
	HTMLURL         string   `json:"html_url"`
	QuizID          int      `json:"quiz_id,omitempty"`
}

// AssignmentUpdate is sent as {"assignment": {...}}.
type AssignmentUpdate struct {
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	SubmissionTypes []string `json:"submission_types,omitempty"`
	Published       *bool    `json:"published,omitempty"`
}

// DiscussionTopic as returned by the discussion topics API.
type DiscussionTopic struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	HTMLURL        string `json:"html_url"`
	Published      bool   `json:"published"`
	DiscussionType string `json:"discussion_type"`
}

// DiscussionTopicUpdate is sent without wrapper key, as the discussion
// topics API expects its parameters at the top level.
type DiscussionTopicUpdate struct {
	Title     string `json:"title,omitempty"`
	Message   string `json:"message,omitempty"`
	Published *bool  `json:"published,omitempty"`
}

// Module as returned by the modules API. Items are only present when
// requested with include[]=items and the module is small enough, otherwise
// ItemsURL must be followed.
type Module struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Position   int          `json:"position"`
	Published  bool         `json:"published"`
	ItemsCount int          `json:"items_count"`
	ItemsURL   string       `json:"items_url"`
	Items      []ModuleItem `json:"items,omitempty"`
}

// ModuleUpdate is sent as {"module": {...}}.
type ModuleUpdate struct {
	Name      string `json:"name,omitempty"`
	Published *bool  `json:"published,omitempty"`
}

// ModuleItem is an entry of a module pointing to some content.
type ModuleItem struct {
	ID                    int                    `json:"id"`
	ModuleID              int                    `json:"module_id"`
	Position              int                    `json:"position"`
	Title                 string                 `json:"title"`
	Type                  string                 `json:"type"`
	ContentID             int                    `json:"content_id,omitempty"`
	PageURL               string                 `json:"page_url,omitempty"`
	HTMLURL               string                 `json:"html_url"`
	Published             *bool                  `json:"published,omitempty"`
	CompletionRequirement *CompletionRequirement `json:"completion_requirement,omitempty"`
}

// CompletionRequirement of a module item, e.g. must_view or must_submit.
type CompletionRequirement struct {
	Type      string   `json:"type"`
	MinScore  *float64 `json:"min_score,omitempty"`
	Completed bool     `json:"completed,omitempty"`
}

// ModuleItemUpdate is sent as {"module_item": {...}}.
type ModuleItemUpdate struct {
	Title                 string                 `json:"title,omitempty"`
	Published             *bool                  `json:"published,omitempty"`
	CompletionRequirement *CompletionRequirement `json:"completion_requirement,omitempty"`
}

// Account as returned by the accounts API.
type Account struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	ParentAccountID *int   `json:"parent_account_id"`
	RootAccountID   *int   `json:"root_account_id"`
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == nil && a.RootAccountID == nil
}
