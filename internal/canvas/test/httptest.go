// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package test

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
)

const defaultPerPage = 2

// Course is the content served for one course.
type Course struct {
	Course      canvas.Course
	Pages       []canvas.Page
	Assignments []canvas.Assignment
	Discussions []canvas.DiscussionTopic
	Modules     []canvas.Module
}

// Server is an in-memory Canvas API. Lists are paginated with Link headers,
// writes are applied to the stored content and every request is recorded.
type Server struct {
	*httptest.Server

	// PerPage caps the page size regardless of the per_page parameter.
	PerPage int

	mutex    sync.Mutex
	courses  map[int]*Course
	accounts []canvas.Account
	requests []string
	failures map[string]int
	nextID   int
}

// NewServer starts a server with the given courses. It is closed when the
// test finishes.
func NewServer(t testing.TB, courses ...Course) *Server {
	s := &Server{
		PerPage:  defaultPerPage,
		courses:  make(map[int]*Course),
		failures: make(map[string]int),
		nextID:   1000,
	}
	for i := range courses {
		s.courses[courses[i].Course.ID] = &courses[i]
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/accounts", s.listAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{account}/courses", s.listCourses)
	mux.HandleFunc("GET /api/v1/courses/{course}", s.getCourse)
	mux.HandleFunc("GET /api/v1/courses/{course}/pages", s.listPages)
	mux.HandleFunc("GET /api/v1/courses/{course}/pages/{id}", s.getPage)
	mux.HandleFunc("PUT /api/v1/courses/{course}/pages/{id}", s.putPage)
	mux.HandleFunc("POST /api/v1/courses/{course}/pages", s.postPage)
	mux.HandleFunc("GET /api/v1/courses/{course}/assignments", s.listAssignments)
	mux.HandleFunc("GET /api/v1/courses/{course}/assignments/{id}", s.getAssignment)
	mux.HandleFunc("PUT /api/v1/courses/{course}/assignments/{id}", s.putAssignment)
	mux.HandleFunc("GET /api/v1/courses/{course}/discussion_topics", s.listDiscussions)
	mux.HandleFunc("GET /api/v1/courses/{course}/discussion_topics/{id}", s.getDiscussion)
	mux.HandleFunc("PUT /api/v1/courses/{course}/discussion_topics/{id}", s.putDiscussion)
	mux.HandleFunc("GET /api/v1/courses/{course}/modules", s.listModules)
	mux.HandleFunc("GET /api/v1/courses/{course}/modules/{module}/items", s.listModuleItems)
	mux.HandleFunc("PUT /api/v1/courses/{course}/modules/{module}/items/{id}", s.putModuleItem)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// NewClient returns a client for the server without retries.
func NewClient(t testing.TB, s *Server, opts ...canvas.ClientOption) *canvas.Client {
	opts = append([]canvas.ClientOption{canvas.Address(s.URL), canvas.Token("test-token"), canvas.RetryMax(0)}, opts...)
	client, err := canvas.NewClient(opts...)
	require.NoError(t, err)
	return client
}

// SetAccounts sets the accounts listed for the token user.
func (s *Server) SetAccounts(accounts ...canvas.Account) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.accounts = accounts
}

// AddCourse adds or replaces a course, for content that needs the server
// URL, like absolute links.
func (s *Server) AddCourse(c Course) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.courses[c.Course.ID] = &c
}

// Fail makes requests with the given method and path, as in
// "PUT /api/v1/courses/1/pages/2", answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failures[method+" "+path] = status
}

// FailPage is like Fail but only for the given page of a list, so the
// previous pages are still served.
func (s *Server) FailPage(path string, page int, status int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failures[fmt.Sprintf("%s %s#%d", http.MethodGet, path, page)] = status
}

// Requests returns the recorded requests as "METHOD /path?query".
func (s *Server) Requests() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return slices.Clone(s.requests)
}

// CountRequests counts the recorded requests with the given method whose
// path starts with prefix.
func (s *Server) CountRequests(method, prefix string) int {
	count := 0
	for _, r := range s.Requests() {
		m, path, _ := strings.Cut(r, " ")
		if m == method && strings.HasPrefix(path, prefix) {
			count++
		}
	}
	return count
}

// Content returns a copy of the current content of a course.
func (s *Server) Content(courseID int) Course {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, found := s.courses[courseID]
	if !found {
		return Course{}
	}
	copied := *c
	copied.Pages = slices.Clone(c.Pages)
	copied.Assignments = slices.Clone(c.Assignments)
	copied.Discussions = slices.Clone(c.Discussions)
	copied.Modules = slices.Clone(c.Modules)
	for i := range copied.Modules {
		copied.Modules[i].Items = slices.Clone(c.Modules[i].Items)
	}
	return copied
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.RequestURI())
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		if !fail {
			page := r.URL.Query().Get("page")
			if page == "" {
				page = "1"
			}
			status, fail = s.failures[fmt.Sprintf("%s %s#%s", r.Method, r.URL.Path, page)]
		}
		s.mutex.Unlock()

		if r.Header.Get("Authorization") != "Bearer test-token" {
			writeError(w, http.StatusUnauthorized, "Invalid access token.")
			return
		}
		if fail {
			writeError(w, status, fmt.Sprintf("injected failure for %s %s", r.Method, r.URL.Path))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]string{{"message": message}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writePage writes the requested page of items, adding a Link header to the
// next one when there are more.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, items []any) {
	if items == nil {
		items = []any{}
	}
	perPage := s.PerPage
	if requested, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && requested > 0 && requested < perPage {
		perPage = requested
	}
	page := 1
	if requested, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && requested > 0 {
		page = requested
	}

	start := min((page-1)*perPage, len(items))
	end := min(start+perPage, len(items))
	if end < len(items) {
		query := r.URL.Query()
		query.Set("page", strconv.Itoa(page+1))
		next := fmt.Sprintf("http://%s%s?%s", r.Host, r.URL.Path, query.Encode())
		w.Header().Add("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
	}
	w.Header().Add("Link", fmt.Sprintf(`<http://%s%s?page=1>; rel="first"`, r.Host, r.URL.Path))
	writeJSON(w, http.StatusOK, items[start:end])
}

func (s *Server) course(w http.ResponseWriter, r *http.Request) (*Course, bool) {
	id, err := strconv.Atoi(r.PathValue("course"))
	if err != nil {
		writeError(w, http.StatusNotFound, "The specified resource does not exist.")
		return nil, false
	}
	c, found := s.courses[id]
	if !found {
		writeError(w, http.StatusNotFound, "The specified resource does not exist.")
		return nil, false
	}
	return c, true
}

func pathID(r *http.Request, name string) int {
	id, _ := strconv.Atoi(r.PathValue(name))
	return id
}

func matchesSearch(r *http.Request, title string) bool {
	term := r.URL.Query().Get("search_term")
	return term == "" || strings.Contains(strings.ToLower(title), strings.ToLower(term))
}

func includes(r *http.Request, what string) bool {
	return slices.Contains(r.URL.Query()["include[]"], what)
}

// unwrap decodes the payload under the given wrapper key, failing with 400
// when the key is missing. An empty key decodes the whole body.
func unwrap(w http.ResponseWriter, r *http.Request, key string, v any) bool {
	if key == "" {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return false
		}
		return true
	}
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	raw, found := payload[key]
	if !found {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %s parameter", key))
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	items := make([]any, 0, len(s.accounts))
	for _, a := range s.accounts {
		items = append(items, a)
	}
	s.writePage(w, r, items)
}

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var items []any
	for _, id := range slices.Sorted(maps.Keys(s.courses)) {
		c := s.courses[id].Course
		if matchesSearch(r, c.Name) || matchesSearch(r, c.CourseCode) {
			items = append(items, c)
		}
	}
	s.writePage(w, r, items)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if c, ok := s.course(w, r); ok {
		writeJSON(w, http.StatusOK, c.Course)
	}
}

func (s *Server) listPages(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	var items []any
	for _, p := range c.Pages {
		if !matchesSearch(r, p.Title) {
			continue
		}
		if !includes(r, "body") {
			p.Body = ""
		}
		items = append(items, p)
	}
	s.writePage(w, r, items)
}

func (s *Server) findPage(c *Course, r *http.Request) int {
	return slices.IndexFunc(c.Pages, func(p canvas.Page) bool {
		return strconv.Itoa(p.PageID) == r.PathValue("id") || p.URL == r.PathValue("id")
	})
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	i := s.findPage(c, r)
	if i < 0 {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, c.Pages[i])
}

func (s *Server) putPage(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	i := s.findPage(c, r)
	if i < 0 {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	var update canvas.PageUpdate
	if !unwrap(w, r, "wiki_page", &update) {
		return
	}
	page := &c.Pages[i]
	if update.Title != "" {
		page.Title = update.Title
	}
	if update.Body != "" {
		page.Body = update.Body
	}
	if update.Published != nil {
		page.Published = *update.Published
	}
	writeJSON(w, http.StatusOK, *page)
}

func (s *Server) postPage(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	var update canvas.PageUpdate
	if !unwrap(w, r, "wiki_page", &update) {
		return
	}
	if update.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	s.nextID++
	slug := strings.ReplaceAll(strings.ToLower(update.Title), " ", "-")
	page := canvas.Page{
		PageID:  s.nextID,
		URL:     slug,
		Title:   update.Title,
		Body:    update.Body,
		HTMLURL: fmt.Sprintf("http://%s/courses/%d/pages/%s", r.Host, c.Course.ID, slug),
	}
	if update.Published != nil {
		page.Published = *update.Published
	}
	c.Pages = append(c.Pages, page)
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	var items []any
	for _, a := range c.Assignments {
		if matchesSearch(r, a.Name) {
			items = append(items, a)
		}
	}
	s.writePage(w, r, items)
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	i := slices.IndexFunc(c.Assignments, func(a canvas.Assignment) bool { return a.ID == pathID(r, "id") })
	if i < 0 {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	writeJSON(w, http.StatusOK, c.Assignments[i])
}

func (s *Server) putAssignment(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	i := slices.IndexFunc(c.Assignments, func(a canvas.Assignment) bool { return a.ID == pathID(r, "id") })
	if i < 0 {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	var update canvas.AssignmentUpdate
	if !unwrap(w, r, "assignment", &update) {
		return
	}
	assignment := &c.Assignments[i]
	if update.Name != "" {
		assignment.Name = update.Name
	}
	if update.Description != "" {
		assignment.Description = update.Description
	}
	if update.SubmissionTypes != nil {
		assignment.SubmissionTypes = update.SubmissionTypes
	}
	if update.Published != nil {
		assignment.Published = *update.Published
	}
	writeJSON(w, http.StatusOK, *assignment)
}

func (s *Server) listDiscussions(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	var items []any
	for _, d := range c.Discussions {
		if matchesSearch(r, d.Title) {
			items = append(items, d)
		}
	}
	s.writePage(w, r, items)
}

func (s *Server) getDiscussion(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	i := slices.IndexFunc(c.Discussions, func(d canvas.DiscussionTopic) bool { return d.ID == pathID(r, "id") })
	if i < 0 {
		writeError(w, http.StatusNotFound, "discussion topic not found")
		return
	}
	writeJSON(w, http.StatusOK, c.Discussions[i])
}

func (s *Server) putDiscussion(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	i := slices.IndexFunc(c.Discussions, func(d canvas.DiscussionTopic) bool { return d.ID == pathID(r, "id") })
	if i < 0 {
		writeError(w, http.StatusNotFound, "discussion topic not found")
		return
	}
	var update canvas.DiscussionTopicUpdate
	if !unwrap(w, r, "", &update) {
		return
	}
	topic := &c.Discussions[i]
	if update.Title != "" {
		topic.Title = update.Title
	}
	if update.Message != "" {
		topic.Message = update.Message
	}
	if update.Published != nil {
		topic.Published = *update.Published
	}
	writeJSON(w, http.StatusOK, *topic)
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	var items []any
	for _, m := range c.Modules {
		if !matchesSearch(r, m.Name) {
			continue
		}
		m.ItemsCount = len(m.Items)
		m.ItemsURL = fmt.Sprintf("http://%s/api/v1/courses/%d/modules/%d/items", r.Host, c.Course.ID, m.ID)
		if !includes(r, "items") {
			m.Items = nil
		}
		items = append(items, m)
	}
	s.writePage(w, r, items)
}

func (s *Server) findModule(c *Course, r *http.Request) int {
	return slices.IndexFunc(c.Modules, func(m canvas.Module) bool { return m.ID == pathID(r, "module") })
}

func (s *Server) listModuleItems(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	m := s.findModule(c, r)
	if m < 0 {
		writeError(w, http.StatusNotFound, "module not found")
		return
	}
	var items []any
	for _, item := range c.Modules[m].Items {
		if matchesSearch(r, item.Title) {
			items = append(items, item)
		}
	}
	s.writePage(w, r, items)
}

func (s *Server) putModuleItem(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c, ok := s.course(w, r)
	if !ok {
		return
	}
	m := s.findModule(c, r)
	if m < 0 {
		writeError(w, http.StatusNotFound, "module not found")
		return
	}
	module := &c.Modules[m]
	i := slices.IndexFunc(module.Items, func(item canvas.ModuleItem) bool { return item.ID == pathID(r, "id") })
	if i < 0 {
		writeError(w, http.StatusNotFound, "module item not found")
		return
	}
	var update canvas.ModuleItemUpdate
	if !unwrap(w, r, "module_item", &update) {
		return
	}
	item := &module.Items[i]
	if update.Title != "" {
		item.Title = update.Title
	}
	if update.Published != nil {
		published := *update.Published
		item.Published = &published
	}
	if update.CompletionRequirement != nil {
		requirement := *update.CompletionRequirement
		item.CompletionRequirement = &requirement
	}
	writeJSON(w, http.StatusOK, *item)
}
