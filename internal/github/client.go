// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package github

import (
	"net/http"
	"time"

	"github.com/google/go-github/v32/github"
)

const requestTimeout = 5 * time.Second

// UnauthorizedClient function returns unauthorized instance of Github API client.
func UnauthorizedClient() *github.Client {
	return github.NewClient(&http.Client{Timeout: requestTimeout})
}
