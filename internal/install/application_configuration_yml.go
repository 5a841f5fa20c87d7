// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package install

const applicationConfigurationYml = `canvas:
  # Address of the Canvas instance, e.g. https://school.instructure.com.
  # COURSE_CHECK_CANVAS_URL takes precedence.
  url: ""
  # API access token. COURSE_CHECK_CANVAS_TOKEN takes precedence.
  token: ""
  retries: 3
  # Requests per second, 0 disables rate limiting.
  rate_limit: 0
  per_page: 50
validation:
  concurrency: 4
  dev_course_marker: DEV_
  # Completion requirements set by the module completion fix, per module
  # item type. Without a policy the validation only reports.
  # completion_policy:
  #   Page:
  #     type: must_view
  #   Assignment:
  #     type: must_submit
`
