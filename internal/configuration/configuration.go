// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package configuration loads the course-check settings file.
package configuration

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/elastic/go-ucfg/yaml"
	"github.com/go-viper/mapstructure/v2"

	"github.com/lms-tools/course-check/internal/common"
	"github.com/lms-tools/course-check/internal/configuration/locations"
)

const (
	// CanvasURLEnv overrides canvas.url.
	CanvasURLEnv = "COURSE_CHECK_CANVAS_URL"
	// CanvasTokenEnv overrides canvas.token.
	CanvasTokenEnv = "COURSE_CHECK_CANVAS_TOKEN"
)

var envOverrides = map[string]string{
	CanvasURLEnv:   "canvas.url",
	CanvasTokenEnv: "canvas.token",
}

// Settings of the tool.
type Settings struct {
	Canvas     CanvasSettings     `mapstructure:"canvas"`
	Validation ValidationSettings `mapstructure:"validation"`
}

// CanvasSettings configure the REST client.
type CanvasSettings struct {
	URL       string  `mapstructure:"url"`
	Token     string  `mapstructure:"token"`
	Retries   int     `mapstructure:"retries"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	PerPage   int     `mapstructure:"per_page"`
}

// ValidationSettings configure the validations.
type ValidationSettings struct {
	Concurrency     int    `mapstructure:"concurrency"`
	DevCourseMarker string `mapstructure:"dev_course_marker"`
	// CompletionPolicy maps module item types to the completion requirement
	// set on them when fixing modules.
	CompletionPolicy map[string]CompletionRequirement `mapstructure:"completion_policy"`
}

// CompletionRequirement set on module items of some type.
type CompletionRequirement struct {
	Type     string   `mapstructure:"type"`
	MinScore *float64 `mapstructure:"min_score"`
}

// Configuration holds the raw settings loaded from the file and the
// environment.
type Configuration struct {
	settings common.MapStr
}

func defaults() common.MapStr {
	return common.MapStr{
		"canvas": common.MapStr{
			"retries":    3,
			"rate_limit": 0,
			"burst":      1,
			"per_page":   50,
		},
		"validation": common.MapStr{
			"concurrency":       4,
			"dev_course_marker": "DEV_",
		},
	}
}

// Load reads the configuration from the default location.
func Load() (*Configuration, error) {
	loc, err := locations.NewLocationManager()
	if err != nil {
		return nil, fmt.Errorf("can't locate configuration: %w", err)
	}
	return LoadFile(loc.ConfigFile())
}

// LoadFile reads the configuration from the given file. A missing file
// yields the defaults. Environment overrides are applied on top.
func LoadFile(path string) (*Configuration, error) {
	settings := make(common.MapStr)

	cfg, err := yaml.NewConfigWithFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("can't load configuration (%s): %w", path, err)
	default:
		err = cfg.Unpack(settings)
		if err != nil {
			return nil, fmt.Errorf("can't unpack configuration: %w", err)
		}
	}

	for env, key := range envOverrides {
		value := strings.TrimSpace(os.Getenv(env))
		if value == "" {
			continue
		}
		if _, err := settings.Put(key, value); err != nil {
			return nil, fmt.Errorf("can't override %s with %s: %w", key, env, err)
		}
	}

	settings.DeepUpdateNoOverwrite(defaults())
	return &Configuration{settings: settings}, nil
}

// Get returns a setting as a string.
func (c *Configuration) Get(name string) (string, bool) {
	raw, err := c.settings.GetValue(name)
	if err != nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// Decode decodes the setting with the given name into out. Missing
// settings leave out untouched.
func (c *Configuration) Decode(name string, out any) error {
	v, err := c.settings.GetValue(name)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	if err := mapstructure.Decode(v, out); err != nil {
		return fmt.Errorf("can't decode %s: %w", name, err)
	}

	return nil
}

// Settings decodes all the settings.
func (c *Configuration) Settings() (Settings, error) {
	var settings Settings
	if err := mapstructure.Decode(map[string]any(c.settings), &settings); err != nil {
		return Settings{}, fmt.Errorf("can't decode settings: %w", err)
	}
	return settings, nil
}

// Validate checks that the settings needed to reach Canvas are there.
func (s CanvasSettings) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("canvas.url is not configured, set it in the configuration file or with %s", CanvasURLEnv)
	}
	if s.Token == "" {
		return fmt.Errorf("canvas.token is not configured, set it in the configuration file or with %s", CanvasTokenEnv)
	}
	return nil
}
