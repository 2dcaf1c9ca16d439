// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package wm

import (
	"fmt"
	"regexp"
	"strings"
)

// Criteria are unanchored regular expressions over window properties.
// Empty fields are ignored.
type Criteria struct {
	Class    string
	Instance string
	Title    string
	Role     string
}

// Matcher is a compiled Criteria.
type Matcher struct {
	source   Criteria
	class    *regexp.Regexp
	instance *regexp.Regexp
	title    *regexp.Regexp
	role     *regexp.Regexp
}

// Compile compiles every non-empty field of criteria.
func Compile(criteria Criteria) (*Matcher, error) {
	matcher := &Matcher{source: criteria}
	fields := []struct {
		name    string
		pattern string
		target  **regexp.Regexp
	}{
		{"class", criteria.Class, &matcher.class},
		{"instance", criteria.Instance, &matcher.instance},
		{"title", criteria.Title, &matcher.title},
		{"role", criteria.Role, &matcher.role},
	}
	for _, field := range fields {
		if field.pattern == "" {
			continue
		}
		compiled, err := regexp.Compile(field.pattern)
		if err != nil {
			return nil, fmt.Errorf("%s criterion: %w", field.name, err)
		}
		*field.target = compiled
	}
	return matcher, nil
}

// Empty reports whether no criterion is set. An empty matcher matches
// nothing.
func (m *Matcher) Empty() bool {
	return m == nil || (m.class == nil && m.instance == nil && m.title == nil && m.role == nil)
}

// Matches reports whether every set criterion matches properties.
func (m *Matcher) Matches(properties WindowProperties) bool {
	if m.Empty() {
		return false
	}
	checks := []struct {
		pattern *regexp.Regexp
		value   string
	}{
		{m.class, properties.Class},
		{m.instance, properties.Instance},
		{m.title, properties.Title},
		{m.role, properties.Role},
	}
	for _, check := range checks {
		if check.pattern != nil && !check.pattern.MatchString(check.value) {
			return false
		}
	}
	return true
}

// String renders the criteria the way i3 writes them.
func (m *Matcher) String() string {
	if m.Empty() {
		return "[]"
	}
	var parts []string
	for _, field := range []struct{ name, value string }{
		{"class", m.source.Class},
		{"instance", m.source.Instance},
		{"title", m.source.Title},
		{"window_role", m.source.Role},
	} {
		if field.value != "" {
			parts = append(parts, field.name+"="+Quote(field.value))
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
