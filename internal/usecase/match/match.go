// Package match filters candidate file lists through hook include/exclude
// regexes and type-tag constraints.
package match

import (
	"fmt"
	"regexp"

	"github.com/precept-tool/precept/internal/domain"
)

// Filter is a compiled file selector.
type Filter struct {
	files   *regexp.Regexp
	exclude *regexp.Regexp

	types        []string
	typesOr      []string
	excludeTypes []string
}

// Global compiles the config-level include/exclude pair.
func Global(cfg domain.Config) (*Filter, error) {
	return compile(cfg.Files, cfg.Exclude, nil, nil, nil)
}

// ForHook compiles a hook's full filter set.
func ForHook(h domain.Hook) (*Filter, error) {
	return compile(h.Files, h.Exclude, h.Types, h.TypesOr, h.ExcludeTypes)
}

func compile(files, exclude string, types, typesOr, excludeTypes []string) (*Filter, error) {
	f := &Filter{
		types:        types,
		typesOr:      typesOr,
		excludeTypes: excludeTypes,
	}

	var err error
	if files != "" {
		if f.files, err = regexp.Compile(files); err != nil {
			return nil, invalidPattern("files", err)
		}
	}
	if exclude != "" {
		if f.exclude, err = regexp.Compile(exclude); err != nil {
			return nil, invalidPattern("exclude", err)
		}
	}
	return f, nil
}

// Matches reports whether path with the given type tags passes the filter.
func (f *Filter) Matches(path string, tags []string) bool {
	if f.files != nil && !f.files.MatchString(path) {
		return false
	}
	if f.exclude != nil && f.exclude.MatchString(path) {
		return false
	}

	// types: every tag must be present.
	for _, want := range f.types {
		if !hasTag(tags, want) {
			return false
		}
	}
	// types_or: at least one tag must be present.
	if len(f.typesOr) > 0 {
		any := false
		for _, want := range f.typesOr {
			if hasTag(tags, want) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	for _, banned := range f.excludeTypes {
		if hasTag(tags, banned) {
			return false
		}
	}
	return true
}

// Apply filters paths, looking tags up through tagsOf.
func (f *Filter) Apply(paths []string, tagsOf func(string) []string) []string {
	var out []string
	for _, p := range paths {
		if f.Matches(p, tagsOf(p)) {
			out = append(out, p)
		}
	}
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func invalidPattern(field string, err error) error {
	return &domain.OpError{
		Op:   "match.compile",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %w", field, err),
	}
}
