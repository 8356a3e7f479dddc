// Package strings provides string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Or returns the first argument with non whitespace content, or ""
func Or(ss ...string) string {
	for _, s := range ss {
		if std.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// MustPrefix normalizes and asserts a route prefix like /tasks
// ensures a single leading slash and no trailing slash, panics on the root
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// SQLNull returns nil if s is blank/whitespace, else the original string
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Ptr returns a pointer to s, or nil if s is empty
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns "" if ps is nil, else *ps
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}
