// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package normalize reads loosely shaped template content and produces a
// fixed set of fields per section type. Every function here is total: bad
// shapes produce defaults, never errors or panics.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SafeGet walks a dot-separated key path through nested mappings. It returns
// def when root is not a mapping, when a key is missing, when an intermediate
// value is not a mapping, or when the value found is nil.
func SafeGet(root any, path string, def any) any {
	cur := root
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		v, ok := m[key]
		if !ok || v == nil {
			return def
		}
		cur = v
	}
	return cur
}

// str converts scalar JSON values to a trimmed string. Mappings and lists
// yield "".
func str(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// getString returns the string at path, or def when it is absent or blank.
func getString(root any, path, def string) string {
	if s := str(SafeGet(root, path, nil)); s != "" {
		return s
	}
	return def
}

// firstString returns the first non-blank value among keys of obj.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

// list returns v as a slice of JSON values, or nil when it is not a list.
func list(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out
	}
	return nil
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// intValue accepts numbers and numeric strings.
func intValue(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case json.Number:
		n, err := x.Int64()
		return int(n), err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return int(f), err == nil
	}
	return 0, false
}

// Lines splits a title into display lines. Both real newlines and the
// escaped two-character sequence \n act as breaks; blank lines are dropped.
func Lines(s string) []string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// flatten collapses newlines (real or escaped) into single spaces.
func flatten(s string) string {
	return strings.Join(Lines(s), " ")
}
