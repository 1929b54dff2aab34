// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns template and page names into file and object key
// names.
package slug

import "strings"

// maxLen caps the slug part of generated names.
const maxLen = 80

// Generate lowercases s and keeps ASCII letters and digits. Runs of
// spaces, underscores, dots, slashes and hyphens become a single hyphen;
// everything else is dropped.
// Example: "Hero_A / v2.0" → "hero-a-v2-0"
func Generate(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '_', r == '.', r == '/', r == '-':
			pendingHyphen = true
		}
	}
	out := b.String()
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}

// Filename builds a download filename from a display name. Names that
// produce an empty slug (for example Japanese-only names) use fallback.
// Example: Filename("Hero A", "template", ".json") → "hero-a.json"
func Filename(name, fallback, ext string) string {
	return Or(name, fallback) + ext
}

// Or returns the slug of name, of fallback when name has none, or
// "download" when neither does.
func Or(name, fallback string) string {
	if s := Generate(name); s != "" {
		return s
	}
	if s := Generate(fallback); s != "" {
		return s
	}
	return "download"
}
