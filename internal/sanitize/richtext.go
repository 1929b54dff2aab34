// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize neutralizes user and LLM supplied markup before it is
// rendered or stored.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce   sync.Once
	richPolicy *bluemonday.Policy

	ugcOnce   sync.Once
	ugcPolicy *bluemonday.Policy
)

// richTextPolicy allows a handful of formatting elements and no attributes
// at all, so event handlers and URLs can never survive.
func richTextPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "br", "p", "div", "span")
		richPolicy = p
	})
	return richPolicy
}

// RichText keeps basic formatting tags and strips everything else.
func RichText(s string) string {
	return richTextPolicy().Sanitize(s)
}

// UGC sanitizes rendered markdown (descriptions, review comments).
func UGC(s string) string {
	ugcOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy.Sanitize(s)
}
