// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SectionType names the role a template plays on a landing page.
type SectionType string

const (
	SectionHeader      SectionType = "header"
	SectionHero        SectionType = "hero"
	SectionTrouble     SectionType = "trouble"
	SectionFeatures    SectionType = "features"
	SectionHowItWorks  SectionType = "how_it_works"
	SectionTestimonial SectionType = "testimonials"
	SectionSocialProof SectionType = "social_proof"
	SectionPricing     SectionType = "pricing"
	SectionCTA         SectionType = "cta"
	SectionFAQ         SectionType = "faq"
)

// SectionOrder is the order in which sections are stacked when a page is
// assembled. Types missing from this list are appended after it.
var SectionOrder = []SectionType{
	SectionHeader,
	SectionHero,
	SectionTrouble,
	SectionFeatures,
	SectionHowItWorks,
	SectionTestimonial,
	SectionSocialProof,
	SectionPricing,
	SectionFAQ,
	SectionCTA,
}

var sectionLabels = map[SectionType]string{
	SectionHeader:      "Header",
	SectionHero:        "Hero",
	SectionTrouble:     "Problem statement",
	SectionFeatures:    "Features",
	SectionHowItWorks:  "How it works",
	SectionTestimonial: "Testimonials",
	SectionSocialProof: "Social proof",
	SectionPricing:     "Pricing",
	SectionCTA:         "Call to action",
	SectionFAQ:         "FAQ",
}

// SectionCategory groups section types for browsing.
type SectionCategory string

const (
	CategoryIntro      SectionCategory = "intro"
	CategoryValue      SectionCategory = "value"
	CategoryTrust      SectionCategory = "trust"
	CategoryConversion SectionCategory = "conversion"
)

// SectionCategories lists the section types belonging to each category.
var SectionCategories = map[SectionCategory][]SectionType{
	CategoryIntro:      {SectionHeader, SectionHero, SectionTrouble},
	CategoryValue:      {SectionFeatures, SectionHowItWorks},
	CategoryTrust:      {SectionTestimonial, SectionSocialProof, SectionFAQ},
	CategoryConversion: {SectionPricing, SectionCTA},
}

// Known reports whether s is one of the defined section types.
func (s SectionType) Known() bool {
	_, ok := sectionLabels[s]
	return ok
}

// Label returns a human readable name, falling back to the raw value.
func (s SectionType) Label() string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	return string(s)
}

// Category returns the category s belongs to, or "" for unknown types.
func (s SectionType) Category() SectionCategory {
	for c, types := range SectionCategories {
		for _, t := range types {
			if t == s {
				return c
			}
		}
	}
	return ""
}

// OrderIndex returns the position of s in SectionOrder, or len(SectionOrder)
// for types that are not part of the canonical order.
func (s SectionType) OrderIndex() int {
	for i, t := range SectionOrder {
		if t == s {
			return i
		}
	}
	return len(SectionOrder)
}

// Status tracks the review state of a template.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusNeedFix  Status = "need_fix"
)

// Valid reports whether s is one of the three review states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusNeedFix:
		return true
	}
	return false
}

// Format describes how a template's content is stored.
type Format string

const (
	// FormatJSON templates carry structured content that is normalized and
	// rendered by the section renderers.
	FormatJSON Format = "json"
	// FormatHTML templates carry a complete, sanitized HTML document.
	FormatHTML Format = "html"
)
