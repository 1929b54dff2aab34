package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lpmanager/internal/draft"
	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
)

// Validation limits for request fields.
const (
	maxTemplateNameLen  = 200
	maxDescriptionLen   = 5_000
	maxTagsLen          = 500
	maxReviewCommentLen = 5_000
	maxPageTitleLen     = 300
	maxPageFieldLen     = 500
	maxSnapshotNameLen  = 200
)

// validateBasicInfo checks draft basic info and returns the first error found.
func validateBasicInfo(info *draft.BasicInfo) string {
	name := strings.TrimSpace(info.DisplayName)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(info.Description) > maxDescriptionLen {
		return "Description is too long (max 5,000 characters)."
	}
	if utf8.RuneCountInString(info.Tags) > maxTagsLen {
		return "Tags are too long (max 500 characters)."
	}
	return ""
}

// validatePatch checks the fields of a template patch that the store
// accepts without question.
func validatePatch(p *models.TemplatePatch) string {
	if p.DisplayName != nil {
		name := strings.TrimSpace(*p.DisplayName)
		if name == "" {
			return "Template name cannot be empty."
		}
		if utf8.RuneCountInString(name) > maxTemplateNameLen {
			return "Template name is too long (max 200 characters)."
		}
	}
	if p.SectionType != nil && !p.SectionType.Known() {
		return fmt.Sprintf("Unknown section type %q.", *p.SectionType)
	}
	if p.Format != nil && *p.Format != models.FormatJSON && *p.Format != models.FormatHTML {
		return fmt.Sprintf("Unknown format %q.", *p.Format)
	}
	if p.Metadata != nil && utf8.RuneCountInString(p.Metadata.ReviewComment) > maxReviewCommentLen {
		return "Review comment is too long (max 5,000 characters)."
	}
	return ""
}

// validateReviewComment checks the optional comment sent with a status change.
func validateReviewComment(comment string) string {
	if utf8.RuneCountInString(comment) > maxReviewCommentLen {
		return "Review comment is too long (max 5,000 characters)."
	}
	return ""
}

// validatePageConfig checks a page assembly request.
func validatePageConfig(cfg *models.PageConfig) string {
	if utf8.RuneCountInString(cfg.Title) > maxPageTitleLen {
		return "Page title is too long (max 300 characters)."
	}
	for _, v := range []string{cfg.PageType, cfg.Target, cfg.Tone} {
		if utf8.RuneCountInString(v) > maxPageFieldLen {
			return "Page settings are too long (max 500 characters each)."
		}
	}
	if cfg.BrandColor != "" && !sanitize.IsCSSColor(cfg.BrandColor) {
		return fmt.Sprintf("Brand color %q is not a valid CSS color.", cfg.BrandColor)
	}
	if len(cfg.Sections) == 0 {
		return "Select at least one section."
	}
	for st, id := range cfg.Sections {
		if !st.Known() {
			return fmt.Sprintf("Unknown section type %q.", st)
		}
		if strings.TrimSpace(id) == "" {
			return fmt.Sprintf("No template selected for section %q.", st)
		}
	}
	return ""
}

// validateSnapshotName checks a snapshot name.
func validateSnapshotName(name string) string {
	if name == "" {
		return "Snapshot name is required."
	}
	if utf8.RuneCountInString(name) > maxSnapshotNameLen {
		return "Snapshot name is too long (max 200 characters)."
	}
	return ""
}
