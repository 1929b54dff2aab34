package ai

import "lpmanager/internal/models"

const (
	jsonSystemPrompt = "You turn landing page references into reusable section templates. " +
		"Answer with a single JSON object and nothing else. " +
		"Replace proper nouns with bracketed placeholder tokens such as 【企業名】."
	htmlSystemPrompt = "You turn landing page references into reusable section templates. " +
		"Answer with one complete HTML document using only HTML and CSS. " +
		"Never use script tags, event handler attributes or base64 images."
)

// SystemPrompt returns the system prompt for a draft format.
func SystemPrompt(format models.Format) string {
	if format == models.FormatHTML {
		return htmlSystemPrompt
	}
	return jsonSystemPrompt
}
