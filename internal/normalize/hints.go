package normalize

import "lpmanager/internal/models"

// Hints are the presentation values a record asks for. Empty fields mean
// "use the renderer default"; the renderer validates every value before it
// reaches a stylesheet.
type Hints struct {
	Primary    string
	Secondary  string
	Accent     string
	Text       string
	Background string
	Alignment  string
}

// HintsFor collects colours and alignment from a record. The record's own
// palette wins over layout values; content.layout_details.alignment wins
// over layout.alignment.
func HintsFor(rec *models.TemplateRecord) Hints {
	h := Hints{
		Primary:    rec.Colors.Primary,
		Secondary:  rec.Colors.Secondary,
		Accent:     rec.Colors.Accent,
		Text:       rec.Colors.Text,
		Background: rec.Colors.Background,
		Alignment:  getString(rec.Content, "layout_details.alignment", rec.Layout.Alignment),
	}
	if h.Background == "" {
		h.Background = rec.Layout.BackgroundColor
	}
	if h.Primary == "" {
		h.Primary = getString(rec.Content, "colors.primary", "")
	}
	switch h.Alignment {
	case "left", "center", "right":
	default:
		h.Alignment = "center"
	}
	return h
}
