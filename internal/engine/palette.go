package engine

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"lpmanager/internal/models"
	"lpmanager/internal/normalize"
	"lpmanager/internal/sanitize"
)

// DefaultBrandColor is used when neither the record nor the caller picks a
// primary colour.
const DefaultBrandColor = "#2563EB"

const (
	defaultSecondary = "#64748B"
	defaultText      = "#1F2937"
	defaultMuted     = "#6B7280"
)

var sectionBackgrounds = map[models.SectionType]string{
	models.SectionHero:        "#F8FAFC",
	models.SectionTestimonial: "#F9FAFB",
	models.SectionSocialProof: "#F9FAFB",
	models.SectionCTA:         "#F8FAFC",
}

// Palette holds the stylesheet values of one rendered section. Every field
// is either a validated colour or computed here, which is what makes it safe
// to mark them as template.CSS.
type Palette struct {
	Primary            template.CSS
	PrimaryTint        template.CSS
	PrimaryGlow        template.CSS
	Secondary          template.CSS
	Accent             template.CSS
	Text               template.CSS
	Muted              template.CSS
	Background         template.CSS
	BackgroundGradient template.CSS
	Align              template.CSS
	Justify            template.CSS
}

// NewPalette resolves a palette for rec. The record's own colours win; the
// brand colour fills in the primary colour otherwise.
func NewPalette(rec *models.TemplateRecord, brand string) Palette {
	h := normalize.HintsFor(rec)

	primary := pick(h.Primary, brand, DefaultBrandColor)
	background := pick(h.Background, sectionBackgrounds[rec.SectionType], "#FFFFFF")

	p := Palette{
		Primary:     template.CSS(primary),
		PrimaryTint: template.CSS(tint(primary, 0.1)),
		PrimaryGlow: template.CSS(tint(primary, 0.3)),
		Secondary:   template.CSS(pick(h.Secondary, defaultSecondary)),
		Accent:      template.CSS(pick(h.Accent, primary)),
		Text:        template.CSS(pick(h.Text, defaultText)),
		Muted:       template.CSS(defaultMuted),
		Background:  template.CSS(background),
		Align:       template.CSS(h.Alignment),
	}
	p.BackgroundGradient = template.CSS(fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", background, tint(primary, 0.08)))

	switch h.Alignment {
	case "left":
		p.Justify = "flex-start"
	case "right":
		p.Justify = "flex-end"
	default:
		p.Justify = "center"
	}
	return p
}

// pick returns the first candidate that is a safe CSS colour.
func pick(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" && sanitize.IsCSSColor(c) {
			return c
		}
	}
	return ""
}

// tint turns a hex colour into a translucent rgba() value. Other colour
// forms are returned unchanged.
func tint(color string, alpha float64) string {
	if !strings.HasPrefix(color, "#") {
		return color
	}
	hex := color[1:]
	switch len(hex) {
	case 3, 4:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
		hex = hex[:6]
	default:
		return color
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", v>>16&0xFF, v>>8&0xFF, v&0xFF, alpha)
}
