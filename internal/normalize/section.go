package normalize

import "lpmanager/internal/models"

// Section is the canonical, renderer-facing shape of one template. The
// concrete type tells the renderer which fields exist.
type Section interface {
	Type() models.SectionType
}

// Hero is the top-of-page section.
type Hero struct {
	TitleLines   []string
	Subtitle     string
	CTALabel     string
	SecondaryCTA string
	Badges       []string
	ImageURL     string
}

// Feature is one entry of a Features section.
type Feature struct {
	Icon        string
	Name        string
	Description string
	Benefit     string
}

// Features lists product capabilities.
type Features struct {
	Title    string
	Subtitle string
	Items    []Feature
}

// Testimonial is one customer quote.
type Testimonial struct {
	Name        string
	Title       string
	Company     string
	Text        string
	Rating      int
	Achievement string
	Avatar      string
}

// Stars returns Rating repeated as star glyphs.
func (t Testimonial) Stars() []struct{} {
	return make([]struct{}, t.Rating)
}

// Testimonials lists customer quotes.
type Testimonials struct {
	Title    string
	Subtitle string
	Items    []Testimonial
}

// Step is one numbered step of a HowItWorks section.
type Step struct {
	Number      int
	Icon        string
	Title       string
	Description string
}

// HowItWorks lists the steps a customer goes through.
type HowItWorks struct {
	Title    string
	Subtitle string
	Steps    []Step
}

// SocialProof is a logo wall of company names.
type SocialProof struct {
	Title     string
	Companies []string
}

// QA is one question and its answer.
type QA struct {
	Question string
	Answer   string
}

// FAQ lists frequently asked questions.
type FAQ struct {
	Title    string
	Subtitle string
	Items    []QA
}

// Generic covers section types without a dedicated shape.
type Generic struct {
	Section    models.SectionType
	TitleLines []string
	Subtitle   string
	CTALabel   string
	Bullets    []string
}

func (Hero) Type() models.SectionType { return models.SectionHero }
func (Features) Type() models.SectionType { return models.SectionFeatures }
func (Testimonials) Type() models.SectionType { return models.SectionTestimonial }
func (HowItWorks) Type() models.SectionType { return models.SectionHowItWorks }
func (SocialProof) Type() models.SectionType { return models.SectionSocialProof }
func (FAQ) Type() models.SectionType { return models.SectionFAQ }
func (g Generic) Type() models.SectionType { return g.Section }

// Normalize extracts the canonical section for a record.
func Normalize(rec *models.TemplateRecord) Section {
	content := rec.Content
	switch rec.SectionType {
	case models.SectionHero:
		h := NormalizeHero(content)
		if h.ImageURL == "" {
			h.ImageURL = rec.Layout.ImageURL
		}
		return h
	case models.SectionFeatures:
		return NormalizeFeatures(content)
	case models.SectionTestimonial:
		return NormalizeTestimonials(content)
	case models.SectionHowItWorks:
		return NormalizeHowItWorks(content)
	case models.SectionSocialProof:
		return NormalizeSocialProof(content)
	case models.SectionFAQ:
		return NormalizeFAQ(content)
	}
	// Header, trouble, pricing, cta and unknown types share the generic shape.
	return NormalizeGeneric(rec.SectionType, content)
}
