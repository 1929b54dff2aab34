package normalize

import (
	"fmt"

	"lpmanager/internal/models"
)

// NormalizeHowItWorks reads steps[]; strings become step descriptions.
func NormalizeHowItWorks(content map[string]any) HowItWorks {
	h := HowItWorks{
		Title:    getString(content, "title", ""),
		Subtitle: getString(content, "subtitle", ""),
	}
	for _, raw := range list(SafeGet(content, "steps", nil)) {
		n := len(h.Steps) + 1
		step := Step{Number: n, Icon: defaultStepIcon, Title: fmt.Sprintf("ステップ%d", n)}
		if obj := object(raw); obj != nil {
			step.Icon = iconOr(obj, defaultStepIcon)
			if s := firstString(obj, "title", "name"); s != "" {
				step.Title = s
			}
			step.Description = firstString(obj, "description", "text")
		} else if s := str(raw); s != "" {
			step.Description = s
		} else {
			continue
		}
		h.Steps = append(h.Steps, step)
	}
	if len(h.Steps) == 0 {
		h.Steps = append([]Step(nil), placeholderSteps...)
	}
	return h
}

// NormalizeSocialProof reads companies[] as names or {name} objects.
func NormalizeSocialProof(content map[string]any) SocialProof {
	s := SocialProof{Title: getString(content, "title", "")}
	for _, raw := range list(SafeGet(content, "companies", nil)) {
		name := str(raw)
		if name == "" {
			name = firstString(object(raw), "name", "company_name")
		}
		if name != "" {
			s.Companies = append(s.Companies, name)
		}
	}
	if len(s.Companies) == 0 {
		s.Companies = append([]string(nil), placeholderCompanies...)
	}
	return s
}

// NormalizeFAQ reads faqs[] (or questions[]) of question/answer pairs.
func NormalizeFAQ(content map[string]any) FAQ {
	f := FAQ{
		Title:    getString(content, "title", ""),
		Subtitle: getString(content, "subtitle", ""),
	}
	raws := list(SafeGet(content, "faqs", nil))
	if len(raws) == 0 {
		raws = list(SafeGet(content, "questions", nil))
	}
	for _, raw := range raws {
		obj := object(raw)
		q := firstString(obj, "question", "q")
		if q == "" {
			continue
		}
		f.Items = append(f.Items, QA{Question: q, Answer: firstString(obj, "answer", "a")})
	}
	if len(f.Items) == 0 {
		f.Items = append([]QA(nil), placeholderQuestions...)
	}
	return f
}

// NormalizeGeneric is used for sections without a dedicated layout.
func NormalizeGeneric(st models.SectionType, content map[string]any) Generic {
	g := Generic{
		Section:    st,
		TitleLines: Lines(getString(content, "title", defaultSectionTitle)),
		Subtitle:   getString(content, "subtitle", ""),
		CTALabel:   getString(content, "cta_label", ""),
	}
	if len(g.TitleLines) == 0 {
		g.TitleLines = []string{defaultSectionTitle}
	}
	for _, key := range []string{"bullets", "points", "problems", "items"} {
		for _, raw := range list(SafeGet(content, key, nil)) {
			s := str(raw)
			if s == "" {
				s = firstString(object(raw), "title", "name", "text", "description")
			}
			if s != "" {
				g.Bullets = append(g.Bullets, s)
			}
		}
		if len(g.Bullets) > 0 {
			break
		}
	}
	return g
}
