package normalize

// NormalizeHero extracts the hero fields. The headline comes from title or
// main_title.example; the call to action prefers the primary entry of
// cta_buttons over a flat cta_label; badges come from trust_badges, or from
// a flat features list when no trust badges are given.
func NormalizeHero(content map[string]any) Hero {
	title := getString(content, "title", "")
	if title == "" {
		title = getString(content, "main_title.example", defaultHeroTitle)
	}

	h := Hero{
		TitleLines: Lines(title),
		Subtitle:   getString(content, "subtitle", ""),
		ImageURL:   getString(content, "image_url", ""),
	}
	if len(h.TitleLines) == 0 {
		h.TitleLines = []string{defaultHeroTitle}
	}

	buttons := list(SafeGet(content, "cta_buttons", nil))
	h.CTALabel = buttonLabel(buttons, "primary")
	if h.CTALabel == "" {
		h.CTALabel = getString(content, "cta_label", "")
	}
	if h.CTALabel == "" {
		h.CTALabel = buttonLabel(buttons, "")
	}
	if h.CTALabel == "" {
		h.CTALabel = defaultHeroCTA
	}
	if secondary := buttonLabel(buttons, "secondary"); secondary != h.CTALabel {
		h.SecondaryCTA = secondary
	}

	h.Badges = heroBadges(content)
	return h
}

// buttonLabel returns the label of the first button whose type matches kind.
// An empty kind matches any button.
func buttonLabel(buttons []any, kind string) string {
	for _, b := range buttons {
		obj := object(b)
		if obj == nil {
			continue
		}
		if kind != "" && str(obj["type"]) != kind {
			continue
		}
		if label := firstString(obj, "label", "text"); label != "" {
			return label
		}
	}
	return ""
}

func heroBadges(content map[string]any) []string {
	var badges []string
	for _, b := range list(SafeGet(content, "trust_badges", nil)) {
		if s := str(b); s != "" {
			badges = append(badges, flatten(s))
			continue
		}
		obj := object(b)
		primary := flatten(str(obj["primary_text"]))
		highlight := str(obj["highlight"])
		if primary != "" && highlight != "" {
			badges = append(badges, primary+" "+highlight)
		}
	}
	// Trust badges without a usable item fall back to features.
	if len(badges) > 0 {
		return badges
	}

	for _, f := range list(SafeGet(content, "features", nil)) {
		if s := str(f); s != "" {
			badges = append(badges, s)
			continue
		}
		if s := firstString(object(f), "name", "title", "feature_name"); s != "" {
			badges = append(badges, s)
		}
	}
	return badges
}
