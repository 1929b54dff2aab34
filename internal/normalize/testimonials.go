package normalize

// NormalizeTestimonials resolves the field aliases LLMs tend to produce and
// substitutes three placeholder quotes when the list is absent or empty.
func NormalizeTestimonials(content map[string]any) Testimonials {
	t := Testimonials{
		Title:    getString(content, "title", defaultTestimonialTitle),
		Subtitle: getString(content, "subtitle", ""),
	}

	for _, raw := range list(SafeGet(content, "testimonials", nil)) {
		obj := object(raw)
		if obj == nil {
			continue
		}
		item := Testimonial{
			Name:        firstString(obj, "customer_name", "name"),
			Title:       firstString(obj, "customer_title", "title", "role"),
			Company:     firstString(obj, "company_name", "company"),
			Text:        firstString(obj, "testimonial_text", "text", "comment", "quote"),
			Rating:      rating(obj["rating"]),
			Achievement: firstString(obj, "key_achievement", "achievement"),
			Avatar:      firstString(obj, "avatar"),
		}
		if item.Name == "" {
			item.Name = defaultCustomerName
		}
		if item.Company == "" {
			item.Company = defaultCompanyName
		}
		if item.Avatar == "" {
			item.Avatar = defaultAvatar
		}
		t.Items = append(t.Items, item)
	}

	if len(t.Items) == 0 {
		t.Items = copyTestimonials()
	}
	return t
}

func rating(v any) int {
	n, ok := intValue(v)
	if !ok {
		return defaultRating
	}
	return min(max(n, 1), 5)
}
