package normalize

// NormalizeFeatures reads either the nested feature_categories[].features[]
// shape or a flat features list. The nested shape wins when it yields at
// least one named feature.
func NormalizeFeatures(content map[string]any) Features {
	f := Features{
		Title:    getString(content, "title", defaultFeaturesTitle),
		Subtitle: getString(content, "subtitle", ""),
	}

	for _, cat := range list(SafeGet(content, "feature_categories", nil)) {
		for _, raw := range list(object(cat)["features"]) {
			obj := object(raw)
			if obj == nil {
				continue
			}
			name := str(obj["feature_name"])
			if name == "" {
				continue
			}
			f.Items = append(f.Items, Feature{
				Icon:        iconOr(obj, defaultFeatureIcon),
				Name:        name,
				Description: str(obj["feature_description"]),
				Benefit:     str(obj["benefit"]),
			})
		}
	}
	if len(f.Items) > 0 {
		return f
	}

	for _, raw := range list(SafeGet(content, "features", nil)) {
		if s, ok := raw.(string); ok {
			f.Items = append(f.Items, Feature{Icon: defaultFeatureIcon, Name: str(s)})
			continue
		}
		obj := object(raw)
		if obj == nil {
			continue
		}
		f.Items = append(f.Items, Feature{
			Icon:        iconOr(obj, defaultFeatureIcon),
			Name:        firstString(obj, "name", "feature_name", "title"),
			Description: firstString(obj, "description", "feature_description"),
			Benefit:     str(obj["benefit"]),
		})
	}
	return f
}

func iconOr(obj map[string]any, def string) string {
	if s := str(obj["icon"]); s != "" {
		return s
	}
	return def
}
