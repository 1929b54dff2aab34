package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"lpmanager/internal/models"
)

func draftRecord() *models.TemplateRecord {
	return &models.TemplateRecord{
		DisplayName: "Acme hero",
		SectionType: models.SectionHero,
		Metadata: models.Metadata{
			SourceURL:   "https://acme.example.com",
			Description: "Dark gradient, two CTAs",
			Tags:        []string{"saas", "dark"},
		},
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	rec := draftRecord()
	first, err := Build(rec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(rec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if first != second {
		t.Error("Build must return the same prompt for the same draft")
	}

	for _, want := range []string{
		"テンプレート名: Acme hero",
		"セクション種別: hero",
		"参照URL: https://acme.example.com",
		"説明: Dark gradient, two CTAs",
		"タグ: saas, dark",
		`"cta_buttons"`,
		"```json",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildOmitsEmptyFields(t *testing.T) {
	rec := &models.TemplateRecord{DisplayName: "Plain", SectionType: models.SectionFAQ}
	p, err := Build(rec)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, unwanted := range []string{"参照URL", "説明:", "タグ"} {
		if strings.Contains(p, unwanted) {
			t.Errorf("prompt should omit %q when empty", unwanted)
		}
	}
}

func TestSkeletonIsValidJSON(t *testing.T) {
	types := append([]models.SectionType{"unknown"}, models.SectionOrder...)
	for _, st := range types {
		t.Run(string(st), func(t *testing.T) {
			var obj map[string]any
			if err := json.Unmarshal([]byte(Skeleton(st)), &obj); err != nil {
				t.Fatalf("skeleton for %s is not valid JSON: %v", st, err)
			}
			if _, ok := obj["title"]; !ok {
				t.Error("skeleton missing title")
			}
		})
	}
}

func TestSkeletonSectionKeys(t *testing.T) {
	tests := map[models.SectionType]string{
		models.SectionFeatures:    `"features"`,
		models.SectionTestimonial: `"testimonials"`,
		models.SectionHowItWorks:  `"steps"`,
		models.SectionSocialProof: `"companies"`,
		models.SectionFAQ:         `"faqs"`,
	}
	for st, key := range tests {
		if !strings.Contains(Skeleton(st), key) {
			t.Errorf("Skeleton(%s) missing %s", st, key)
		}
	}
}

func TestBuildHTML(t *testing.T) {
	rec := draftRecord()
	p, err := BuildHTML(rec, 0)
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "base64", "<script>", "1024KB", "<title>Acme hero</title>"} {
		if !strings.Contains(p, want) {
			t.Errorf("html prompt missing %q", want)
		}
	}

	p, err = BuildHTML(rec, 512*1024)
	if err != nil {
		t.Fatalf("BuildHTML: %v", err)
	}
	if !strings.Contains(p, "512KB") {
		t.Error("custom size limit not reflected in prompt")
	}
}

func TestFor(t *testing.T) {
	rec := draftRecord()
	p, _ := For(rec, 0)
	if !strings.Contains(p, "```json") {
		t.Error("json-format draft should get the JSON prompt")
	}
	rec.Format = models.FormatHTML
	p, _ = For(rec, 0)
	if !strings.Contains(p, "```html") {
		t.Error("html-format draft should get the HTML prompt")
	}
}
