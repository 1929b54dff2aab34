package prompt

import (
	"strings"

	"lpmanager/internal/models"
)

// sectionFields are the section specific keys of the JSON skeleton, in the
// shape the normalizer reads them.
var sectionFields = map[models.SectionType]string{
	models.SectionHero: `  "cta_buttons": [
    { "type": "primary", "label": "【CTAボタン】" },
    { "type": "secondary", "label": "【サブCTA】" }
  ],
  "trust_badges": [
    { "primary_text": "【実績】", "highlight": "【数値】" }
  ],`,
	models.SectionFeatures: `  "features": [
    { "icon": "📊", "name": "【機能名】", "description": "【機能説明】", "benefit": "【導入効果】" }
  ],`,
	models.SectionTestimonial: `  "testimonials": [
    { "customer_name": "【お客様名】", "customer_title": "【役職】", "company_name": "【企業名】", "testimonial_text": "【コメント】", "rating": 5, "key_achievement": "【成果】", "avatar": "👤" }
  ],`,
	models.SectionHowItWorks: `  "steps": [
    { "icon": "📝", "title": "【ステップ1】", "description": "【アクション説明】" }
  ],`,
	models.SectionSocialProof: `  "companies": ["【A社】", "【B社】", "【C社】"],`,
	models.SectionFAQ: `  "faqs": [
    { "question": "【よくある質問】", "answer": "【回答】" }
  ],`,
	models.SectionTrouble: `  "bullets": ["【課題1】", "【課題2】", "【課題3】"],`,
	models.SectionPricing: `  "bullets": ["【プラン特徴1】", "【プラン特徴2】"],`,
}

// Skeleton returns the example JSON object shown in the prompt for st.
func Skeleton(st models.SectionType) string {
	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString(`  "title": "【メインコピー】（\n で改行）",` + "\n")
	b.WriteString(`  "subtitle": "【サブコピー】",` + "\n")
	if f, ok := sectionFields[st]; ok {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString(`  "cta_label": "【CTAボタン】",
  "colors": {
    "primary": "#2563EB",
    "secondary": "#64748B",
    "background": "#FFFFFF"
  },
  "layout_details": {
    "alignment": "center"
  }
}`)
	return b.String()
}
