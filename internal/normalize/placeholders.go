package normalize

// Placeholder copy shown when a template has no content of its own. The
// bracketed tokens mark text a copywriter still has to replace.

const (
	defaultHeroTitle        = "【メインキャッチコピー】"
	defaultHeroCTA          = "【CTAボタン】"
	defaultFeaturesTitle    = "主要機能"
	defaultTestimonialTitle = "お客様の声"
	defaultCustomerName     = "【お客様名】"
	defaultCompanyName      = "【企業名】"
	defaultRating           = 5
	defaultFeatureIcon      = "🔧"
	defaultStepIcon         = "🔢"
	defaultAvatar           = "👤"
	defaultSectionTitle     = "【セクションタイトル】"
)

var placeholderTestimonials = []Testimonial{
	{
		Name:        "【お客様A】",
		Title:       "【役職】",
		Company:     "【A社】",
		Text:        "導入により業務効率が大幅に向上しました。直感的な操作で、チーム全体がすぐに使いこなせるようになりました。",
		Rating:      5,
		Achievement: "業務効率40%向上",
		Avatar:      defaultAvatar,
	},
	{
		Name:        "【お客様B】",
		Title:       "【役職】",
		Company:     "【B社】",
		Text:        "以前は手作業で時間がかかっていた作業が、自動化により大幅に短縮されました。ROIも期待以上です。",
		Rating:      5,
		Achievement: "作業時間50%削減",
		Avatar:      defaultAvatar,
	},
	{
		Name:        "【お客様C】",
		Title:       "【役職】",
		Company:     "【C社】",
		Text:        "サポート体制も充実しており、導入から運用まで安心して進められました。",
		Rating:      5,
		Achievement: "導入コスト30%削減",
		Avatar:      defaultAvatar,
	},
}

var placeholderSteps = []Step{
	{Number: 1, Icon: "📝", Title: "【ステップ1】", Description: "【アクション1】を実行します。【詳細説明1】"},
	{Number: 2, Icon: "⚙️", Title: "【ステップ2】", Description: "【アクション2】により【効果2】を得られます。"},
	{Number: 3, Icon: "🚀", Title: "【ステップ3】", Description: "【最終結果】が完成し、すぐに【利用開始】できます。"},
}

var placeholderCompanies = []string{"【A社】", "【B社】", "【C社】"}

var placeholderQuestions = []QA{
	{
		Question: "【サービス名】の導入期間はどのくらいですか？",
		Answer:   "【導入期間】で導入完了します。【サポート内容】により、スムーズな導入をサポートいたします。",
	},
	{
		Question: "料金体系について教えてください",
		Answer:   "【料金体系説明】。詳細は料金ページをご確認いただくか、お気軽にお問い合わせください。",
	},
	{
		Question: "セキュリティ対策はどうなっていますか？",
		Answer:   "【セキュリティ対策】を実施しており、【認証・資格】を取得しています。お客様のデータは安全に保護されます。",
	},
}

func copyTestimonials() []Testimonial {
	return append([]Testimonial(nil), placeholderTestimonials...)
}
