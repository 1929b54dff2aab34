package engine

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lpmanager/internal/models"
)

var (
	// ErrNotApproved is returned when a page would include a record that
	// has not been approved.
	ErrNotApproved = errors.New("template is not approved")
	// ErrNoSections is returned when a page has nothing to assemble.
	ErrNoSections = errors.New("no sections selected")
)

// PageOptions configure AssemblePage.
type PageOptions struct {
	Title string
	Options
}

type pageSection struct {
	Type models.SectionType
	ID   string
	Body template.HTML
}

type pageView struct {
	Title       string
	Stylesheets []string
	Styles      []template.CSS
	Sections    []pageSection
}

// AssemblePage stacks approved records into one landing page. Records are
// ordered by section type, each section's body and stylesheets are lifted
// out of its own document, and sections are divided by separators.
func (e *Engine) AssemblePage(records []models.TemplateRecord, opts PageOptions) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoSections
	}
	for i := range records {
		if !records[i].IsApproved() {
			return nil, fmt.Errorf("assemble page: %w: %s (%s)", ErrNotApproved, records[i].DisplayName, records[i].ID)
		}
	}

	ordered := append([]models.TemplateRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SectionType.OrderIndex() < ordered[j].SectionType.OrderIndex()
	})

	view := pageView{Title: opts.Title}
	if view.Title == "" {
		view.Title = "Landing Page"
	}
	seenSheets := make(map[string]bool)
	seenStyles := make(map[string]bool)

	for i := range ordered {
		rec := &ordered[i]
		doc, err := e.Render(rec, opts.Options)
		if err != nil {
			return nil, fmt.Errorf("assemble page: %w", err)
		}
		parts, err := splitDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("assemble page: %s: %w", rec.ID, err)
		}
		for _, href := range parts.stylesheets {
			if !seenSheets[href] {
				seenSheets[href] = true
				view.Stylesheets = append(view.Stylesheets, href)
			}
		}
		for _, css := range parts.styles {
			if !seenStyles[css] {
				seenStyles[css] = true
				view.Styles = append(view.Styles, template.CSS(css))
			}
		}
		view.Sections = append(view.Sections, pageSection{
			Type: rec.SectionType,
			ID:   rec.ID,
			Body: template.HTML(parts.body),
		})
	}

	var buf bytes.Buffer
	if err := e.set.ExecuteTemplate(&buf, "page", view); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

type documentParts struct {
	stylesheets []string
	styles      []string
	body        string
}

// splitDocument extracts head stylesheets, style blocks and the body markup
// of a rendered section document.
func splitDocument(doc []byte) (documentParts, error) {
	var parts documentParts
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return parts, fmt.Errorf("parse section document: %w", err)
	}

	d.Find(`head link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.HasPrefix(href, "https://") {
			parts.stylesheets = append(parts.stylesheets, href)
		}
	})
	d.Find("head style").Each(func(_ int, s *goquery.Selection) {
		if css := strings.TrimSpace(s.Text()); css != "" {
			parts.styles = append(parts.styles, css)
		}
	})

	body, err := d.Find("body").Html()
	if err != nil {
		return parts, fmt.Errorf("extract section body: %w", err)
	}
	parts.body = strings.TrimSpace(body)
	return parts, nil
}
