package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lpmanager/internal/engine"
	"lpmanager/internal/models"
	"lpmanager/internal/sanitize"
)

func newAssembleCommand() *cobra.Command {
	var (
		outFile    string
		title      string
		brandColor string
		sections   []string
	)
	cmd := &cobra.Command{
		Use:   "assemble <export.json>",
		Short: "Stack approved records into one landing page",
		Long: `Assembles approved records of an export file into one landing page.
Each --section picks a record for a section type; without any, the first
approved record of every section type is used.

Example:
  lpctl assemble export.json --out page.html --section hero=3f2a... --section cta=9b1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if brandColor != "" && !sanitize.IsCSSColor(brandColor) {
				return fmt.Errorf("--brand-color %q is not a CSS colour", brandColor)
			}
			records, err := loadExport(args[0])
			if err != nil {
				return err
			}
			picked, err := pickSections(records, sections)
			if err != nil {
				return err
			}
			eng, err := engine.New()
			if err != nil {
				return err
			}
			page, err := eng.AssemblePage(picked, engine.PageOptions{
				Title:   title,
				Options: engine.Options{BrandColor: brandColor},
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, page, 0o644); err != nil {
				return fmt.Errorf("write page: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assembled %d section(s) into %s\n", len(picked), outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "landing-page.html", "output file")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&brandColor, "brand-color", "", "primary colour for records without one")
	cmd.Flags().StringArrayVar(&sections, "section", nil, "section selection as type=template_id (repeatable)")
	return cmd
}

// pickSections resolves type=id selections against records. With no
// selections the first approved record of each section type is used.
func pickSections(records []models.TemplateRecord, selections []string) ([]models.TemplateRecord, error) {
	if len(selections) == 0 {
		var picked []models.TemplateRecord
		seen := make(map[models.SectionType]bool)
		for _, rec := range records {
			if rec.IsApproved() && !seen[rec.SectionType] {
				seen[rec.SectionType] = true
				picked = append(picked, rec)
			}
		}
		if len(picked) == 0 {
			return nil, fmt.Errorf("export has no approved records: %w", engine.ErrNoSections)
		}
		return picked, nil
	}

	byID := make(map[string]models.TemplateRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	picked := make([]models.TemplateRecord, 0, len(selections))
	seen := make(map[models.SectionType]bool)
	for _, sel := range selections {
		typ, id, ok := strings.Cut(sel, "=")
		st := models.SectionType(strings.TrimSpace(typ))
		id = strings.TrimSpace(id)
		if !ok || id == "" || !st.Known() {
			return nil, fmt.Errorf("invalid --section %q, want type=template_id", sel)
		}
		if seen[st] {
			return nil, fmt.Errorf("section %s selected twice", st)
		}
		seen[st] = true
		rec, found := byID[id]
		if !found {
			return nil, fmt.Errorf("section %s: template %s not in export", st, id)
		}
		if rec.SectionType != st {
			return nil, fmt.Errorf("template %s is a %s section, not %s", id, rec.SectionType, st)
		}
		picked = append(picked, rec)
	}
	return picked, nil
}
