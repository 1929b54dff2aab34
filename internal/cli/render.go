package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lpmanager/internal/engine"
	"lpmanager/internal/sanitize"
	"lpmanager/internal/slug"
)

func newRenderCommand() *cobra.Command {
	var (
		outDir     string
		brandColor string
		rich       bool
	)
	cmd := &cobra.Command{
		Use:   "render <export.json>",
		Short: "Render every record of an export file to its own HTML document",
		Long: `Renders each record of an export file to a standalone HTML document.
Records that fail to render produce a short notice document instead, so one
broken record never stops the run.

Example:
  lpctl render lp_templates_20260101_120000.json --out previews`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if brandColor != "" && !sanitize.IsCSSColor(brandColor) {
				return fmt.Errorf("--brand-color %q is not a CSS colour", brandColor)
			}
			records, err := loadExport(args[0])
			if err != nil {
				return err
			}
			eng, err := engine.New()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			opts := engine.Options{BrandColor: brandColor, RichText: rich}
			used := make(map[string]int)
			for i := range records {
				rec := &records[i]
				doc := eng.SafeRender(rec, opts)

				name := slug.Filename(rec.DisplayName, "template-"+rec.ID, ".html")
				if n := used[name]; n > 0 {
					name = fmt.Sprintf("%s-%d.html", name[:len(name)-len(".html")], n+1)
				}
				used[name]++

				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, doc, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.ID, path)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "rendered %d record(s) to %s\n", len(records), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "previews", "output directory")
	cmd.Flags().StringVar(&brandColor, "brand-color", "", "primary colour for records without one")
	cmd.Flags().BoolVar(&rich, "rich", false, "allow basic formatting tags in text fields")
	return cmd
}
