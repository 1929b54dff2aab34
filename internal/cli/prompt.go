package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lpmanager/internal/draft"
	"lpmanager/internal/models"
	"lpmanager/internal/prompt"
	"lpmanager/internal/sanitize"
)

func newPromptCommand() *cobra.Command {
	var (
		info     draft.BasicInfo
		section  string
		format   string
		maxBytes int
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the LLM prompt for a new template",
		Long: `Prints the prompt the manager would hand to an LLM for a new template,
ready to paste into a chat.

Example:
  lpctl prompt --section hero --name "SaaS hero" --source-url https://example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info.SectionType = models.SectionType(section)
			info.Format = models.Format(format)
			rec, err := draft.New(info)
			if err != nil {
				return err
			}
			text, err := prompt.For(rec, maxBytes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "section type (required)")
	cmd.Flags().StringVar(&info.DisplayName, "name", "", "template name (required)")
	cmd.Flags().StringVar(&info.SourceURL, "source-url", "", "page the template is modelled on")
	cmd.Flags().StringVar(&info.Description, "description", "", "what the section should say")
	cmd.Flags().StringVar(&info.Tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&format, "format", string(models.FormatJSON), "answer format: json or html")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", sanitize.DefaultMaxBytes, "size limit quoted in html prompts")
	_ = cmd.MarkFlagRequired("section")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
