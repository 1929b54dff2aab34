package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lpmanager/internal/sanitize"
)

func newCheckCommand() *cobra.Command {
	var (
		maxBytes  int
		writeFile string
	)
	cmd := &cobra.Command{
		Use:   "check <file.html>",
		Short: "Validate an HTML document and optionally write its sanitized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			doc := string(data)
			report, err := sanitize.Check(doc, maxBytes)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok (%d bytes)\n", args[0], report.Size)
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}

			if writeFile != "" {
				clean := sanitize.Document(doc)
				if err := os.WriteFile(writeFile, []byte(clean), 0o644); err != nil {
					return fmt.Errorf("write sanitized document: %w", err)
				}
				fmt.Fprintf(out, "sanitized document written to %s\n", writeFile)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxBytes, "max-bytes", sanitize.DefaultMaxBytes, "size limit in bytes")
	cmd.Flags().StringVarP(&writeFile, "write", "w", "", "write the sanitized document to this file")
	return cmd
}
