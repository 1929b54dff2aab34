// Package cli implements lpctl, the offline companion of the template
// manager. Most commands work on export files and HTML documents on disk;
// only "workspaces" talks to a backend.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lpmanager/internal/models"
	"lpmanager/internal/store"
)

// NewRootCommand builds the lpctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lpctl",
		Short:         "Work with landing page template exports offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newRenderCommand())
	root.AddCommand(newAssembleCommand())
	root.AddCommand(newCheckCommand())
	root.AddCommand(newPromptCommand())
	root.AddCommand(newWorkspacesCommand())
	return root
}

// loadExport reads and validates an export document.
func loadExport(path string) ([]models.TemplateRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	records, err := store.ParseExport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
