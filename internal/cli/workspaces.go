package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lpmanager/internal/cache"
	"lpmanager/internal/config"
)

func newWorkspacesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Manage session workspaces persisted in Valkey",
	}
	cmd.AddCommand(newWorkspacesClearCommand())
	return cmd
}

func newWorkspacesClearCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every persisted workspace",
		Long: "Delete every workspace the server persisted in Valkey. Connection\n" +
			"settings are read from the same environment as the server.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear workspaces without --yes")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.ValkeyEnabled() {
				return errors.New("VALKEY_HOST is not set")
			}
			client, err := cache.Open(cmd.Context(), cache.Options{
				Host:     cfg.ValkeyHost,
				Port:     cfg.ValkeyPort,
				Password: cfg.ValkeyPassword,
				DB:       cfg.ValkeyDB,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := cache.NewWorkspaceCache(client, 0).Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d workspaces\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
