package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborview/concierge/config"
)

func newClearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted knowledge base",
		Long: `Removes the persisted vector store directory and the ingestion hash
registry, so the next ingest starts from scratch. In-memory stores have
nothing to clear.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cfg.Store.PersistPath == "" && cfg.Store.RegistryPath == "" {
				fmt.Fprintln(out, "Nothing persisted, nothing to clear.")
				return nil
			}

			if cfg.Store.PersistPath != "" {
				if err := os.RemoveAll(cfg.Store.PersistPath); err != nil {
					return fmt.Errorf("removing vector store: %w", err)
				}
				fmt.Fprintf(out, "Removed vector store at %s.\n", cfg.Store.PersistPath)
			}
			if cfg.Store.RegistryPath != "" {
				if err := os.Remove(cfg.Store.RegistryPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("removing hash registry: %w", err)
				}
				fmt.Fprintf(out, "Removed hash registry at %s.\n", cfg.Store.RegistryPath)
			}
			return nil
		},
	}
}
