package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIngestCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Load documents into the knowledge base",
		Long: `Reads markdown, plain text, JSON Q&A and PDF files (directories are
walked recursively), splits them into chunks, embeds the chunks and
stores them in the vector store. Unchanged documents are skipped when a
hash registry is configured.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := newSystem(flags)
			if err != nil {
				return err
			}

			stats, err := sys.Ingest(cmd.Context(), args)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Ingested %d document(s) into %d chunk(s), skipped %d unchanged.\n",
				stats.Documents-stats.Skipped, stats.Chunks, stats.Skipped)
			return nil
		},
	}
}
