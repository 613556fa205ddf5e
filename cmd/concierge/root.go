package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	concierge "github.com/harborview/concierge"
	"github.com/harborview/concierge/config"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "concierge",
		Short: "Retrieval-augmented FAQ assistant for guest questions",
		Long: `concierge answers guest questions from an ingested knowledge base of
FAQ files, guides and policies. Ingest your documents once, then ask
one-off questions or hold a conversation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "config.yaml",
		"path to the configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"enable debug logging")

	cmd.AddCommand(
		newIngestCmd(flags),
		newAskCmd(flags),
		newChatCmd(flags),
		newClearCmd(flags),
	)
	return cmd
}

// newSystem builds the pipeline from the config file named by the root
// flags.
func newSystem(flags *rootFlags) (*concierge.System, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return concierge.NewSystem(cfg, logger)
}
