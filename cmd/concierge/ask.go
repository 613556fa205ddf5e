package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(flags *rootFlags) *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question against the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := newSystem(flags)
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if stream {
				reply, err := sys.Engine.ChatStream(cmd.Context(), question)
				if err != nil {
					return err
				}
				if reply.Tokens != nil {
					for token := range reply.Tokens {
						fmt.Fprint(out, token)
					}
					fmt.Fprintln(out)
					return nil
				}
				fmt.Fprintln(out, reply.String())
				return nil
			}

			reply, err := sys.Engine.Chat(cmd.Context(), question)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, reply.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "stream the answer token by token")
	return cmd
}
