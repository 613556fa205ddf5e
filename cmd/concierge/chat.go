package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Hold a conversation against the knowledge base",
		Long: `Starts an interactive session. Follow-up questions are rewritten into
standalone ones using the conversation so far. Type /clear to restart
the conversation and /quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := newSystem(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Ask me anything about your stay. /clear restarts, /quit exits.")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())

				switch line {
				case "":
					continue
				case "/quit", "/exit":
					return nil
				case "/clear":
					sys.Engine.History().Clear()
					fmt.Fprintln(out, "Conversation cleared.")
					continue
				}

				reply, err := sys.Engine.ChatStream(cmd.Context(), line)
				if err != nil {
					fmt.Fprintf(out, "Something went wrong: %v\n", err)
					continue
				}
				if reply.Tokens != nil {
					for token := range reply.Tokens {
						fmt.Fprint(out, token)
					}
					fmt.Fprintln(out)
					continue
				}
				fmt.Fprintln(out, reply.String())
			}
		},
	}
}
