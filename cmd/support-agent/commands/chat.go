package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent"
	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/observers"
)

var (
	chatEmail   string
	chatMessage string
	chatTrace   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the support agent from the terminal",
	Long: `chat runs the support agent for one user identified by --email.

With --message the agent answers once and exits; without it an
interactive loop starts. Type exit, quit or q (or press Ctrl-D /
Ctrl-C) to leave the loop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.SetContext(ctx)

		orch, cleanup, err := buildOrchestrator(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if chatMessage != "" {
			return askOnce(cmd, orch, chatEmail, chatMessage)
		}
		return chatLoop(cmd, orch, chatEmail)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatEmail, "email", "", "customer email the conversation runs as (required)")
	chatCmd.Flags().StringVar(&chatMessage, "message", "", "one-shot question; omit for an interactive session")
	chatCmd.Flags().BoolVar(&chatTrace, "trace", false, "print the step trace after each answer")
	_ = chatCmd.MarkFlagRequired("email")
}

func askOnce(cmd *cobra.Command, orch *agent.Orchestrator, email, message string) error {
	answer, trace, err := orch.Run(cmd.Context(), "", email, message)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	printTrace(cmd, trace)
	return nil
}

func chatLoop(cmd *cobra.Command, orch *agent.Orchestrator, email string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Support chat for %s. Type 'exit' to leave.\n", email)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit", "q":
			return nil
		}

		answer, trace, err := orch.Run(cmd.Context(), "", email, line)
		if err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, answer)
		printTrace(cmd, trace)
	}
}

func printTrace(cmd *cobra.Command, trace []observers.TraceEvent) {
	if !chatTrace || len(trace) == 0 {
		return
	}
	b, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "--- trace (%d events) ---\n%s\n", len(trace), b)
}
