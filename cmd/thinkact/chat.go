package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/thinkact"
	"github.com/hupe1980/thinkact/config"
	"github.com/hupe1980/thinkact/console"
	"github.com/hupe1980/thinkact/core"
)

const (
	chatPrompt     = ">> "
	showMemoryCmd  = "::mem"
	configLoadHint = "set THINKACT_API_KEY or pass --config"
)

var quitTokens = map[string]bool{"exit": true, "q": true, "quit()": true, "quit": true}

// chatAgent is the part of *agent.Agent the REPL drives.
type chatAgent interface {
	ReceiveMessage(msg core.Message)
	ThinkAndAct(ctx context.Context) error
	FullMemory() []core.Message
}

func newChatCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Type a message and press enter. An empty line lets the agent think again.
"::mem" prints the conversation memory; exit, quit, quit() or q ends the
session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("%w (%s)", err, configLoadHint)
			}

			out := cmd.OutOrStdout()

			a, err := thinkact.NewAgent(cmd.Context(), cfg, func(o *thinkact.Options) {
				o.Tools = demoTools()
				o.Output = console.NewStreamWriter(out)
			})
			if err != nil {
				return err
			}

			return runChat(cmd.Context(), a, cmd.InOrStdin(), out)
		},
	}
}

// runChat reads lines from in until EOF or a quit token. Transport errors
// are reported and the session continues.
func runChat(ctx context.Context, a chatAgent, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, chatPrompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())

		if quitTokens[line] {
			return nil
		}

		if line == showMemoryCmd {
			fmt.Fprint(out, console.RenderMemory(a.FullMemory()))
			continue
		}

		if line != "" {
			a.ReceiveMessage(core.NewUserMessage(line))
		}

		if err := a.ThinkAndAct(ctx); err != nil {
			fmt.Fprintln(out, console.Error(err))
			continue
		}
		fmt.Fprintln(out)
	}
}
