package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petasbytes/stock-agent/agent"
	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/config"
)

func newChatCmd(options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(options.ConfigPath)
			if err != nil {
				return err
			}

			a, err := buildStack(cfg, console.New(), nil)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type queryResult struct {
	answer string
	err    error
}

// runChat is the interactive loop. Lines typed while a clarification is
// pending answer that clarification; all other lines start a new query.
func runChat(ctx context.Context, a *agent.Agent, in io.Reader, out io.Writer) error {
	a.SetOutputSink(func(line string) {
		fmt.Fprintln(out, line)
	})

	scanner := bufio.NewScanner(in)

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

	fmt.Fprintln(out, "Stock agent chat (Ctrl-C to quit)")

	for {
		fmt.Fprint(out, "\u001b[94mYou\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			return nil
		case line, ok = <-inputCh:
			if !ok {
				return scanner.Err()
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		resCh := make(chan queryResult, 1)
		go func(query string) {
			answer, err := a.ProcessQuery(ctx, query)
			resCh <- queryResult{answer, err}
		}(line)

	waiting:
		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "\nExiting...")
				return nil
			case input, ok := <-inputCh:
				if !ok {
					return scanner.Err()
				}
				if a.AwaitingClarification() {
					a.ProvideAnswer(input)
				} else {
					fmt.Fprintln(out, "(query in progress; input dropped)")
				}
			case res := <-resCh:
				if res.err != nil {
					fmt.Fprintf(out, "error: %v\n", res.err)
				} else {
					fmt.Fprintf(out, "\u001b[93mAgent\u001b[0m: %s\n", res.answer)
				}
				break waiting
			}
		}
	}
}
