package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/etnz/carteira/agent"
	"github.com/google/subcommands"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	year int
}

// Name returns the name of the command.
func (*assistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*assistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*assistCmd) Usage() string {
	return `cart assist [-year <year>] [<prompt>]

  Starts an interactive session with the AI assistant. The assistant can read
  the portfolio, the tax report and the dividends, and search the web for
  market information. Requires GEMINI_API_KEY.
`
}

// SetFlags sets the flags for the command.
func (p *assistCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.year, "year", today().Year(), "Default tax year of the assistant.")
}

// Execute executes the command.
func (p *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	client, err := newAIClient(ctx, newLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	rl, err := readline.New("> ")
	if err != nil {
		return fail("cannot open terminal: %v", err)
	}
	defer rl.Close()

	trader := agent.NewTrader()
	accountant := agent.NewAccountant(agent.Books{Snapshot: s, TaxYear: p.year, Today: today()})
	a := agent.New(stdout, lineReader{rl}, trader, accountant)
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// lineReader ends the session on Ctrl+C as on Ctrl+D.
type lineReader struct{ rl *readline.Instance }

func (r lineReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}
