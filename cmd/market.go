package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/agent"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// newAIClient connects to the Gemini API configured from the environment.
func newAIClient(ctx context.Context, log *logrus.Logger) (*agent.Client, error) {
	cfg, err := agent.LoadConfig()
	if err != nil {
		return nil, err
	}
	return agent.NewClient(ctx, cfg, log)
}

func newMarket(ctx context.Context) (*agent.Market, error) {
	log := newLogger()
	client, err := newAIClient(ctx, log)
	if err != nil {
		return nil, err
	}
	return agent.NewMarket(client, log), nil
}

type favoriteCmd struct {
	remove bool
}

func (*favoriteCmd) Name() string     { return "favorite" }
func (*favoriteCmd) Synopsis() string { return "manage the watchlist of favorite assets" }
func (*favoriteCmd) Usage() string {
	return `cart favorite [-rm] [<ticker>...]

  Adds tickers to the favorites, or removes them with -rm.
  Without tickers, shows the favorites with their latest quotes.
`
}
func (p *favoriteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.remove, "rm", false, "Remove the tickers from the favorites.")
}
func (p *favoriteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	if f.NArg() == 0 {
		printMarkdown(renderer.Watchlist(s.Favorites, s.Prices))
		return subcommands.ExitSuccess
	}
	for _, t := range f.Args() {
		if p.remove {
			s.RemoveFavorite(t)
		} else {
			s.AddFavorite(t)
		}
	}
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Favoritos: %s\n", strings.Join(s.Favorites, ", "))
	return subcommands.ExitSuccess
}

type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "update quotes and dividend forecasts with the AI" }
func (*updateCmd) Usage() string {
	return `cart update

  Asks the AI for the latest quotes of the held assets and favorites, and
  for the dividend forecast of the held assets. Requires GEMINI_API_KEY.
`
}
func (*updateCmd) SetFlags(*flag.FlagSet) {}
func (*updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	m, err := newMarket(ctx)
	if err != nil {
		return fail("%v", err)
	}
	res := rebuild(s, today().Year())
	updateErr := m.Update(ctx, s, heldTickers(&res), today())
	if errors.Is(updateErr, agent.ErrNoTickers) {
		return fail("%v", updateErr)
	}
	// partial updates are saved anyway
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	if updateErr != nil {
		return fail("market update incomplete: %v", updateErr)
	}
	res = rebuild(s, today().Year())
	printMarkdown(renderer.Dashboard(&res))
	return subcommands.ExitSuccess
}

type newsCmd struct{}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "fetch recent news about the portfolio assets" }
func (*newsCmd) Usage() string {
	return `cart news [<ticker>...]

  Asks the AI for recent news about the tickers, by default the held assets
  and the favorites. Requires GEMINI_API_KEY.
`
}
func (*newsCmd) SetFlags(*flag.FlagSet) {}
func (*newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	tickers := f.Args()
	if len(tickers) == 0 {
		res := rebuild(s, today().Year())
		tickers = s.Watchlist(heldTickers(&res))
	}
	m, err := newMarket(ctx)
	if err != nil {
		return fail("%v", err)
	}
	items, err := m.News(ctx, tickers)
	if err != nil {
		return fail("%v", err)
	}
	s.News = items
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	printMarkdown(renderer.News(items))
	return subcommands.ExitSuccess
}

type importCmd struct {
	yes bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "read a transaction from a brokerage note with the AI" }
func (*importCmd) Usage() string {
	return `cart import [-y] [<note text>]

  Reads a brokerage note (from the arguments or stdin) and extracts the
  transaction it describes. The transaction is only shown unless -y is set.
  Requires GEMINI_API_KEY.
`
}
func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.yes, "y", false, "Append the imported transaction to the ledger.")
}
func (p *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	note := strings.Join(f.Args(), " ")
	if note == "" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fail("cannot read note: %v", err)
		}
		note = string(content)
	}
	m, err := newMarket(ctx)
	if err != nil {
		return fail("%v", err)
	}
	draft, err := m.Import(ctx, note, today())
	if err != nil {
		return fail("%v", err)
	}
	tx, err := draft.Transaction()
	if err != nil {
		return fail("imported transaction is invalid: %v", err)
	}
	if !p.yes {
		printMarkdown(renderer.Transactions([]carteira.Transaction{tx}))
		fmt.Fprintln(stdout, "Use -y para registrar a transação.")
		return subcommands.ExitSuccess
	}
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	ledger := s.Ledger()
	added := ledger.Append(tx)
	s.Transactions = ledger.Transactions()
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Transação #%d registrada: %s\n", added[0].ID, renderer.Transaction(added[0]))
	return subcommands.ExitSuccess
}
