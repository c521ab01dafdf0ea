// Package cmd implements the cart CLI application to manage a B3 portfolio.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

type group struct {
	name     string
	commands []subcommands.Command
}

var groups = []group{
	{"transactions", []subcommands.Command{&buyCmd{}, &sellCmd{}, &removeCmd{}, &transactionsCmd{}, &importCmd{}, &dividendCmd{}}},
	{"market", []subcommands.Command{&favoriteCmd{}, &updateCmd{}, &newsCmd{}}},
	{"reports", []subcommands.Command{&dashboardCmd{}, &chartsCmd{}, &dividendsCmd{}, &reportCmd{}}},
	{"assistant", []subcommands.Command{&assistCmd{}, &chatCmd{}, &imageCmd{}, &videoCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

const (
	EnvDataDir    = "CART_DATA_DIR"
	EnvVerbose    = "CART_VERBOSE"
	EnvTestingNow = "CART_TESTING_NOW"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir = flag.String("data", envOr(EnvDataDir, ".carteira"), "Directory holding the portfolio data files")
	Verbose = flag.Bool("v", os.Getenv(EnvVerbose) == "true", "Log debug information")
	raw     = flag.Bool("raw", false, "Print markdown reports without terminal styling")
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newLogger returns the logger of the application, on stderr.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// today returns the current date, or the date set in CART_TESTING_NOW.
func today() date.Date {
	if v := os.Getenv(EnvTestingNow); v != "" {
		if d, err := date.Parse(strings.Fields(v)[0]); err == nil {
			return d
		}
	}
	return date.Today()
}

// repository returns the repository of the data directory.
func repository() carteira.Repository { return carteira.NewFileRepository(*dataDir) }

// loadSnapshot reads the whole portfolio state from the data directory.
func loadSnapshot() (*carteira.Snapshot, error) {
	s, err := repository().Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load portfolio from %q: %w", *dataDir, err)
	}
	return s, nil
}

// saveSnapshot writes the portfolio state back to the data directory.
func saveSnapshot(s *carteira.Snapshot) error {
	if err := repository().Save(s); err != nil {
		return fmt.Errorf("cannot save portfolio to %q: %w", *dataDir, err)
	}
	return nil
}

// rebuild runs the engine on the snapshot for the tax year.
func rebuild(s *carteira.Snapshot, taxYear int) carteira.Result {
	return carteira.Rebuild(s.Inputs(taxYear, today()))
}

// heldTickers returns the tickers of the open positions, sorted.
func heldTickers(res *carteira.Result) []string {
	var held []string
	for _, h := range res.Valuation.Holdings {
		held = append(held, h.Ticker)
	}
	return held
}

// renderMarkdown styles markdown for the terminal, unless -raw is set.
func renderMarkdown(md string) string {
	if *raw {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Fprint(stdout, renderMarkdown(md)) }

// fail reports an error on stderr.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
