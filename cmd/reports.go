package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
)

type dashboardCmd struct {
	skipAnomalies bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the positions and their valuation" }
func (*dashboardCmd) Usage() string {
	return `cart dashboard [-skip-anomalies]

  Shows every open position valued at the latest quote ('cart update'),
  or at its average cost when no quote is known, followed by the sales
  of more units than held.
`
}
func (p *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.skipAnomalies, "skip-anomalies", false, "Do not list the sales of more units than held.")
}
func (p *dashboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	res := rebuild(s, today().Year())
	printMarkdown(renderer.RenderDashboard(&res, renderer.RenderOptions{SkipAnomalies: p.skipAnomalies}))
	return subcommands.ExitSuccess
}

type chartsCmd struct {
	top int
}

func (*chartsCmd) Name() string     { return "charts" }
func (*chartsCmd) Synopsis() string { return "show the allocation and income charts" }
func (*chartsCmd) Usage() string {
	return `cart charts [-top <n>]

  Shows the exposure by segment and asset class, the largest positions,
  the return of each asset and the dividend income.
`
}
func (p *chartsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.top, "top", carteira.DefaultTopN, "Number of largest positions to show.")
}
func (p *chartsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	in := s.Inputs(today().Year(), today())
	in.TopN = p.top
	res := carteira.Rebuild(in)
	printMarkdown(renderer.Charts(&res))
	return subcommands.ExitSuccess
}

type dividendsCmd struct {
	view string
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "show the dividend income and yield" }
func (*dividendsCmd) Usage() string {
	return `cart dividends [-view monthly|yearly]

  Shows the dividends received and forecast, by month or by year, with the
  yield on the capital invested at the end of each period.
`
}
func (p *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.view, "view", "monthly", "Aggregation period: monthly or yearly.")
}
func (p *dividendsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(p.view)
	if err != nil {
		return fail("%v", err)
	}
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	res := rebuild(s, today().Year())
	printMarkdown(renderer.Dividends(&res, period))
	return subcommands.ExitSuccess
}

type reportCmd struct {
	year int
	csv  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "prepare the annual income tax declaration" }
func (*reportCmd) Usage() string {
	return `cart report [-year <year>] [-csv <file>]

  Shows the "Bens e Direitos" positions on December 31st of the year and the
  monthly "Renda Variável" results with the estimated tax. The positions can
  also be exported as CSV.
`
}
func (p *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.year, "year", today().Year()-1, "Tax year.")
	f.StringVar(&p.csv, "csv", "", "Also write the year-end positions to this CSV file.")
}
func (p *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	res := rebuild(s, p.year)
	if p.csv != "" {
		if err := writeCSV(p.csv, &res); err != nil {
			return fail("%v", err)
		}
		fmt.Fprintf(os.Stderr, "Posições de 31/12/%d exportadas em %s\n", p.year, p.csv)
	}
	printMarkdown(renderer.TaxReport(&res))
	return subcommands.ExitSuccess
}

func writeCSV(path string, res *carteira.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := res.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	return f.Close()
}
