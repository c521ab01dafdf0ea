package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/carteira"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// tickerArgs lists the commands whose arguments are tickers.
var tickerArgs = map[string]bool{"buy": true, "sell": true, "dividend": true, "favorite": true, "news": true}

// predictTickers completes tickers from the built-in catalog.
var predictTickers = complete.PredictFunc(func(prefix string) []string {
	var res []string
	for _, t := range carteira.B3.Tickers() {
		if strings.HasPrefix(t, strings.ToUpper(prefix)) {
			res = append(res, t)
		}
	}
	return res
})

// flagPredictors returns completion predictors for a set of flags.
func flagPredictors(fs *flag.FlagSet, values map[string]complete.Predictor) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case values[f.Name] != nil:
			flags[f.Name] = values[f.Name]
		case isBool(f):
			flags[f.Name] = predict.Nothing
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// Completion describes the commands, flags and arguments of cart for shell completion.
func Completion(global *flag.FlagSet) *complete.Command {
	values := map[string]complete.Predictor{
		"view":   predict.Set{"monthly", "yearly"},
		"class":  predict.Set{"acao", "fii", "etf", "bdr", "cripto"},
		"ticker": predictTickers,
		"csv":    predict.Files("*.csv"),
		"data":   predict.Dirs("*"),
	}
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global, values),
	}
	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: flagPredictors(fs, values)}
			if tickerArgs[c.Name()] {
				sub.Args = predictTickers
			}
			root.Sub[c.Name()] = sub
		}
	}
	return root
}
