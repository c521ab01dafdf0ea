package renderer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
)

// Dividends renders the dividend income by period with its yield on the
// invested capital, the top payers and the forecast payments.
func Dividends(r *carteira.Result, period date.Period) string {
	var b strings.Builder
	s := r.Dividends
	fmt.Fprintf(&b, "# Proventos\n\n")
	if len(s.Records) == 0 {
		fmt.Fprintln(&b, "Nenhum provento registrado.")
		return b.String()
	}
	fmt.Fprintf(&b, "Total: **%s**\n\n", s.Total)

	series, title := s.MonthlyYield, "Mês"
	if period == date.Yearly {
		series, title = s.YearlyYield, "Ano"
	}
	fmt.Fprintf(&b, "## Por %s\n\n", strings.ToLower(title))
	fmt.Fprintf(&b, "| %s | Proventos | Capital Investido | Yield |\n", title)
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range series {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Key, p.Income, p.Invested, p.Yield)
	}

	fmt.Fprintf(&b, "\n## Maiores Pagadores\n\n")
	fmt.Fprintln(&b, "| Ativo | Proventos |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, p := range s.TopPayers {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Ticker, p.Amount)
	}

	ConditionalBlock(&b, func(w io.Writer) bool { return renderForecast(w, s.Records) })
	return b.String()
}

func renderForecast(w io.Writer, records []carteira.DividendRecord) bool {
	predicted := slices.DeleteFunc(slices.Clone(records), func(d carteira.DividendRecord) bool { return !d.Predicted })
	if len(predicted) == 0 {
		return false
	}
	slices.SortStableFunc(predicted, func(a, b carteira.DividendRecord) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	fmt.Fprintf(w, "\n## Previstos\n\n")
	fmt.Fprintln(w, "| Data | Ativo | Valor |")
	fmt.Fprintln(w, "|:---|:---|---:|")
	for _, d := range predicted {
		fmt.Fprintf(w, "| %s | %s | %s |\n", d.Date, d.Ticker, d.Value)
	}
	return true
}
