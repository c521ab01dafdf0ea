package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

// News renders news items, most recent first as given.
func News(items []carteira.NewsItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Notícias\n\n")
	if len(items) == 0 {
		fmt.Fprintln(&b, "Nenhuma notícia.")
		return b.String()
	}
	for _, n := range items {
		fmt.Fprintf(&b, "## %s\n\n", n.Title)
		meta := []string{n.Date.String(), n.Ticker}
		if n.Source != "" {
			meta = append(meta, n.Source)
		}
		fmt.Fprintf(&b, "*%s*\n\n%s\n\n", strings.Join(meta, " · "), n.Summary)
	}
	return b.String()
}

// Watchlist renders the latest quotes of tickers. Tickers without a quote
// are listed with a dash.
func Watchlist(tickers []string, prices map[string]carteira.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Favoritos\n\n")
	if len(tickers) == 0 {
		fmt.Fprintln(&b, "Nenhum ativo favorito.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Ativo | Cotação | Dia |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, t := range tickers {
		q, ok := prices[t]
		if !ok {
			fmt.Fprintf(&b, "| %s | - | - |\n", t)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t, q.Price, q.Change.SignedString())
	}
	return b.String()
}

// Assets renders catalog entries.
func Assets(assets []carteira.Asset) string {
	var b strings.Builder
	if len(assets) == 0 {
		return "Nenhum ativo encontrado.\n"
	}
	fmt.Fprintln(&b, "| Ativo | Nome | Tipo | Segmento |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|")
	for _, a := range assets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", a.Ticker, cell(a.Name), a.Class.Label(), a.Segment)
	}
	return b.String()
}
