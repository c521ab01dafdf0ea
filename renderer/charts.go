package renderer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/etnz/carteira"
)

const barWidth = 20

// bar draws a horizontal bar proportional to v/top, at least one block wide.
func bar(v, top float64) string {
	if top <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / top * barWidth))
	return strings.Repeat("█", max(n, 1))
}

func renderPoints(w io.Writer, title string, points []carteira.ChartPoint) bool {
	if len(points) == 0 {
		return false
	}
	var top float64
	for _, p := range points {
		top = math.Max(top, p.Value.AsFloat())
	}
	fmt.Fprintf(w, "\n## %s\n\n", title)
	fmt.Fprintln(w, "| | Valor | |")
	fmt.Fprintln(w, "|:---|---:|:---|")
	for _, p := range points {
		fmt.Fprintf(w, "| %s | %s | %s |\n", cell(p.Label), p.Value, bar(p.Value.AsFloat(), top))
	}
	return true
}

// Charts renders the chart series of r as tables with text bars.
func Charts(r *carteira.Result) string {
	var b strings.Builder
	c := r.Charts
	fmt.Fprintf(&b, "# Gráficos\n")
	ConditionalBlock(&b, func(w io.Writer) bool { return renderPoints(w, "Por Segmento", c.Segments) })
	ConditionalBlock(&b, func(w io.Writer) bool { return renderPoints(w, "Por Tipo", c.Classes) })
	ConditionalBlock(&b, func(w io.Writer) bool { return renderPoints(w, "Maiores Posições", c.TopPositions) })
	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(c.Profitability) == 0 {
			return false
		}
		fmt.Fprintf(w, "\n## Rentabilidade\n\n")
		fmt.Fprintln(w, "| Ativo | Rentabilidade |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, p := range c.Profitability {
			fmt.Fprintf(w, "| %s | %s |\n", p.Label, p.Value.SignedString())
		}
		return true
	})
	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(c.DividendsByAsset) == 0 {
			return false
		}
		fmt.Fprintf(w, "\n## Proventos Anuais por Ativo\n\n")
		fmt.Fprintln(w, "| Ativo | Valor |")
		fmt.Fprintln(w, "|:---|---:|")
		for _, p := range c.DividendsByAsset {
			mark := ""
			if p.Estimate {
				mark = " (est.)"
			}
			fmt.Fprintf(w, "| %s | %s%s |\n", p.Label, p.Value, mark)
		}
		return true
	})
	ConditionalBlock(&b, func(w io.Writer) bool { return renderPoints(w, "Proventos dos Últimos 6 Meses", c.RecentDividends) })
	return b.String()
}
