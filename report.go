package carteira

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
)

// unknownBroker is written in declarations when no broker was ever recorded.
const unknownBroker = "(INSERIR NOME)"

// Declaration is one line of the "Bens e Direitos" section of the annual
// tax return: a position held on December 31st of the tax year.
type Declaration struct {
	HoldingPosition
	Code        string // Receita Federal asset code
	Description string
}

// Declarations returns the year-end positions with a positive quantity, sorted by ticker.
func (r *Result) Declarations() []Declaration {
	var res []Declaration
	for _, p := range r.YearEnd {
		if !p.IsOpen() {
			continue
		}
		res = append(res, Declaration{HoldingPosition: p, Code: p.Class.Code(), Description: describe(p)})
	}
	slices.SortFunc(res, func(a, b Declaration) int { return cmp.Compare(a.Ticker, b.Ticker) })
	return res
}

// describe writes the free text description of a position.
func describe(p HoldingPosition) string {
	brokers := unknownBroker
	if len(p.Brokers) > 0 {
		brokers = strings.ToUpper(strings.Join(p.Brokers, ", "))
	}
	return fmt.Sprintf("%s COTA(S) DE %s %s, CUSTO MÉDIO DE %s, CUSTODIADO NA CORRETORA %s.",
		p.Quantity, strings.ToUpper(p.Class.Label()), p.Ticker, p.Average, brokers)
}

// WriteCSV writes the year-end positions as CSV with a header line.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Ticker", "Tipo", "Quantidade", "Custo Total", "Preço Médio"}); err != nil {
		return err
	}
	for _, d := range r.Declarations() {
		row := []string{d.Ticker, d.Class.Label(), d.Quantity.String(), d.Cost.StringFixed(), d.Average.StringFixed()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
