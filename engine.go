package carteira

import (
	"fmt"

	"github.com/etnz/carteira/date"
)

// Inputs is everything the engine needs to rebuild the portfolio state.
type Inputs struct {
	Transactions []Transaction
	Prices       map[string]Quote // latest quotes by ticker
	Dividends    []DividendRecord // actual distributions received
	Predicted    []PredictedDividend
	Trailing     map[string]Money // trailing twelve months dividend per share, by ticker
	TaxYear      int

	// Catalog resolves segments and classes. B3 is used when nil.
	Catalog *Catalog
	// Opening seeds positions before the first transaction.
	Opening map[string]HoldingPosition
	// AsOf anchors the recent dividends chart. It is left empty when zero.
	AsOf date.Date
	// TopN is the size of the top positions chart, DefaultTopN when zero.
	TopN int
}

// RealizedSale is the accounting outcome of a sell transaction.
type RealizedSale struct {
	Transaction Transaction
	CostBasis   Money // average cost of the units sold
	Profit      Money // proceeds minus cost basis
}

// Anomaly is a suspicious transaction the engine processed anyway.
type Anomaly struct {
	Transaction Transaction
	Reason      string
}

func (a Anomaly) String() string { return fmt.Sprintf("%s: %s", a.Transaction, a.Reason) }

// Result is the derived state of the portfolio.
type Result struct {
	Positions map[string]HoldingPosition // after every transaction
	YearEnd   map[string]HoldingPosition // after the transactions of the tax year and before
	TaxYear   int
	Taxes     []TaxMonth // sales of the tax year, by month
	Realized  []RealizedSale
	Valuation Valuation
	Dividends DividendSummary
	Charts    Charts
	Anomalies []Anomaly
}

// TaxMonth returns the tax month for key "2006-01".
func (r *Result) TaxMonth(key string) (TaxMonth, bool) {
	for _, m := range r.Taxes {
		if m.Month == key {
			return m, true
		}
	}
	return TaxMonth{}, false
}

// TotalTax returns the estimated tax of the whole tax year.
func (r *Result) TotalTax() Money {
	total := BRL(0)
	for _, m := range r.Taxes {
		total = total.Add(m.Tax)
	}
	return total
}

// Rebuild derives the whole portfolio state from the inputs.
//
// Transactions are walked in date order, keeping the input order for
// transactions on the same date. Rebuild is a pure function: it does not
// modify in and always produces the same Result for the same Inputs.
func Rebuild(in Inputs) Result {
	catalog := in.Catalog
	if catalog == nil {
		catalog = B3
	}
	txs := sortTransactions(in.Transactions)
	taxYear := date.Year(in.TaxYear)
	yearEnd := date.EndOfYear(in.TaxYear)

	res := Result{TaxYear: in.TaxYear}
	live := newBook(catalog, in.Opening)
	taxes := make(taxBook)
	for _, tx := range txs {
		s, isSale := live.apply(tx)
		if !isSale {
			continue
		}
		res.Realized = append(res.Realized, RealizedSale{Transaction: tx, CostBasis: s.costBasis, Profit: s.profit})
		if s.oversold {
			res.Anomalies = append(res.Anomalies, Anomaly{Transaction: tx, Reason: "sells more units than held"})
		}
		if taxYear.Contains(tx.Date) {
			taxes.add(tx.Date.Key(date.Monthly), tx.Class, tx.Proceeds(), s.profit)
		}
	}
	res.Positions = live.snapshot()
	res.Taxes = taxes.months()

	closing := newBook(catalog, in.Opening)
	for _, tx := range txs {
		if tx.Date.After(yearEnd) {
			continue
		}
		closing.apply(tx)
	}
	res.YearEnd = closing.snapshot()

	res.Valuation = valuate(res.Positions, in.Prices)
	res.Dividends = summarizeDividends(mergeDividends(in.Dividends, in.Predicted, res.Positions), txs)
	res.Charts = buildCharts(res.Valuation, res.Dividends, in.Trailing, in.AsOf, in.TopN)
	return res
}
