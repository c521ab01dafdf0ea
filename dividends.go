package carteira

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/carteira/date"
)

// DividendRecord is a cash distribution received, or expected, for a ticker.
type DividendRecord struct {
	Ticker    string    `json:"ticker"`
	Date      date.Date `json:"date"`
	Value     Money     `json:"value"`
	Predicted bool      `json:"isPredicted,omitempty"`
}

// PredictedDividend is a forecast distribution per share, usually produced by
// the market research agent.
type PredictedDividend struct {
	Ticker string    `json:"ticker"`
	Date   date.Date `json:"date"`
	Kind   string    `json:"type,omitempty"` // "Dividendo", "JCP", "Rendimento"
	Value  Money     `json:"value"`          // per share
	Info   string    `json:"info,omitempty"`
}

// mergeDividends returns the actual records followed by the predicted ones
// expanded to the quantity currently held. A prediction is dropped when the
// ticker is not held or when an actual record exists for the same ticker and date.
func mergeDividends(actual []DividendRecord, predicted []PredictedDividend, positions map[string]HoldingPosition) []DividendRecord {
	type key struct {
		ticker string
		on     date.Date
	}
	seen := make(map[key]bool, len(actual))
	res := make([]DividendRecord, 0, len(actual)+len(predicted))
	for _, d := range actual {
		d.Ticker = strings.ToUpper(d.Ticker)
		d.Predicted = false
		seen[key{d.Ticker, d.Date}] = true
		res = append(res, d)
	}
	for _, p := range predicted {
		ticker := strings.ToUpper(p.Ticker)
		pos, ok := positions[ticker]
		if !ok || !pos.IsOpen() {
			continue
		}
		if seen[key{ticker, p.Date}] {
			continue
		}
		res = append(res, DividendRecord{
			Ticker:    ticker,
			Date:      p.Date,
			Value:     p.Value.Mul(pos.Quantity),
			Predicted: true,
		})
	}
	return res
}

// TickerAmount is an amount attributed to a ticker.
type TickerAmount struct {
	Ticker string
	Amount Money
}

// YieldPoint is the dividend income of a period related to the capital
// invested at the end of that period.
type YieldPoint struct {
	Key      string // "2006-01" or "2006"
	Income   Money
	Invested Money
	Yield    Percent
}

// DividendSummary aggregates actual and predicted dividends.
type DividendSummary struct {
	Records   []DividendRecord            // actual first, then predicted
	Monthly   map[string]Money            // by "2006-01"
	Yearly    map[string]Money            // by "2006"
	ByTicker  map[string]Money            // by ticker
	Details   map[string][]DividendRecord // records by "2006-01"
	TopPayers []TickerAmount              // ByTicker sorted by decreasing amount
	Total     Money

	MonthlyYield []YieldPoint
	YearlyYield  []YieldPoint
}

// summarizeDividends groups the merged dividend records and computes the
// yield series against the capital invested by txs.
func summarizeDividends(records []DividendRecord, txs []Transaction) DividendSummary {
	s := DividendSummary{
		Records:  records,
		Monthly:  make(map[string]Money),
		Yearly:   make(map[string]Money),
		ByTicker: make(map[string]Money),
		Details:  make(map[string][]DividendRecord),
		Total:    BRL(0),
	}
	add := func(m map[string]Money, k string, v Money) {
		if prev, ok := m[k]; ok {
			v = prev.Add(v)
		}
		m[k] = v
	}
	for _, d := range records {
		month := d.Date.Key(date.Monthly)
		add(s.Monthly, month, d.Value)
		add(s.Yearly, d.Date.Key(date.Yearly), d.Value)
		add(s.ByTicker, d.Ticker, d.Value)
		s.Details[month] = append(s.Details[month], d)
		s.Total = s.Total.Add(d.Value)
	}
	for t, v := range s.ByTicker {
		s.TopPayers = append(s.TopPayers, TickerAmount{Ticker: t, Amount: v})
	}
	slices.SortFunc(s.TopPayers, func(a, b TickerAmount) int {
		if c := b.Amount.Decimal().Cmp(a.Amount.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})
	s.MonthlyYield = yieldSeries(s.Monthly, date.Monthly, txs)
	s.YearlyYield = yieldSeries(s.Yearly, date.Yearly, txs)
	return s
}

// yieldSeries computes the yield of each bucket in chronological order.
func yieldSeries(income map[string]Money, p date.Period, txs []Transaction) []YieldPoint {
	keys := slices.Sorted(maps.Keys(income))
	res := make([]YieldPoint, 0, len(keys))
	for _, k := range keys {
		start, err := date.ParseKey(k, p)
		if err != nil {
			continue
		}
		pt := YieldPoint{
			Key:      k,
			Income:   income[k],
			Invested: InvestedCapitalAt(txs, start.EndOf(p)),
		}
		if pt.Invested.IsPositive() {
			pt.Yield = percent(pt.Income.Ratio(pt.Invested))
		}
		res = append(res, pt)
	}
	return res
}

// InvestedCapitalAt returns the net capital invested up to and including on:
// the cost of every buy minus the proceeds of every sell.
func InvestedCapitalAt(txs []Transaction, on date.Date) Money {
	total := BRL(0)
	for _, tx := range txs {
		if tx.Date.After(on) {
			continue
		}
		switch tx.Op {
		case Buy:
			total = total.Add(tx.Cost())
		case Sell:
			total = total.Sub(tx.Proceeds())
		}
	}
	return total
}
