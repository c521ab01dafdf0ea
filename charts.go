package carteira

import (
	"cmp"
	"slices"

	"github.com/etnz/carteira/date"
)

// DefaultTopN is the number of positions kept in the top positions chart.
const DefaultTopN = 5

// ChartPoint is a labelled amount.
type ChartPoint struct {
	Label string
	Value Money
}

// ReturnPoint is a labelled return.
type ReturnPoint struct {
	Label string
	Value Percent
}

// EstimatePoint is a labelled amount that may be an estimate.
type EstimatePoint struct {
	Label    string
	Value    Money
	Estimate bool
}

// Charts holds the series displayed on the dashboard.
type Charts struct {
	Segments         []ChartPoint    // market value by segment, decreasing
	Classes          []ChartPoint    // market value by asset class label, decreasing
	TopPositions     []ChartPoint    // largest positions by market value
	Profitability    []ReturnPoint   // return of each holding, by ticker
	DividendsByAsset []EstimatePoint // trailing twelve months income, by ticker
	RecentDividends  []ChartPoint    // income received in the last 6 months, oldest first
}

var monthLabels = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// MonthLabel returns the short Portuguese name of the month of d.
func MonthLabel(d date.Date) string { return monthLabels[d.Month()-1] }

// buildCharts derives the chart series from the valuation and the dividends.
func buildCharts(v Valuation, divs DividendSummary, trailing map[string]Money, asOf date.Date, topN int) Charts {
	if topN <= 0 {
		topN = DefaultTopN
	}
	var c Charts
	segments := make(map[string]Money)
	classes := make(map[string]Money)
	for _, h := range v.Holdings {
		segments[h.Segment] = addTo(segments, h.Segment, h.Value)
		classes[h.Class.Label()] = addTo(classes, h.Class.Label(), h.Value)
		c.TopPositions = append(c.TopPositions, ChartPoint{Label: h.Ticker, Value: h.Value})
		c.Profitability = append(c.Profitability, ReturnPoint{Label: h.Ticker, Value: h.Return})

		if t12m, ok := trailing[h.Ticker]; ok && t12m.IsPositive() {
			c.DividendsByAsset = append(c.DividendsByAsset, EstimatePoint{Label: h.Ticker, Value: t12m.Mul(h.Quantity), Estimate: true})
		} else if received, ok := divs.ByTicker[h.Ticker]; ok && received.IsPositive() {
			c.DividendsByAsset = append(c.DividendsByAsset, EstimatePoint{Label: h.Ticker, Value: received})
		}
	}
	c.Segments = sortedPoints(segments)
	c.Classes = sortedPoints(classes)

	sortPoints(c.TopPositions)
	if len(c.TopPositions) > topN {
		c.TopPositions = c.TopPositions[:topN]
	}

	if !asOf.IsZero() {
		received := make(map[string]Money)
		for _, d := range divs.Records {
			if !d.Predicted {
				k := d.Date.Key(date.Monthly)
				received[k] = addTo(received, k, d.Value)
			}
		}
		for i := -5; i <= 0; i++ {
			month := asOf.AddMonth(i)
			income, ok := received[month.Key(date.Monthly)]
			if !ok {
				income = BRL(0)
			}
			c.RecentDividends = append(c.RecentDividends, ChartPoint{Label: MonthLabel(month), Value: income})
		}
	}
	return c
}

func addTo(m map[string]Money, k string, v Money) Money {
	if prev, ok := m[k]; ok {
		return prev.Add(v)
	}
	return v
}

func sortedPoints(m map[string]Money) []ChartPoint {
	res := make([]ChartPoint, 0, len(m))
	for k, v := range m {
		res = append(res, ChartPoint{Label: k, Value: v})
	}
	sortPoints(res)
	return res
}

// sortPoints sorts by decreasing value, then by label.
func sortPoints(points []ChartPoint) {
	slices.SortFunc(points, func(a, b ChartPoint) int {
		if c := b.Value.Decimal().Cmp(a.Value.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
}
