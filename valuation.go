package carteira

import (
	"cmp"
	"slices"
)

// Quote is the latest known market price of a ticker.
type Quote struct {
	Price  Money   `json:"price"`
	Change Percent `json:"change"` // daily change
}

// Holding is the valuation of an open position.
type Holding struct {
	HoldingPosition
	Price  Money   // live price, or the average cost when no quote is known
	Live   bool    // whether Price comes from a quote
	Change Percent // daily change of the quote
	Value  Money   // Quantity * Price
	Return Percent // Price against the average cost
}

// Valuation is the market value of the open positions.
type Valuation struct {
	Holdings  []Holding // sorted by ticker
	Patrimony Money     // total market value
	Cost      Money     // total cost basis
	Return    Percent   // (Patrimony / Cost - 1) * 100, zero without cost
}

// Gain returns the unrealized gain of the portfolio.
func (v Valuation) Gain() Money { return v.Patrimony.Sub(v.Cost) }

// valuate prices every open position, falling back to the average cost
// for tickers without a quote.
func valuate(positions map[string]HoldingPosition, prices map[string]Quote) Valuation {
	v := Valuation{Patrimony: BRL(0), Cost: BRL(0)}
	for _, p := range positions {
		if !p.IsOpen() {
			continue
		}
		h := Holding{HoldingPosition: p, Price: p.Average}
		if q, ok := prices[p.Ticker]; ok && q.Price.IsPositive() {
			h.Price, h.Live, h.Change = q.Price, true, q.Change
		}
		h.Value = h.Price.Mul(p.Quantity)
		h.Return = returnOf(h.Price, p.Average)
		v.Holdings = append(v.Holdings, h)
		v.Patrimony = v.Patrimony.Add(h.Value)
		v.Cost = v.Cost.Add(p.Cost)
	}
	slices.SortFunc(v.Holdings, func(a, b Holding) int { return cmp.Compare(a.Ticker, b.Ticker) })
	v.Return = returnOf(v.Patrimony, v.Cost)
	return v
}

// returnOf returns (value/basis - 1) * 100, or zero when basis is not positive.
func returnOf(value, basis Money) Percent {
	if !basis.IsPositive() {
		return 0
	}
	return percent(value.Ratio(basis).Sub(one))
}
