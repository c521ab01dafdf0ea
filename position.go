package carteira

import (
	"slices"
)

// HoldingPosition is the running aggregate of all transactions of a ticker.
//
// Quantity and Cost never go negative: a sell that liquidates the position,
// or more, resets the position to zero instead of removing it.
type HoldingPosition struct {
	Ticker   string
	Class    AssetClass
	Segment  string
	Quantity Quantity
	Cost     Money    // total cost basis of the held quantity
	Average  Money    // weighted-average unit cost, zero when nothing is held
	Brokers  []string // every broker ever used for this ticker, sorted
}

// IsOpen reports whether some quantity is held.
func (p HoldingPosition) IsOpen() bool { return p.Quantity.IsPositive() }

// clone returns a deep copy of p.
func (p HoldingPosition) clone() *HoldingPosition {
	p.Brokers = slices.Clone(p.Brokers)
	return &p
}

// addBroker inserts broker in the sorted set of brokers.
func (p *HoldingPosition) addBroker(broker string) {
	if broker == "" {
		return
	}
	i, found := slices.BinarySearch(p.Brokers, broker)
	if !found {
		p.Brokers = slices.Insert(p.Brokers, i, broker)
	}
}

// sale is the accounting outcome of applying a sell to a position.
type sale struct {
	costBasis Money // cost removed from the position
	profit    Money // realized profit or loss
	oversold  bool  // more units sold than held
}

// buy adds a purchase to the position.
func (p *HoldingPosition) buy(tx Transaction) {
	p.Cost = p.Cost.Add(tx.Cost())
	p.Quantity = p.Quantity.Add(tx.Quantity)
	p.Average = p.Cost.Div(p.Quantity)
}

// sell removes a sale from the position at the average cost in effect
// before the sale. The average cost is left untouched unless the position
// is liquidated.
func (p *HoldingPosition) sell(tx Transaction) sale {
	s := sale{
		costBasis: p.Average.Mul(tx.Quantity),
		oversold:  tx.Quantity.GreaterThan(p.Quantity),
	}
	s.profit = tx.Proceeds().Sub(s.costBasis)

	p.Cost = p.Cost.Sub(s.costBasis)
	p.Quantity = p.Quantity.Sub(tx.Quantity)
	if !p.Quantity.IsPositive() {
		p.Quantity = Q(0)
		p.Cost = BRL(0)
		p.Average = BRL(0)
	} else if p.Cost.IsNegative() {
		// the rounded average can exceed the remaining cost of a dust quantity
		p.Cost = BRL(0)
	}
	return s
}

// book keeps one running position per ticker.
type book struct {
	catalog   *Catalog
	positions map[string]*HoldingPosition
}

func newBook(catalog *Catalog, opening map[string]HoldingPosition) *book {
	b := &book{catalog: catalog, positions: make(map[string]*HoldingPosition, len(opening))}
	for ticker, p := range opening {
		b.positions[ticker] = p.clone()
	}
	return b
}

// position returns the position of the transaction ticker, creating it on first use.
func (b *book) position(tx Transaction) *HoldingPosition {
	p, ok := b.positions[tx.Ticker]
	if ok {
		return p
	}
	p = &HoldingPosition{
		Ticker:   tx.Ticker,
		Class:    tx.Class,
		Segment:  OtherSegment,
		Quantity: Q(0),
		Cost:     BRL(0),
		Average:  BRL(0),
	}
	if a, known := b.catalog.Lookup(tx.Ticker); known {
		if a.Class.Valid() {
			p.Class = a.Class
		}
		if a.Segment != "" {
			p.Segment = a.Segment
		}
	}
	b.positions[tx.Ticker] = p
	return p
}

// apply runs tx through the position state machine. The sale is zero for buys.
func (b *book) apply(tx Transaction) (sale, bool) {
	p := b.position(tx)
	p.addBroker(tx.Broker)
	switch tx.Op {
	case Buy:
		p.buy(tx)
		return sale{}, false
	case Sell:
		return p.sell(tx), true
	default:
		return sale{}, false
	}
}

// snapshot copies the positions out of the book.
func (b *book) snapshot() map[string]HoldingPosition {
	res := make(map[string]HoldingPosition, len(b.positions))
	for ticker, p := range b.positions {
		res[ticker] = *p.clone()
	}
	return res
}
