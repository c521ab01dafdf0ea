package carteira

import (
	"github.com/etnz/carteira/date"
	"github.com/google/go-cmp/cmp"
)

// cmpOptions compares engine values by their numeric value.
var cmpOptions = cmp.Options{
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Percent) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// buy is a helper for tests to create a stock purchase from consts.
func buy(on, ticker string, qty, price, fees float64) Transaction {
	return NewBuy(date.MustParse(on), ticker, Stock, Q(qty), BRL(price), BRL(fees), "")
}

// sell is a helper for tests to create a stock sale from consts.
func sell(on, ticker string, qty, price, fees float64) Transaction {
	return NewSell(date.MustParse(on), ticker, Stock, Q(qty), BRL(price), BRL(fees), "")
}

// withClass changes the class of a transaction.
func withClass(tx Transaction, class AssetClass) Transaction {
	tx.Class = class
	return tx
}

// withBroker changes the broker of a transaction.
func withBroker(tx Transaction, broker string) Transaction {
	tx.Broker = broker
	return tx
}
