package carteira

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrNotFound is returned when a transaction ID is unknown.
var ErrNotFound = errors.New("not found")

// Ledger represents a list of transactions in insertion order.
//
// Insertion order is the tie breaker when transactions share a date, so the
// ledger never reorders what it was given; Sorted returns the processing order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger holding txs as they are, IDs included.
func NewLedger(txs ...Transaction) *Ledger {
	return &Ledger{transactions: slices.Clone(txs)}
}

// Append adds transactions at the end of the ledger. Transactions without an
// ID receive the next one available. It returns the transactions as stored.
func (l *Ledger) Append(txs ...Transaction) []Transaction {
	next := l.maxID() + 1
	added := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == 0 {
			tx.ID = next
		}
		if tx.ID >= next {
			next = tx.ID + 1
		}
		l.transactions = append(l.transactions, tx)
		added = append(added, tx)
	}
	return added
}

// Remove deletes the transaction with the given ID.
func (l *Ledger) Remove(id int64) error {
	i := slices.IndexFunc(l.transactions, func(t Transaction) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("transaction #%d: %w", id, ErrNotFound)
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return nil
}

// Get returns the transaction with the given ID.
func (l *Ledger) Get(id int64) (Transaction, error) {
	for _, t := range l.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return Transaction{}, fmt.Errorf("transaction #%d: %w", id, ErrNotFound)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns a copy of the transactions in insertion order.
func (l *Ledger) Transactions() []Transaction { return slices.Clone(l.transactions) }

// Sorted returns a copy of the transactions in processing order.
func (l *Ledger) Sorted() []Transaction { return sortTransactions(l.transactions) }

// Tickers returns the sorted set of tickers referenced by the ledger.
func (l *Ledger) Tickers() []string {
	set := make(map[string]struct{})
	for _, t := range l.transactions {
		set[t.Ticker] = struct{}{}
	}
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func (l *Ledger) maxID() int64 {
	var m int64
	for _, t := range l.transactions {
		m = max(m, t.ID)
	}
	return m
}

// sortTransactions returns txs sorted by ascending date. The sort is stable
// so same-day transactions keep their insertion order.
func sortTransactions(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
