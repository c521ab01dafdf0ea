package carteira

import (
	"maps"
	"slices"
	"strings"

	"github.com/etnz/carteira/date"
)

// NewsItem is a piece of market news about a held asset.
type NewsItem struct {
	ID      string    `json:"id"`
	Ticker  string    `json:"ticker"`
	Date    date.Date `json:"date"`
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Source  string    `json:"source,omitempty"`
}

// Snapshot is the persisted state of a portfolio.
type Snapshot struct {
	Transactions []Transaction
	Dividends    []DividendRecord
	Prices       map[string]Quote
	Predictions  []PredictedDividend
	Trailing     map[string]Money // trailing twelve months dividend per share
	Favorites    []string         // watched tickers, sorted
	News         []NewsItem
}

// NewSnapshot returns an empty snapshot ready to use.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Prices:   make(map[string]Quote),
		Trailing: make(map[string]Money),
	}
}

// Ledger returns a ledger over the snapshot transactions.
func (s *Snapshot) Ledger() *Ledger { return NewLedger(s.Transactions...) }

// Inputs returns the engine inputs for taxYear.
func (s *Snapshot) Inputs(taxYear int, asOf date.Date) Inputs {
	return Inputs{
		Transactions: s.Transactions,
		Prices:       s.Prices,
		Dividends:    s.Dividends,
		Predicted:    s.Predictions,
		Trailing:     s.Trailing,
		TaxYear:      taxYear,
		AsOf:         asOf,
	}
}

// AddFavorite adds ticker to the favorites and reports whether it was missing.
func (s *Snapshot) AddFavorite(ticker string) bool {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	i, found := slices.BinarySearch(s.Favorites, ticker)
	if found || ticker == "" {
		return false
	}
	s.Favorites = slices.Insert(s.Favorites, i, ticker)
	return true
}

// RemoveFavorite removes ticker from the favorites and reports whether it was present.
func (s *Snapshot) RemoveFavorite(ticker string) bool {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	i, found := slices.BinarySearch(s.Favorites, ticker)
	if !found {
		return false
	}
	s.Favorites = slices.Delete(s.Favorites, i, i+1)
	return true
}

// Watchlist returns the held tickers and the favorites, sorted and without duplicates.
func (s *Snapshot) Watchlist(held []string) []string {
	set := make(map[string]bool, len(held)+len(s.Favorites))
	for _, t := range held {
		set[t] = true
	}
	for _, t := range s.Favorites {
		set[t] = true
	}
	return slices.Sorted(maps.Keys(set))
}

// SetPrices merges quotes into the known prices.
func (s *Snapshot) SetPrices(quotes map[string]Quote) {
	if s.Prices == nil {
		s.Prices = make(map[string]Quote, len(quotes))
	}
	maps.Copy(s.Prices, quotes)
}

// SetForecast replaces the predictions and merges the trailing totals.
func (s *Snapshot) SetForecast(predictions []PredictedDividend, trailing map[string]Money) {
	s.Predictions = predictions
	if s.Trailing == nil {
		s.Trailing = make(map[string]Money, len(trailing))
	}
	maps.Copy(s.Trailing, trailing)
}
