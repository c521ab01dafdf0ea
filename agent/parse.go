package agent

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/shopspring/decimal"
)

// Result is the outcome of parsing a free-form model answer. It is one of
// PriceUpdate, DividendForecast, NewsUpdate, ImportedTransactionDraft or
// *ParseFailed.
type Result interface {
	result()
}

// PriceUpdate carries the quotes found by the model.
type PriceUpdate struct {
	Quotes  map[string]carteira.Quote
	Skipped []string // tickers whose quote could not be read
}

// DividendForecast carries the next expected distributions and the trailing
// twelve months distributions per share.
type DividendForecast struct {
	Predictions []carteira.PredictedDividend
	Trailing    map[string]carteira.Money
}

// NewsUpdate carries the news items found by the model.
type NewsUpdate struct {
	Items []carteira.NewsItem
}

// ImportedTransactionDraft is a transaction read from a brokerage note. It
// still needs to be validated before reaching the ledger.
type ImportedTransactionDraft struct {
	Ticker   string
	Op       carteira.Operation
	Class    carteira.AssetClass
	Quantity carteira.Quantity
	Price    carteira.Money
	Date     date.Date
	Fees     carteira.Money
	Broker   string
}

// Transaction returns the validated transaction of the draft.
func (d ImportedTransactionDraft) Transaction() (carteira.Transaction, error) {
	tx := carteira.Transaction{
		Date:     d.Date,
		Ticker:   d.Ticker,
		Op:       d.Op,
		Class:    d.Class,
		Quantity: d.Quantity,
		Price:    d.Price,
		Fees:     d.Fees,
		Broker:   d.Broker,
	}
	return tx.Validate()
}

// ParseFailed reports an answer that could not be understood.
type ParseFailed struct {
	Reason string
	Raw    string
}

func (p *ParseFailed) Error() string { return "cannot parse model answer: " + p.Reason }

func (PriceUpdate) result()              {}
func (DividendForecast) result()         {}
func (NewsUpdate) result()               {}
func (ImportedTransactionDraft) result() {}
func (*ParseFailed) result()             {}

func failed(raw, format string, args ...any) *ParseFailed {
	return &ParseFailed{Reason: fmt.Sprintf(format, args...), Raw: raw}
}

// extractJSON decodes the JSON object between the first '{' and the last '}'
// of text. Models often wrap their answer in prose or markdown fences.
func extractJSON(text string) (map[string]any, error) {
	first, last := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if first < 0 || last < first {
		return nil, fmt.Errorf("no JSON object in answer")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text[first:last+1]), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return obj, nil
}

// get evaluates a jsonpath, a missing path is not an error.
func get(obj any, path string) (any, bool) {
	v, err := jsonpath.Get(path, obj)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func getString(obj any, path string) string {
	v, ok := get(obj, path)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return decimal.NewFromFloat(s).String()
	default:
		return ""
	}
}

// number reads a JSON number or a formatted string like "R$ 1.234,56" or "-1,2%".
func number(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		s := strings.NewReplacer("R$", "", "%", "", " ", "", "\u00a0", "").Replace(n)
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number %q", n)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("not a number: %v", v)
	}
}

func getNumber(obj any, path string) (decimal.Decimal, bool) {
	v, ok := get(obj, path)
	if !ok {
		return decimal.Zero, false
	}
	d, err := number(v)
	return d, err == nil
}

func getList(obj any, path string) []any {
	v, ok := get(obj, path)
	if !ok {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// ParsePrices reads an answer shaped as {"TICKER": {"price": 0.00, "change": 0.00}}.
func ParsePrices(text string) Result {
	obj, err := extractJSON(text)
	if err != nil {
		return failed(text, "%v", err)
	}
	res := PriceUpdate{Quotes: make(map[string]carteira.Quote)}
	for _, ticker := range slices.Sorted(maps.Keys(obj)) {
		entry := obj[ticker]
		price, ok := getNumber(entry, "$.price")
		if !ok || !price.IsPositive() {
			res.Skipped = append(res.Skipped, ticker)
			continue
		}
		change, _ := getNumber(entry, "$.change")
		res.Quotes[strings.ToUpper(ticker)] = carteira.Quote{
			Price:  carteira.BRL(price),
			Change: carteira.Percent(change.InexactFloat64()),
		}
	}
	if len(res.Quotes) == 0 {
		return failed(text, "no price in answer")
	}
	return res
}

// ParseDividends reads an answer shaped as
// {"dividends": [{"ticker", "date", "type", "value", "info"}], "yearlyTotal": {"TICKER": 0.00}}.
// Distributions without a positive value or a valid date are dropped.
func ParseDividends(text string) Result {
	obj, err := extractJSON(text)
	if err != nil {
		return failed(text, "%v", err)
	}
	_, hasDividends := obj["dividends"]
	_, hasTotals := obj["yearlyTotal"]
	if !hasDividends && !hasTotals {
		return failed(text, "neither dividends nor yearlyTotal in answer")
	}

	res := DividendForecast{Trailing: make(map[string]carteira.Money)}
	for _, item := range getList(obj, "$.dividends") {
		value, ok := getNumber(item, "$.value")
		if !ok || !value.IsPositive() {
			continue
		}
		on, err := date.Parse(getString(item, "$.date"))
		if err != nil {
			continue
		}
		ticker := strings.ToUpper(getString(item, "$.ticker"))
		if ticker == "" {
			continue
		}
		res.Predictions = append(res.Predictions, carteira.PredictedDividend{
			Ticker: ticker,
			Date:   on,
			Kind:   getString(item, "$.type"),
			Value:  carteira.BRL(value),
			Info:   getString(item, "$.info"),
		})
	}
	if totals, ok := obj["yearlyTotal"].(map[string]any); ok {
		for ticker, v := range totals {
			d, err := number(v)
			if err != nil || d.IsNegative() {
				continue
			}
			res.Trailing[strings.ToUpper(ticker)] = carteira.BRL(d)
		}
	}
	return res
}

// ParseNews reads an answer shaped as
// {"news": [{"ticker", "date", "title", "summary", "source"}]}.
// newID identifies every item.
func ParseNews(text string, newID func() string) Result {
	obj, err := extractJSON(text)
	if err != nil {
		return failed(text, "%v", err)
	}
	if _, ok := obj["news"]; !ok {
		return failed(text, "no news in answer")
	}
	var res NewsUpdate
	for _, item := range getList(obj, "$.news") {
		title := getString(item, "$.title")
		if title == "" {
			continue
		}
		on, _ := date.Parse(getString(item, "$.date"))
		res.Items = append(res.Items, carteira.NewsItem{
			ID:      newID(),
			Ticker:  strings.ToUpper(getString(item, "$.ticker")),
			Date:    on,
			Title:   title,
			Summary: getString(item, "$.summary"),
			Source:  getString(item, "$.source"),
		})
	}
	return res
}

// ParseImport reads a transaction shaped as
// {ticker, type, quantity, price, date, fees, assetType, broker}. Missing
// fees default to zero, a missing date to today and a missing class to the
// catalog class of the ticker.
func ParseImport(text string, today date.Date) Result {
	obj, err := extractJSON(text)
	if err != nil {
		return failed(text, "%v", err)
	}
	d := ImportedTransactionDraft{
		Ticker: strings.ToUpper(getString(obj, "$.ticker")),
		Date:   today,
		Fees:   carteira.BRL(0),
		Broker: getString(obj, "$.broker"),
	}
	if d.Ticker == "" {
		return failed(text, "no ticker in answer")
	}

	if d.Op, err = carteira.ParseOperation(getString(obj, "$.type")); err != nil {
		return failed(text, "%v", err)
	}
	if s := getString(obj, "$.assetType"); s != "" {
		if d.Class, err = carteira.ParseAssetClass(s); err != nil {
			return failed(text, "%v", err)
		}
	} else if a, ok := carteira.B3.Lookup(d.Ticker); ok {
		d.Class = a.Class
	} else {
		d.Class = carteira.Stock
	}

	qty, ok := getNumber(obj, "$.quantity")
	if !ok {
		return failed(text, "no quantity in answer")
	}
	d.Quantity = carteira.Q(qty)
	price, ok := getNumber(obj, "$.price")
	if !ok {
		return failed(text, "no price in answer")
	}
	d.Price = carteira.BRL(price)
	if fees, ok := getNumber(obj, "$.fees"); ok {
		d.Fees = carteira.BRL(fees)
	}
	if s := getString(obj, "$.date"); s != "" {
		on, err := parseNoteDate(s)
		if err != nil {
			return failed(text, "%v", err)
		}
		d.Date = on
	}
	return d
}

// parseNoteDate accepts ISO dates and the Brazilian dd/mm/yyyy format.
func parseNoteDate(s string) (date.Date, error) {
	if on, err := date.Parse(s); err == nil {
		return on, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) == 3 {
		return date.Parse(parts[2] + "-" + parts[1] + "-" + parts[0])
	}
	return date.Date{}, fmt.Errorf("invalid date %q", s)
}
