package carteira

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/carteira/date"
)

// Transaction is the immutable record of one trade.
type Transaction struct {
	ID       int64      // ID is unique and grows with creation order.
	Date     date.Date  // Date is the trade date.
	Ticker   string     // Ticker is the uppercase asset symbol.
	Op       Operation  // Op is either Buy or Sell.
	Class    AssetClass // Class is the tax class of the asset.
	Quantity Quantity   // Quantity is the number of units traded, always positive.
	Price    Money      // Price is the unit price.
	Fees     Money      // Fees are charged on both buys and sells.
	Broker   string     // Broker is a free-text label.
}

// NewBuy creates a buy transaction. Its ID is assigned by the Ledger.
func NewBuy(on date.Date, ticker string, class AssetClass, quantity Quantity, price, fees Money, broker string) Transaction {
	return Transaction{Date: on, Ticker: ticker, Op: Buy, Class: class, Quantity: quantity, Price: price, Fees: fees, Broker: broker}
}

// NewSell creates a sell transaction. Its ID is assigned by the Ledger.
func NewSell(on date.Date, ticker string, class AssetClass, quantity Quantity, price, fees Money, broker string) Transaction {
	return Transaction{Date: on, Ticker: ticker, Op: Sell, Class: class, Quantity: quantity, Price: price, Fees: fees, Broker: broker}
}

// Gross returns quantity × price.
func (t Transaction) Gross() Money { return t.Price.Mul(t.Quantity) }

// Cost returns the total cost of a buy: gross amount plus fees.
func (t Transaction) Cost() Money { return t.Gross().Add(t.Fees) }

// Proceeds returns the net proceeds of a sell: gross amount minus fees.
func (t Transaction) Proceeds() Money { return t.Gross().Sub(t.Fees) }

func (t Transaction) String() string {
	return fmt.Sprintf("#%d %s %s %s %s x %s", t.ID, t.Date, t.Op, t.Ticker, t.Quantity, t.Price)
}

// Validate checks the transaction fields and returns a normalized copy:
// uppercase ticker, trimmed broker. Every failure is reported.
func (t Transaction) Validate() (Transaction, error) {
	t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
	t.Broker = strings.TrimSpace(t.Broker)
	if t.Price.Currency() == "" {
		t.Price = BRL(t.Price.Decimal())
	}
	if t.Fees.Currency() == "" {
		t.Fees = BRL(t.Fees.Decimal())
	}

	var errs error
	if t.Date.IsZero() {
		errs = errors.Join(errs, errors.New("date is missing"))
	}
	if t.Ticker == "" {
		errs = errors.Join(errs, errors.New("ticker is missing"))
	}
	if t.Op != Buy && t.Op != Sell {
		errs = errors.Join(errs, fmt.Errorf("unknown operation %q", t.Op))
	}
	if !t.Class.Valid() {
		errs = errors.Join(errs, fmt.Errorf("unknown asset class %q", t.Class))
	}
	if !t.Quantity.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("quantity must be positive, got %s", t.Quantity))
	}
	if t.Price.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("price must not be negative, got %s", t.Price))
	}
	if t.Fees.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("fees must not be negative, got %s", t.Fees))
	}
	if errs != nil {
		return t, fmt.Errorf("invalid %s transaction %s: %w", t.Op, t.Ticker, errs)
	}
	return t, nil
}

// MarshalJSON writes the transaction with the field names of the browser
// storage layout, in a stable order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("ticker", t.Ticker)
	w.Append("type", t.Op)
	w.Append("assetType", t.Class)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Append("fees", t.Fees)
	w.Optional("broker", t.Broker)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a transaction, legacy operation and class names are accepted.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       int64      `json:"id"`
		Date     date.Date  `json:"date"`
		Ticker   string     `json:"ticker"`
		Op       Operation  `json:"type"`
		Class    AssetClass `json:"assetType"`
		Quantity Quantity   `json:"quantity"`
		Price    Money      `json:"price"`
		Fees     *Money     `json:"fees"`
		Broker   string     `json:"broker"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	fees := BRL(0)
	if temp.Fees != nil {
		fees = *temp.Fees
	}
	*t = Transaction{
		ID:       temp.ID,
		Date:     temp.Date,
		Ticker:   temp.Ticker,
		Op:       temp.Op,
		Class:    temp.Class,
		Quantity: temp.Quantity,
		Price:    temp.Price,
		Fees:     fees,
		Broker:   temp.Broker,
	}
	return nil
}
