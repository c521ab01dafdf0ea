package carteira

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/etnz/carteira/date"
	"github.com/google/go-cmp/cmp"
)

func TestRebuild_Scenarios(t *testing.T) {
	t.Run("A buy with fees", func(t *testing.T) {
		res := Rebuild(Inputs{Transactions: []Transaction{buy("2024-01-10", "X", 100, 10, 2)}, TaxYear: 2024})
		p := res.Positions["X"]
		if !p.Quantity.Equal(Q(100)) {
			t.Errorf("Quantity = %v, want 100", p.Quantity)
		}
		if !p.Cost.Equal(BRL(1002)) {
			t.Errorf("Cost = %v, want 1002", p.Cost)
		}
		if !p.Average.Equal(BRL(10.02)) {
			t.Errorf("Average = %v, want 10.02", p.Average)
		}
	})

	t.Run("B partial sell", func(t *testing.T) {
		res := Rebuild(Inputs{Transactions: []Transaction{
			buy("2024-01-10", "X", 100, 10, 2),
			sell("2024-02-10", "X", 40, 12, 1),
		}, TaxYear: 2024})
		if len(res.Realized) != 1 {
			t.Fatalf("len(Realized) = %d, want 1", len(res.Realized))
		}
		if got := res.Realized[0].Profit; !got.Equal(BRL(78.20)) {
			t.Errorf("Profit = %v, want 78.20", got)
		}
		if got := res.Realized[0].CostBasis; !got.Equal(BRL(400.80)) {
			t.Errorf("CostBasis = %v, want 400.80", got)
		}
		want := HoldingPosition{Ticker: "X", Class: Stock, Segment: OtherSegment, Quantity: Q(60), Cost: BRL(601.20), Average: BRL(10.02)}
		if diff := cmp.Diff(want, res.Positions["X"], cmpOptions); diff != "" {
			t.Errorf("Positions[X] mismatch (-want +got):\n%s", diff)
		}
		if len(res.Anomalies) != 0 {
			t.Errorf("Anomalies = %v, want none", res.Anomalies)
		}
	})

	t.Run("C sell without position", func(t *testing.T) {
		res := Rebuild(Inputs{Transactions: []Transaction{sell("2024-03-01", "Y", 200, 5, 0)}, TaxYear: 2024})
		p := res.Positions["Y"]
		if !p.Quantity.IsZero() || !p.Cost.IsZero() {
			t.Errorf("Positions[Y] = %v x %v, want 0 x 0", p.Quantity, p.Cost)
		}
		if got := res.Realized[0].Profit; !got.Equal(BRL(1000)) {
			t.Errorf("Profit = %v, want 1000", got)
		}
		if len(res.Anomalies) != 1 {
			t.Errorf("len(Anomalies) = %d, want 1", len(res.Anomalies))
		}
	})

	t.Run("D monthly tax", func(t *testing.T) {
		buckets := map[AssetClass]MonthlyTaxBucket{
			Stock:    {Sales: BRL(25000), Profit: BRL(3000)},
			REITFund: {Sales: BRL(5000), Profit: BRL(1000)},
		}
		if got := EstimateTax(buckets); !got.Equal(BRL(650)) {
			t.Errorf("EstimateTax() = %v, want 650", got)
		}
	})
}

func TestEstimateTax(t *testing.T) {
	testCases := []struct {
		name    string
		buckets map[AssetClass]MonthlyTaxBucket
		want    Money
	}{
		{"empty", nil, BRL(0)},
		{"stock below threshold", map[AssetClass]MonthlyTaxBucket{Stock: {Sales: BRL(19999.99), Profit: BRL(5000)}}, BRL(0)},
		{"stock at threshold", map[AssetClass]MonthlyTaxBucket{Stock: {Sales: BRL(20000), Profit: BRL(5000)}}, BRL(750)},
		{"stock loss", map[AssetClass]MonthlyTaxBucket{Stock: {Sales: BRL(50000), Profit: BRL(-5000)}}, BRL(0)},
		{"reit without threshold", map[AssetClass]MonthlyTaxBucket{REITFund: {Sales: BRL(100), Profit: BRL(10)}}, BRL(2)},
		{"etf", map[AssetClass]MonthlyTaxBucket{ETF: {Sales: BRL(100), Profit: BRL(10)}}, BRL(1.5)},
		{"losses do not offset", map[AssetClass]MonthlyTaxBucket{
			ETF:      {Sales: BRL(100), Profit: BRL(10)},
			REITFund: {Sales: BRL(100), Profit: BRL(-10)},
		}, BRL(1.5)},
		{"foreign receipt untaxed", map[AssetClass]MonthlyTaxBucket{ForeignReceipt: {Sales: BRL(90000), Profit: BRL(10000)}}, BRL(0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateTax(tc.buckets); !got.Equal(tc.want) {
				t.Errorf("EstimateTax() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRebuild_TaxYear(t *testing.T) {
	txs := []Transaction{
		buy("2023-05-02", "PETR4", 2000, 10, 0),
		withClass(buy("2023-05-02", "MXRF11", 100, 10, 0), REITFund),
		sell("2023-12-15", "PETR4", 100, 12, 0),   // previous year
		sell("2024-03-10", "PETR4", 1000, 20, 0),  // 20000 of sales
		sell("2024-04-10", "PETR4", 500, 15, 0),   // exempt
		withClass(sell("2024-04-20", "MXRF11", 50, 12, 0), REITFund),
		buy("2025-01-05", "PETR4", 10, 30, 0),     // after the tax year
	}
	res := Rebuild(Inputs{Transactions: txs, TaxYear: 2024})

	if len(res.Taxes) != 2 {
		t.Fatalf("len(Taxes) = %d, want 2", len(res.Taxes))
	}
	march, ok := res.TaxMonth("2024-03")
	if !ok {
		t.Fatalf("TaxMonth(2024-03) missing")
	}
	if march.StockExempt() {
		t.Errorf("StockExempt() = true, want false")
	}
	if got, want := march.Tax, BRL(1500); !got.Equal(want) {
		t.Errorf("march Tax = %v, want %v", got, want)
	}
	april, _ := res.TaxMonth("2024-04")
	if !april.StockExempt() {
		t.Errorf("april StockExempt() = false, want true")
	}
	// only the REIT profit of 50 * (12-10) at 20%
	if got, want := april.Tax, BRL(20); !got.Equal(want) {
		t.Errorf("april Tax = %v, want %v", got, want)
	}
	if got, want := res.TotalTax(), BRL(1520); !got.Equal(want) {
		t.Errorf("TotalTax() = %v, want %v", got, want)
	}

	if got, want := res.YearEnd["PETR4"].Quantity, Q(400); !got.Equal(want) {
		t.Errorf("YearEnd[PETR4].Quantity = %v, want %v", got, want)
	}
	if got, want := res.Positions["PETR4"].Quantity, Q(410); !got.Equal(want) {
		t.Errorf("Positions[PETR4].Quantity = %v, want %v", got, want)
	}
}

func TestRebuild_StableSort(t *testing.T) {
	// same day: the sell comes first in insertion order and sees no position.
	txs := []Transaction{
		sell("2024-01-10", "X", 10, 10, 0),
		buy("2024-01-10", "X", 10, 10, 0),
	}
	res := Rebuild(Inputs{Transactions: txs})
	if got := res.Positions["X"].Quantity; !got.Equal(Q(10)) {
		t.Errorf("Quantity = %v, want 10", got)
	}
	if len(res.Anomalies) != 1 {
		t.Errorf("len(Anomalies) = %d, want 1", len(res.Anomalies))
	}
	// the input is left untouched
	if txs[0].Op != Sell {
		t.Errorf("Rebuild() modified its input")
	}
}

func TestRebuild_Invariants(t *testing.T) {
	dust := func(qty string) Quantity {
		q, err := ParseQuantity(qty)
		if err != nil {
			t.Fatalf("ParseQuantity(%q) error = %v", qty, err)
		}
		return q
	}
	on := date.MustParse("2024-02-01")
	testCases := []struct {
		name string
		txs  []Transaction
	}{
		{
			name: "whole quantities",
			txs: []Transaction{
				buy("2024-01-01", "A", 10, 10, 1),
				buy("2024-01-02", "A", 5, 13, 0.5),
				sell("2024-01-03", "A", 3, 15, 0.3),
				sell("2024-01-04", "A", 20, 15, 0),
				buy("2024-01-05", "A", 7, 9.99, 0.07),
				sell("2024-01-06", "A", 2.5, 11, 0),
				sell("2024-01-07", "B", 1, 1, 0),
			},
		},
		{
			// the average is rounded, selling all but a dust quantity removes
			// slightly more than the total cost
			name: "fractional remainder",
			txs: []Transaction{
				NewBuy(on, "BTC", Crypto, Q(3_000_000_000), BRL(0), BRL(20000), ""),
				NewSell(on, "BTC", Crypto, dust("2999999999.99999999"), BRL(1), BRL(0), ""),
				NewSell(on, "BTC", Crypto, dust("0.00000001"), BRL(1), BRL(0), ""),
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBook(B3, nil)
			for _, tx := range tc.txs {
				before := *b.position(tx)
				b.apply(tx)
				after := *b.positions[tx.Ticker]
				if after.Quantity.IsNegative() || after.Cost.IsNegative() {
					t.Fatalf("after %v: negative position %v x %v", tx, after.Quantity, after.Cost)
				}
				switch {
				case tx.Op == Buy:
					if want := after.Cost.Div(after.Quantity); !after.Average.Equal(want) {
						t.Errorf("after %v: Average = %v, want %v", tx, after.Average, want)
					}
				case after.IsOpen():
					if !after.Average.Equal(before.Average) {
						t.Errorf("after %v: Average = %v, want unchanged %v", tx, after.Average, before.Average)
					}
				}
			}
		})
	}

	res := Rebuild(Inputs{Transactions: testCases[1].txs[:2], TaxYear: 2024})
	if p := res.Positions["BTC"]; !p.IsOpen() || p.Cost.IsNegative() {
		t.Errorf("Positions[BTC] = %v x %v, want an open position with no negative cost", p.Quantity, p.Cost)
	}
	if res.Valuation.Cost.IsNegative() {
		t.Errorf("Valuation.Cost = %v, want no negative cost", res.Valuation.Cost)
	}
}

func TestRebuild_Deterministic(t *testing.T) {
	in := Inputs{
		Transactions: []Transaction{
			withBroker(buy("2024-01-10", "PETR4", 100, 30, 1), "XP"),
			withBroker(buy("2024-01-11", "VALE3", 50, 60, 1), "Rico"),
			withClass(buy("2024-01-12", "MXRF11", 100, 10, 0), REITFund),
			sell("2024-06-10", "VALE3", 10, 70, 1),
		},
		Prices:    map[string]Quote{"PETR4": {Price: BRL(35), Change: 1.5}},
		Dividends: []DividendRecord{{Ticker: "MXRF11", Date: date.MustParse("2024-05-15"), Value: BRL(10)}},
		Predicted: []PredictedDividend{{Ticker: "PETR4", Date: date.MustParse("2024-08-20"), Value: BRL(0.5)}},
		Trailing:  map[string]Money{"VALE3": BRL(4)},
		TaxYear:   2024,
		AsOf:      date.MustParse("2024-08-31"),
	}
	first, err := json.Marshal(Rebuild(in))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for range 10 {
		again, err := json.Marshal(Rebuild(in))
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("Rebuild() is not deterministic:\n%s\n%s", first, again)
		}
	}
}

func TestRebuild_Idempotent(t *testing.T) {
	first := Rebuild(Inputs{Transactions: []Transaction{
		withBroker(buy("2024-01-10", "X", 100, 10, 2), "XP"),
		sell("2024-02-10", "X", 40, 12, 1),
	}, TaxYear: 2024})

	again := Rebuild(Inputs{Opening: first.YearEnd, TaxYear: 2025})
	if diff := cmp.Diff(first.YearEnd, again.YearEnd, cmpOptions); diff != "" {
		t.Errorf("YearEnd drifted (-first +again):\n%s", diff)
	}
	if diff := cmp.Diff(first.Positions, again.Positions, cmpOptions); diff != "" {
		t.Errorf("Positions drifted (-first +again):\n%s", diff)
	}
}

func TestRebuild_Empty(t *testing.T) {
	res := Rebuild(Inputs{TaxYear: 2024})
	if len(res.Positions) != 0 || len(res.YearEnd) != 0 || len(res.Taxes) != 0 {
		t.Errorf("Rebuild() of nothing produced positions or taxes")
	}
	if !res.Valuation.Patrimony.IsZero() || !res.Valuation.Cost.IsZero() || res.Valuation.Return != 0 {
		t.Errorf("Valuation = %+v, want zero", res.Valuation)
	}
	if !res.Dividends.Total.IsZero() || len(res.Dividends.TopPayers) != 0 {
		t.Errorf("Dividends = %+v, want zero", res.Dividends)
	}
	if !res.TotalTax().IsZero() {
		t.Errorf("TotalTax() = %v, want 0", res.TotalTax())
	}
}

func TestRebuild_Catalog(t *testing.T) {
	res := Rebuild(Inputs{Transactions: []Transaction{
		withBroker(buy("2024-01-10", "ITUB4", 10, 30, 0), "XP"),
		withBroker(buy("2024-01-11", "ITUB4", 10, 30, 0), "Clear"),
		withBroker(buy("2024-01-12", "ITUB4", 10, 30, 0), "XP"),
		buy("2024-01-12", "ZZZZ3", 10, 30, 0),
	}})
	itub := res.Positions["ITUB4"]
	if itub.Segment != "Bancos" {
		t.Errorf("Segment = %q, want Bancos", itub.Segment)
	}
	if diff := cmp.Diff([]string{"Clear", "XP"}, itub.Brokers); diff != "" {
		t.Errorf("Brokers mismatch (-want +got):\n%s", diff)
	}
	if got := res.Positions["ZZZZ3"].Segment; got != OtherSegment {
		t.Errorf("Segment = %q, want %q", got, OtherSegment)
	}
}
