package carteira

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// StockExemptionThreshold is the monthly amount of stock sales below which
// stock gains are exempt.
var StockExemptionThreshold = BRL(20000)

// Tax rates applied to positive monthly profit per class.
var (
	StockTaxRate = decimal.RequireFromString("0.15")
	REITTaxRate  = decimal.RequireFromString("0.20")
	ETFTaxRate   = decimal.RequireFromString("0.15")
)

// MonthlyTaxBucket accumulates the sales of one asset class in one month.
type MonthlyTaxBucket struct {
	Sales  Money // net sale proceeds
	Profit Money // realized profit, negative for a loss
}

// TaxMonth groups the buckets of a month of the tax year.
type TaxMonth struct {
	Month   string // "2006-01"
	Buckets map[AssetClass]MonthlyTaxBucket
	Tax     Money // estimated tax, computed from the buckets
}

// Bucket returns the bucket of a class, zero when the class had no sale.
func (m TaxMonth) Bucket(class AssetClass) MonthlyTaxBucket {
	if b, ok := m.Buckets[class]; ok {
		return b
	}
	return MonthlyTaxBucket{Sales: BRL(0), Profit: BRL(0)}
}

// StockExempt reports whether the month's stock sales stay below the exemption threshold.
func (m TaxMonth) StockExempt() bool {
	return m.Bucket(Stock).Sales.LessThan(StockExemptionThreshold)
}

// EstimateTax computes the tax owed for a month:
//   - stock profit at 15% only when stock sales reach the exemption threshold,
//   - REIT fund profit at 20%,
//   - ETF profit at 15%.
//
// Losses never produce a negative tax.
func EstimateTax(buckets map[AssetClass]MonthlyTaxBucket) Money {
	tax := BRL(0)
	if b, ok := buckets[Stock]; ok && b.Sales.GreaterThanOrEqual(StockExemptionThreshold) && b.Profit.IsPositive() {
		tax = tax.Add(b.Profit.MulRate(StockTaxRate))
	}
	if b, ok := buckets[REITFund]; ok && b.Profit.IsPositive() {
		tax = tax.Add(b.Profit.MulRate(REITTaxRate))
	}
	if b, ok := buckets[ETF]; ok && b.Profit.IsPositive() {
		tax = tax.Add(b.Profit.MulRate(ETFTaxRate))
	}
	return tax
}

// taxBook accumulates sales by month and class.
type taxBook map[string]map[AssetClass]MonthlyTaxBucket

func (t taxBook) add(month string, class AssetClass, proceeds, profit Money) {
	buckets, ok := t[month]
	if !ok {
		buckets = make(map[AssetClass]MonthlyTaxBucket)
		t[month] = buckets
	}
	b, ok := buckets[class]
	if !ok {
		b = MonthlyTaxBucket{Sales: BRL(0), Profit: BRL(0)}
	}
	b.Sales = b.Sales.Add(proceeds)
	b.Profit = b.Profit.Add(profit)
	buckets[class] = b
}

// months returns the tax months in chronological order with their estimated tax.
func (t taxBook) months() []TaxMonth {
	keys := slices.Sorted(maps.Keys(t))
	res := make([]TaxMonth, 0, len(keys))
	for _, k := range keys {
		res = append(res, TaxMonth{Month: k, Buckets: t[k], Tax: EstimateTax(t[k])})
	}
	return res
}
