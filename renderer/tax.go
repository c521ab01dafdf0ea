package renderer

import (
	"github.com/etnz/carteira"
)

// taxReport is the view of the annual tax return helper.
type taxReport struct {
	Year         int
	Declarations []carteira.Declaration
	Months       []taxMonth
	Total        carteira.Money
}

// taxMonth is one "Renda Variável" row.
type taxMonth struct {
	Month       string
	StockSales  carteira.Money
	Exempt      bool
	StockProfit carteira.Money
	REITProfit  carteira.Money
	ETFProfit   carteira.Money
	Tax         carteira.Money
}

func newTaxReport(r *carteira.Result) *taxReport {
	t := &taxReport{Year: r.TaxYear, Declarations: r.Declarations(), Total: r.TotalTax()}
	for _, m := range r.Taxes {
		stocks := m.Bucket(carteira.Stock)
		t.Months = append(t.Months, taxMonth{
			Month:       m.Month,
			StockSales:  stocks.Sales,
			Exempt:      stocks.Sales.IsPositive() && m.StockExempt(),
			StockProfit: stocks.Profit,
			REITProfit:  m.Bucket(carteira.REITFund).Profit,
			ETFProfit:   m.Bucket(carteira.ETF).Profit,
			Tax:         m.Tax,
		})
	}
	return t
}

// TaxReport renders the "Bens e Direitos" and "Renda Variável" sections of
// the annual tax return for the tax year of r.
func TaxReport(r *carteira.Result) string {
	partials := map[string]string{
		"tax_report_assets": "tax_report_assets.md",
		"tax_report_months": "tax_report_months.md",
	}
	return renderTemplate("taxReport", "tax_report.md", partials, newTaxReport(r))
}
