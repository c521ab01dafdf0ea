// Package carteira manages a personal portfolio of assets listed on the
// Brazilian exchange (B3) and derives from it everything needed to follow it
// and to declare it.
//
// The core functionalities include:
//   - Ledger Management: recording buys and sells, with fees and broker, in an
//     append-only list of transactions.
//   - Accounting Engine: a pure function, Rebuild, that replays the ledger and
//     produces positions at weighted-average cost, realized profit, the
//     year-end snapshot and the monthly tax buckets of a tax year.
//   - Valuation: market value and return of the open positions against the
//     latest quotes, with charts by segment, class and asset.
//   - Dividends: merge of received and forecast distributions, grouped by
//     month, year and ticker, with the yield on the invested capital.
//   - Tax Report: the "Bens e Direitos" declarations and the monthly
//     "Renda Variável" rows with the estimated tax.
//   - Data Persistence: a Repository mirroring the portfolio data in JSON and
//     JSONL files.
//
// This package serves as the foundational logic for the `cart` command-line
// tool.
package carteira
