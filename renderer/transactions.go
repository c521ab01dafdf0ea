package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
)

var opLabels = map[carteira.Operation]string{carteira.Buy: "Compra", carteira.Sell: "Venda"}

// Transactions renders the transactions as a table, in the given order.
func Transactions(txs []carteira.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transações\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "Nenhuma transação.")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Data | Operação | Ativo | Tipo | Quantidade | Preço | Taxas | Total | Corretora |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|:---|---:|---:|---:|---:|:---|")
	for _, tx := range txs {
		total := tx.Cost()
		if tx.Op == carteira.Sell {
			total = tx.Proceeds()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.ID, tx.Date, opLabels[tx.Op], tx.Ticker, tx.Class.Label(),
			tx.Quantity, tx.Price, tx.Fees, total, cell(tx.Broker))
	}
	return b.String()
}

// Transaction renders a transaction to a one line sentence.
func Transaction(tx carteira.Transaction) string {
	switch tx.Op {
	case carteira.Buy:
		return fmt.Sprintf("Compra de %s %s a %s em %s", tx.Quantity, tx.Ticker, tx.Price, tx.Date)
	case carteira.Sell:
		return fmt.Sprintf("Venda de %s %s a %s em %s", tx.Quantity, tx.Ticker, tx.Price, tx.Date)
	default:
		return tx.String()
	}
}
