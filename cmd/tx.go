package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
)

// tradeFlags are the flags shared by buy and sell.
type tradeFlags struct {
	date   string
	fees   string
	broker string
	class  string
}

func (p *tradeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Trade date (YYYY-MM-DD), defaults to today.")
	f.StringVar(&p.fees, "fees", "0", "Brokerage fees and taxes of the trade.")
	f.StringVar(&p.broker, "broker", "", "Broker holding the asset.")
	f.StringVar(&p.class, "class", "", "Asset class (acao, fii, etf, bdr, cripto), defaults to the catalog class.")
}

// transaction reads a trade from the flags and the TICKER QUANTITY PRICE arguments.
func (p *tradeFlags) transaction(op carteira.Operation, args []string) (carteira.Transaction, error) {
	if len(args) != 3 {
		return carteira.Transaction{}, fmt.Errorf("expected TICKER QUANTITY PRICE, got %d arguments", len(args))
	}
	ticker := strings.ToUpper(args[0])
	qty, err := carteira.ParseQuantity(args[1])
	if err != nil {
		return carteira.Transaction{}, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := carteira.ParseMoney(args[2])
	if err != nil {
		return carteira.Transaction{}, fmt.Errorf("invalid price: %w", err)
	}
	fees, err := carteira.ParseMoney(p.fees)
	if err != nil {
		return carteira.Transaction{}, fmt.Errorf("invalid fees: %w", err)
	}
	on := today()
	if p.date != "" {
		if on, err = date.Parse(p.date); err != nil {
			return carteira.Transaction{}, err
		}
	}
	class := carteira.Stock
	if a, ok := carteira.B3.Lookup(ticker); ok {
		class = a.Class
	}
	if p.class != "" {
		if class, err = carteira.ParseAssetClass(p.class); err != nil {
			return carteira.Transaction{}, err
		}
	}
	tx := carteira.Transaction{Date: on, Ticker: ticker, Op: op, Class: class, Quantity: qty, Price: price, Fees: fees, Broker: p.broker}
	return tx.Validate()
}

// record appends a validated trade to the ledger and saves it.
func record(op carteira.Operation, p *tradeFlags, args []string) subcommands.ExitStatus {
	tx, err := p.transaction(op, args)
	if err != nil {
		return fail("%v", err)
	}
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	if op == carteira.Sell {
		res := rebuild(s, tx.Date.Year())
		held := res.Positions[tx.Ticker].Quantity
		if held.LessThan(tx.Quantity) {
			newLogger().WithField("ticker", tx.Ticker).WithField("held", held).Warn("selling more units than held, the position will be closed")
		}
	}
	ledger := s.Ledger()
	added := ledger.Append(tx)
	s.Transactions = ledger.Transactions()
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Transação #%d registrada: %s\n", added[0].ID, renderer.Transaction(added[0]))
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of an asset" }
func (*buyCmd) Usage() string {
	return `cart buy [-d <date>] [-fees <amount>] [-broker <name>] [-class <class>] <ticker> <quantity> <price>

  Records the purchase of <quantity> units of <ticker> at <price> per unit.
  Decimal commas are accepted: 'cart buy PETR4 100 38,50'.
`
}
func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return record(carteira.Buy, &p.tradeFlags, f.Args())
}

type sellCmd struct{ tradeFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of an asset" }
func (*sellCmd) Usage() string {
	return `cart sell [-d <date>] [-fees <amount>] [-broker <name>] [-class <class>] <ticker> <quantity> <price>

  Records the sale of <quantity> units of <ticker> at <price> per unit.
`
}
func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return record(carteira.Sell, &p.tradeFlags, f.Args())
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "delete a transaction from the ledger" }
func (*removeCmd) Usage() string {
	return `cart remove <id>...

  Deletes transactions by ID, as listed by 'cart transactions'.
`
}
func (*removeCmd) SetFlags(*flag.FlagSet) {}
func (*removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return fail("missing transaction ID")
	}
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	ledger := s.Ledger()
	for _, arg := range f.Args() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fail("invalid transaction ID %q", arg)
		}
		if err := ledger.Remove(id); err != nil {
			return fail("%v", err)
		}
	}
	s.Transactions = ledger.Transactions()
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "%d transação(ões) removida(s).\n", f.NArg())
	return subcommands.ExitSuccess
}

type transactionsCmd struct {
	ticker string
	since  string
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*transactionsCmd) Usage() string {
	return `cart transactions [-ticker <ticker>] [-since <date>]

  Lists the transactions in processing order: by date, same-day
  transactions in insertion order.
`
}
func (p *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ticker, "ticker", "", "Only list the transactions of this ticker.")
	f.StringVar(&p.since, "since", "", "Only list the transactions on or after this date.")
}
func (p *transactionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	var since date.Date
	if p.since != "" {
		if since, err = date.Parse(p.since); err != nil {
			return fail("%v", err)
		}
	}
	txs := slices.DeleteFunc(s.Ledger().Sorted(), func(tx carteira.Transaction) bool {
		if p.ticker != "" && !strings.EqualFold(tx.Ticker, p.ticker) {
			return true
		}
		return tx.Date.Before(since)
	})
	printMarkdown(renderer.Transactions(txs))
	return subcommands.ExitSuccess
}

type dividendCmd struct {
	date string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend received" }
func (*dividendCmd) Usage() string {
	return `cart dividend [-d <date>] <ticker> <amount>

  Records the total amount of a dividend (or JCP, or FII income) received.
`
}
func (p *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Payment date (YYYY-MM-DD), defaults to today.")
}
func (p *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return fail("expected TICKER AMOUNT")
	}
	value, err := carteira.ParseMoney(f.Arg(1))
	if err != nil {
		return fail("invalid amount: %v", err)
	}
	if !value.IsPositive() {
		return fail("dividend amount must be positive")
	}
	on := today()
	if p.date != "" {
		if on, err = date.Parse(p.date); err != nil {
			return fail("%v", err)
		}
	}
	s, err := loadSnapshot()
	if err != nil {
		return fail("%v", err)
	}
	d := carteira.DividendRecord{Ticker: strings.ToUpper(f.Arg(0)), Date: on, Value: value}
	s.Dividends = append(s.Dividends, d)
	if err := saveSnapshot(s); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Provento de %s em %s registrado: %s\n", d.Ticker, d.Date, d.Value)
	return subcommands.ExitSuccess
}
