package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/docs"
	"github.com/etnz/carteira/renderer"
	"google.golang.org/genai"
)

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.
			The user is a Brazilian investor, answer in the language of the request, Portuguese by default.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand his portfolio on B3: positions, dividends,
			income tax on sales and the "Bens e Direitos" declaration, and news about his assets.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.

			The user will assume that you know about his tickers, check the portfolio first to understand what they are.
			Never give a buy or sell recommendation, only facts and their sources.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded with Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader on B3,
		Very well aware of all the Brazilian listed companies, real estate funds (FII) and ETFs,
		about the latest news, the announced dividends and JCP.
		Ask the Trader whenever you need recent or grounding information.`,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in Trading on the Brazilian exchange (B3), you can search and find about anything related to
			financial institutions, companies, real estate funds, markets etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// Books is what the Accountant knows about the portfolio.
type Books struct {
	Snapshot *carteira.Snapshot
	TaxYear  int       // default tax year
	Today    date.Date // reference date of the charts
}

func (b Books) rebuild(year int) carteira.Result {
	return carteira.Rebuild(b.Snapshot.Inputs(year, b.Today))
}

// NewAccountant returns an expert that reads the user's portfolio.
func NewAccountant(b Books) *Expert {
	lib := []Function{
		holdingsFunc(b),
		transactionsFunc(b),
		taxReportFunc(b),
		dividendsFunc(b),
		searchAssetFunc(),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's portfolio's ledger.
		He can compute positions at average cost, realized profit, the monthly income tax on sales,
		the "Bens e Direitos" declaration and the dividends received or expected.`,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's portfolio's ledger on B3.
				You know how to use the Tools to extract relevant information about the user's portfolio and wealth.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the user's portfolio
				  - holdings and their valuation
				  - transactions
				  - income tax report of a year
				  - dividends
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func holdingsFunc(b Books) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "holdings",
			Description: "holdings lists the open positions with their quantity, average cost, latest price, market value and return, and the portfolio totals.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted dashboard of the portfolio.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			res := b.rebuild(b.TaxYear)
			return renderer.Dashboard(&res), nil
		},
	}
}

func transactionsFunc(b Books) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "transactions",
			Description: "transactions lists the buys and sells recorded in the ledger, optionally for a single ticker.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ticker": {Type: genai.TypeString, Description: "The B3 ticker, like PETR4 or MXRF11."},
					"since": {
						Type: genai.TypeString,
						Description: `Only list transactions on or after this date.
						` + must(docs.GetTopic("dates")),
					},
				},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of transactions."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			ticker, _ := args["ticker"].(string)
			ticker = strings.ToUpper(strings.TrimSpace(ticker))
			var since date.Date
			if s, ok := args["since"].(string); ok && s != "" {
				on, err := date.Parse(s)
				if err != nil {
					return "", fmt.Errorf("argument 'since' must be a valid date got %q", s)
				}
				since = on
			}
			var txs []carteira.Transaction
			for _, tx := range b.Snapshot.Ledger().Sorted() {
				if (ticker == "" || tx.Ticker == ticker) && !tx.Date.Before(since) {
					txs = append(txs, tx)
				}
			}
			return renderer.Transactions(txs), nil
		},
	}
}

func taxReportFunc(b Books) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "tax_report",
			Description: `tax_report computes the income tax report of a year: monthly sales and profit by asset class, the estimated tax (DARF), and the "Bens e Direitos" lines of the positions held on December 31st.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year": {Type: genai.TypeInteger, Description: fmt.Sprintf("The tax year, %d by default.", b.TaxYear)},
				},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown-formatted tax report."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			year := b.TaxYear
			switch y := args["year"].(type) {
			case float64:
				year = int(y)
			case int:
				year = y
			}
			res := b.rebuild(year)
			return renderer.TaxReport(&res), nil
		},
	}
}

func dividendsFunc(b Books) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "dividends",
			Description: "dividends summarizes the dividends received and expected, by month or by year, with the yield on the invested capital and the top payers.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"view": {Type: genai.TypeString, Enum: []string{"monthly", "yearly"}, Description: "monthly by default."},
				},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown-formatted dividend report."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			period := date.Monthly
			if v, ok := args["view"].(string); ok && v != "" {
				p, err := date.ParsePeriod(v)
				if err != nil {
					return "", err
				}
				period = p
			}
			res := b.rebuild(b.TaxYear)
			return renderer.Dividends(&res, period), nil
		},
	}
}

func searchAssetFunc() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "search_asset",
			Description: "search_asset finds B3 assets by ticker prefix or name, with their class and segment.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "A ticker prefix or part of the company name."},
				},
				Required: []string{"query"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "A markdown table of assets."},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			q, _ := args["query"].(string)
			return renderer.Assets(carteira.B3.Search(q)), nil
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
