package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"google.golang.org/genai"
)

func testBooks() Books {
	s := carteira.NewSnapshot()
	s.Transactions = []carteira.Transaction{
		carteira.NewBuy(date.MustParse("2023-05-02"), "PETR4", carteira.Stock, carteira.Q(100), carteira.BRL(30), carteira.BRL(0), "XP"),
		carteira.NewBuy(date.MustParse("2024-02-01"), "MXRF11", carteira.REITFund, carteira.Q(10), carteira.BRL(10), carteira.BRL(0), ""),
	}
	for i := range s.Transactions {
		s.Transactions[i].ID = int64(i + 1)
	}
	return Books{Snapshot: s, TaxYear: 2023, Today: date.MustParse("2024-06-30")}
}

// call runs a function of the accountant library and returns its output or error.
func call(t *testing.T, lib Library, name string, args map[string]any) (out, errMsg string) {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.Name != name || resp.ID != "1" {
		t.Errorf("response = %s/%s, want %s/1", resp.Name, resp.ID, name)
	}
	out, _ = resp.Response["output"].(string)
	errMsg, _ = resp.Response["error"].(string)
	return out, errMsg
}

func TestAccountant_Library(t *testing.T) {
	lib := NewAccountant(testBooks()).Library

	tests := []struct {
		name string
		args map[string]any
		want []string
		not  []string
	}{
		{"holdings", nil, []string{"# Carteira", "PETR4", "MXRF11"}, nil},
		{"transactions", map[string]any{"ticker": "petr4"}, []string{"PETR4"}, []string{"MXRF11"}},
		{"transactions", map[string]any{"since": "2024-01-01"}, []string{"MXRF11"}, []string{"PETR4"}},
		{"tax_report", nil, []string{"# Imposto de Renda 2023", "PETR4"}, []string{"MXRF11"}},
		{"tax_report", map[string]any{"year": float64(2024)}, []string{"# Imposto de Renda 2024", "PETR4", "MXRF11"}, nil},
		{"dividends", map[string]any{"view": "yearly"}, []string{"# Proventos"}, nil},
		{"search_asset", map[string]any{"query": "PETR"}, []string{"PETR3", "PETR4"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errMsg := call(t, lib, tt.name, tt.args)
			if errMsg != "" {
				t.Fatalf("%s() error = %s", tt.name, errMsg)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("%s() missing %q in:\n%s", tt.name, w, out)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(out, n) {
					t.Errorf("%s() unexpected %q in:\n%s", tt.name, n, out)
				}
			}
		})
	}
}

func TestAccountant_LibraryErrors(t *testing.T) {
	lib := NewAccountant(testBooks()).Library

	if _, errMsg := call(t, lib, "transactions", map[string]any{"since": "someday"}); errMsg == "" {
		t.Error("transactions(since=someday) succeeded, want an error")
	}
	if _, errMsg := call(t, lib, "dividends", map[string]any{"view": "hourly"}); errMsg == "" {
		t.Error("dividends(view=hourly) succeeded, want an error")
	}
	if _, errMsg := call(t, lib, "quotes", nil); !strings.Contains(errMsg, "unknown function") {
		t.Errorf("quotes() error = %q, want unknown function", errMsg)
	}
}

func TestAccountant_Declaration(t *testing.T) {
	e := NewAccountant(testBooks())
	d := e.Declaration()
	if d.Name != "Accountant" {
		t.Errorf("Declaration().Name = %q, want Accountant", d.Name)
	}
	decls := e.Config.Tools[0].FunctionDeclarations
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "holdings,transactions,tax_report,dividends,search_asset" {
		t.Errorf("functions = %s", got)
	}
}

func TestAnswerText(t *testing.T) {
	c := &genai.Content{Parts: []*genai.Part{
		{Text: "pensando...", Thought: true},
		{Text: "Sua carteira tem "},
		{Text: "2 ativos."},
	}}
	if got, want := answerText(c), "Sua carteira tem 2 ativos."; got != want {
		t.Errorf("answerText() = %q, want %q", got, want)
	}
}
