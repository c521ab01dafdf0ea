package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

// setup points the application to an empty data directory and captures its output.
func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv(EnvTestingNow, "2024-06-30 12:00:00")

	oldDir, oldRaw, oldOut := dataDir, raw, stdout
	dir := filepath.Join(t.TempDir(), "data")
	yes := true
	dataDir, raw = &dir, &yes
	var out bytes.Buffer
	stdout = &out
	t.Cleanup(func() { dataDir, raw, stdout = oldDir, oldRaw, oldOut })
	return &out
}

// run executes a command with args, as the commander would.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %q: %v", cmd.Name(), args, err)
	}
	return cmd.Execute(context.Background(), f)
}

func mustRun(t *testing.T, cmd subcommands.Command, args ...string) {
	t.Helper()
	if status := run(t, cmd, args...); status != subcommands.ExitSuccess {
		t.Fatalf("%s %q: status = %v, want success", cmd.Name(), args, status)
	}
}

func TestTradeLifecycle(t *testing.T) {
	out := setup(t)

	mustRun(t, &buyCmd{}, "-d", "2024-01-10", "-broker", "XP", "VALE3", "1000", "60")
	mustRun(t, &sellCmd{}, "-d", "2024-03-10", "-fees", "4,90", "vale3", "500", "70")
	if got := out.String(); !strings.Contains(got, "Transação #2 registrada: Venda de 500 VALE3 a R$70,00 em 2024-03-10") {
		t.Errorf("sell output = %q", got)
	}

	out.Reset()
	mustRun(t, &transactionsCmd{})
	for _, want := range []string{
		"| 1 | 2024-01-10 | Compra | VALE3 | Ação | 1000 | R$60,00 | R$0,00 | R$60.000,00 | XP |",
		"| 2 | 2024-03-10 | Venda | VALE3 | Ação | 500 | R$70,00 | R$4,90 | R$34.995,10 |  |",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("transactions output does not contain %q:\n%s", want, out)
		}
	}

	out.Reset()
	mustRun(t, &transactionsCmd{}, "-since", "2024-02-01")
	if strings.Contains(out.String(), "Compra") {
		t.Errorf("transactions -since listed an older transaction:\n%s", out)
	}

	mustRun(t, &removeCmd{}, "1")
	if status := run(t, &removeCmd{}, "1"); status != subcommands.ExitFailure {
		t.Errorf("removing a missing transaction: status = %v, want failure", status)
	}
	out.Reset()
	mustRun(t, &transactionsCmd{})
	if strings.Contains(out.String(), "Compra") || !strings.Contains(out.String(), "Venda") {
		t.Errorf("transactions after remove:\n%s", out)
	}
}

func TestBuy_Invalid(t *testing.T) {
	setup(t)
	tests := [][]string{
		{"PETR4", "100"},
		{"PETR4", "-5", "30"},
		{"PETR4", "abc", "30"},
		{"-d", "2024-13-45", "PETR4", "10", "30"},
		{"-class", "imovel", "PETR4", "10", "30"},
	}
	for _, args := range tests {
		if status := run(t, &buyCmd{}, args...); status != subcommands.ExitFailure {
			t.Errorf("buy %q: status = %v, want failure", args, status)
		}
	}
	// nothing was saved
	if _, err := os.Stat(filepath.Join(*dataDir, "transactions.jsonl")); err == nil {
		t.Error("invalid transactions were saved")
	}
}

func TestReport(t *testing.T) {
	out := setup(t)
	mustRun(t, &buyCmd{}, "-d", "2024-01-10", "-broker", "XP", "VALE3", "1000", "60")
	mustRun(t, &sellCmd{}, "-d", "2024-03-10", "VALE3", "500", "70")
	mustRun(t, &buyCmd{}, "-d", "2025-01-10", "PETR4", "10", "30")

	out.Reset()
	csvFile := filepath.Join(t.TempDir(), "bens.csv")
	mustRun(t, &reportCmd{}, "-year", "2024", "-csv", csvFile)
	for _, want := range []string{"Bens e Direitos", "500 COTA(S) DE AÇÃO VALE3", "| 2024-03 | R$35.000,00 | +R$5.000,00 |"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out.String(), "PETR4") {
		t.Errorf("report of 2024 lists a 2025 purchase:\n%s", out)
	}

	content, err := os.ReadFile(csvFile)
	if err != nil {
		t.Fatal(err)
	}
	want := "Ticker,Tipo,Quantidade,Custo Total,Preço Médio\nVALE3,Ação,500,30000.00,60.00\n"
	if string(content) != want {
		t.Errorf("csv = %q, want %q", content, want)
	}
}

func TestFavorite(t *testing.T) {
	out := setup(t)
	mustRun(t, &favoriteCmd{}, "wege3", "itub4")
	if got := out.String(); !strings.Contains(got, "Favoritos: ITUB4, WEGE3") {
		t.Errorf("favorite output = %q", got)
	}
	mustRun(t, &favoriteCmd{}, "-rm", "ITUB4")

	out.Reset()
	mustRun(t, &favoriteCmd{})
	if got := out.String(); !strings.Contains(got, "| WEGE3 | - | - |") || strings.Contains(got, "ITUB4") {
		t.Errorf("watchlist = %q", got)
	}
}

func TestDividends(t *testing.T) {
	out := setup(t)
	mustRun(t, &buyCmd{}, "-d", "2024-01-10", "MXRF11", "100", "10")
	mustRun(t, &dividendCmd{}, "-d", "2024-04-15", "mxrf11", "10,50")
	if status := run(t, &dividendCmd{}, "MXRF11", "0"); status != subcommands.ExitFailure {
		t.Errorf("zero dividend: status = %v, want failure", status)
	}

	out.Reset()
	mustRun(t, &dividendsCmd{}, "-view", "yearly")
	if got := out.String(); !strings.Contains(got, "| 2024 | R$10,50 |") {
		t.Errorf("dividends output:\n%s", got)
	}
	if status := run(t, &dividendsCmd{}, "-view", "weekly"); status != subcommands.ExitFailure {
		t.Errorf("unknown view: status = %v, want failure", status)
	}
}

func TestDashboard(t *testing.T) {
	out := setup(t)
	mustRun(t, &buyCmd{}, "-d", "2024-01-10", "PETR4", "100", "30")
	out.Reset()
	mustRun(t, &dashboardCmd{})
	if got := out.String(); !strings.Contains(got, "| PETR4 | Ação | Petróleo e Gás | 100 | R$30,00 | R$30,00* |") {
		t.Errorf("dashboard output:\n%s", got)
	}
	out.Reset()
	mustRun(t, &chartsCmd{}, "-top", "1")
	if got := out.String(); !strings.Contains(got, "Maiores Posições") {
		t.Errorf("charts output:\n%s", got)
	}
}

func TestDashboard_SkipAnomalies(t *testing.T) {
	out := setup(t)
	mustRun(t, &sellCmd{}, "-d", "2024-01-10", "VALE3", "10", "60")
	out.Reset()
	mustRun(t, &dashboardCmd{})
	if got := out.String(); !strings.Contains(got, "Anomalias") {
		t.Errorf("dashboard output:\n%s", got)
	}
	out.Reset()
	mustRun(t, &dashboardCmd{}, "-skip-anomalies")
	if got := out.String(); strings.Contains(got, "Anomalias") {
		t.Errorf("dashboard -skip-anomalies output:\n%s", got)
	}
}

func TestAIWithoutKey(t *testing.T) {
	setup(t)
	t.Setenv("GEMINI_API_KEY", "")
	mustRun(t, &favoriteCmd{}, "PETR4")
	for _, cmd := range []subcommands.Command{&updateCmd{}, &newsCmd{}, &chatCmd{}} {
		if status := run(t, cmd, "PETR4"); status != subcommands.ExitFailure {
			t.Errorf("%s without API key: status = %v, want failure", cmd.Name(), status)
		}
	}
}

func TestCompletion(t *testing.T) {
	global := flag.NewFlagSet("cart", flag.ContinueOnError)
	global.String("data", "", "")
	global.Bool("v", false, "")
	c := Completion(global)

	for _, name := range []string{"buy", "sell", "report", "topic", "assist"} {
		if c.Sub[name] == nil {
			t.Errorf("missing completion for %s", name)
		}
	}
	if _, ok := c.Sub["buy"].Flags["fees"]; !ok {
		t.Errorf("buy flags = %v, want fees", c.Sub["buy"].Flags)
	}
	if c.Sub["buy"].Args == nil || c.Sub["report"].Args != nil {
		t.Error("only ticker commands complete tickers")
	}
	if got := predictTickers.Predict("wege"); len(got) != 1 || got[0] != "WEGE3" {
		t.Errorf("predictTickers(wege) = %q", got)
	}
	if _, ok := c.Flags["data"]; !ok {
		t.Errorf("global flags = %v, want data", c.Flags)
	}
}

func TestTopic(t *testing.T) {
	out := setup(t)
	mustRun(t, &topicCmd{}, "-list")
	if got := out.String(); !strings.Contains(got, "* `tax`: Tax") {
		t.Errorf("topic -list output:\n%s", got)
	}
	out.Reset()
	mustRun(t, &topicCmd{}, "dates")
	if got := out.String(); !strings.HasPrefix(got, "# Dates") {
		t.Errorf("topic dates output:\n%s", got)
	}
	if status := run(t, &topicCmd{}, "nope"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic: status = %v, want failure", status)
	}
}
