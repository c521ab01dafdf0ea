package carteira

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/carteira/date"
	"github.com/google/go-cmp/cmp"
)

func sampleSnapshot() *Snapshot {
	s := NewSnapshot()
	s.Transactions = NewLedger().Append(
		withBroker(buy("2024-01-10", "PETR4", 100, 30.5, 1.25), "XP"),
		sell("2024-02-10", "PETR4", 40, 35, 0),
	)
	s.Dividends = []DividendRecord{{Ticker: "PETR4", Date: date.MustParse("2024-05-20"), Value: BRL(55.3)}}
	s.Predictions = []PredictedDividend{{Ticker: "PETR4", Date: date.MustParse("2024-08-20"), Kind: "JCP", Value: BRL(0.61), Info: "data com 10/08"}}
	s.SetPrices(map[string]Quote{"PETR4": {Price: BRL(36.12), Change: -0.8}})
	s.Trailing["PETR4"] = BRL(4.2)
	s.AddFavorite("vale3")
	s.AddFavorite("ITUB4")
	s.News = []NewsItem{{ID: "n1", Ticker: "PETR4", Date: date.MustParse("2024-08-01"), Title: "Resultado", Summary: "Lucro acima do esperado."}}
	return s
}

func TestFileRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo := NewFileRepository(dir)

	// a missing directory loads as empty
	empty, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(empty.Transactions) != 0 || len(empty.Prices) != 0 {
		t.Errorf("Load() of a missing directory = %+v, want empty", empty)
	}

	want := sampleSnapshot()
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpOptions); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	// no temporary file is left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 7 {
		t.Errorf("len(ReadDir()) = %d, want 7", len(entries))
	}
}

func TestFileRepository_Corrupted(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, transactionsFile), []byte("{not json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileRepository(dir).Load(); err == nil {
		t.Errorf("Load() error = nil, want an error")
	}
}

func TestMemoryRepository(t *testing.T) {
	var repo MemoryRepository
	if s, err := repo.Load(); err != nil || len(s.Transactions) != 0 {
		t.Fatalf("Load() = %v, %v, want an empty snapshot", s, err)
	}
	want := sampleSnapshot()
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpOptions); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_Favorites(t *testing.T) {
	s := NewSnapshot()
	if !s.AddFavorite("petr4") || s.AddFavorite("PETR4") {
		t.Errorf("AddFavorite() does not deduplicate")
	}
	s.AddFavorite("ABEV3")
	if diff := cmp.Diff([]string{"ABEV3", "ITUB4", "PETR4"}, s.Watchlist([]string{"ITUB4", "PETR4"})); diff != "" {
		t.Errorf("Watchlist() mismatch (-want +got):\n%s", diff)
	}
	if !s.RemoveFavorite("abev3") || s.RemoveFavorite("ABEV3") {
		t.Errorf("RemoveFavorite() = unexpected result")
	}
}
