package carteira

import (
	"errors"
	"testing"

	"github.com/etnz/carteira/date"
	"github.com/google/go-cmp/cmp"
)

func TestLedger_Append(t *testing.T) {
	l := NewLedger()
	stored := l.Append(buy("2024-01-10", "X", 1, 1, 0), buy("2024-01-05", "Y", 1, 1, 0))
	if stored[0].ID != 1 || stored[1].ID != 2 {
		t.Errorf("Append() IDs = %d, %d, want 1, 2", stored[0].ID, stored[1].ID)
	}
	if err := l.Remove(1); err != nil {
		t.Fatalf("Remove(1) error = %v", err)
	}
	// IDs keep growing from the highest one
	stored = l.Append(buy("2024-01-11", "Z", 1, 1, 0))
	if stored[0].ID != 3 {
		t.Errorf("Append() ID = %d, want 3", stored[0].ID)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestLedger_Remove(t *testing.T) {
	l := NewLedger()
	l.Append(buy("2024-01-10", "X", 1, 1, 0))
	if err := l.Remove(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(42) error = %v, want ErrNotFound", err)
	}
	if _, err := l.Get(1); err != nil {
		t.Errorf("Get(1) error = %v", err)
	}
	if err := l.Remove(1); err != nil {
		t.Errorf("Remove(1) error = %v", err)
	}
	if _, err := l.Get(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(1) error = %v, want ErrNotFound", err)
	}
}

func TestLedger_Sorted(t *testing.T) {
	l := NewLedger()
	l.Append(
		buy("2024-03-01", "C", 1, 1, 0),
		buy("2024-01-01", "A", 1, 1, 0),
		buy("2024-03-01", "B", 1, 1, 0),
	)
	var got []string
	for _, tx := range l.Sorted() {
		got = append(got, tx.Ticker)
	}
	if diff := cmp.Diff([]string{"A", "C", "B"}, got); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, l.Tickers()); diff != "" {
		t.Errorf("Tickers() mismatch (-want +got):\n%s", diff)
	}
	// insertion order is kept
	if first := l.Transactions()[0]; first.Date != date.MustParse("2024-03-01") {
		t.Errorf("Transactions()[0].Date = %v, want 2024-03-01", first.Date)
	}
}
