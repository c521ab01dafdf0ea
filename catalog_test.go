package carteira

import (
	"testing"
)

func TestCatalog_Lookup(t *testing.T) {
	a, ok := B3.Lookup("petr4")
	if !ok {
		t.Fatalf("Lookup(petr4) not found")
	}
	if a.Class != Stock || a.Segment != "Petróleo e Gás" {
		t.Errorf("Lookup(petr4) = %+v", a)
	}
	if got := B3.Segment("NOPE3"); got != OtherSegment {
		t.Errorf("Segment(NOPE3) = %q, want %q", got, OtherSegment)
	}
	var nilCatalog *Catalog
	if _, ok := nilCatalog.Lookup("PETR4"); ok {
		t.Errorf("nil catalog Lookup() found something")
	}
}

func TestCatalog_Search(t *testing.T) {
	c := NewCatalog(
		Asset{Ticker: "ITSA4", Name: "Itaúsa PN", Class: Stock},
		Asset{Ticker: "BBAS3", Name: "Banco do Brasil ON", Class: Stock},
		Asset{Ticker: "ITUB4", Name: "Itaú Unibanco PN", Class: Stock},
		Asset{Ticker: "XPTO3", Name: "Alguma ITx", Class: Stock},
		Asset{Ticker: "itub4", Name: "duplicate", Class: Stock},
	)
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	var got []string
	for _, a := range c.Search("it") {
		got = append(got, a.Ticker)
	}
	want := []string{"ITSA4", "ITUB4", "XPTO3"}
	if len(got) != len(want) {
		t.Fatalf("Search(it) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Search(it)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if res := B3.Search("3"); len(res) > 30 {
		t.Errorf("len(Search(3)) = %d, want at most 30", len(res))
	}
	if res := c.Search("  "); res != nil {
		t.Errorf("Search() of blank = %v, want nil", res)
	}
}

func TestParseAssetClass(t *testing.T) {
	testCases := []struct {
		in   string
		want AssetClass
	}{
		{"STOCK", Stock},
		{"ACAO", Stock},
		{"FII", REITFund},
		{"REIT_FUND", REITFund},
		{"BDR", ForeignReceipt},
		{"CRIPTO", Crypto},
	}
	for _, tc := range testCases {
		got, err := ParseAssetClass(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseAssetClass(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseAssetClass("BOND"); err == nil {
		t.Errorf("ParseAssetClass(BOND) error = nil, want an error")
	}
}
