package carteira

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AssetClass is the tax class of an asset.
type AssetClass string

const (
	Stock          AssetClass = "STOCK"
	REITFund       AssetClass = "REIT_FUND"
	ETF            AssetClass = "ETF"
	ForeignReceipt AssetClass = "FOREIGN_RECEIPT"
	Crypto         AssetClass = "CRYPTO"
)

// AssetClasses lists all classes in display order.
var AssetClasses = []AssetClass{Stock, REITFund, ETF, ForeignReceipt, Crypto}

type classInfo struct {
	label  string // display label
	code   string // Receita Federal "Bens e Direitos" code
	legacy string // label used by the browser application storage
}

var classInfos = map[AssetClass]classInfo{
	Stock:          {"Ação", "31", "ACAO"},
	REITFund:       {"FII", "73", "FII"},
	ETF:            {"ETF", "74", "ETF"},
	ForeignReceipt: {"BDR", "49", "BDR"},
	Crypto:         {"Cripto", "01", "CRIPTO"},
}

// Label returns the display label of the class, "Outros" for unknown classes.
func (c AssetClass) Label() string {
	if info, ok := classInfos[c]; ok {
		return info.label
	}
	return "Outros"
}

// Code returns the "Bens e Direitos" code of the class.
func (c AssetClass) Code() string { return classInfos[c].code }

// Valid reports whether c is one of the known classes.
func (c AssetClass) Valid() bool {
	_, ok := classInfos[c]
	return ok
}

// ParseAssetClass reads a class name. The legacy labels ACAO, FII, BDR and
// CRIPTO are accepted as well as lowercase names.
func ParseAssetClass(s string) (AssetClass, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if c := AssetClass(s); c.Valid() {
		return c, nil
	}
	for c, info := range classInfos {
		if info.legacy == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}

// UnmarshalJSON accepts both current and legacy class names.
func (c *AssetClass) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseAssetClass(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Operation is the kind of a trade.
type Operation string

const (
	Buy  Operation = "BUY"
	Sell Operation = "SELL"
)

// ParseOperation reads an operation, the Portuguese COMPRA/VENDA are accepted.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "COMPRA", "C":
		return Buy, nil
	case "SELL", "VENDA", "V":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

// UnmarshalJSON accepts both English and Portuguese operation names.
func (o *Operation) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseOperation(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
