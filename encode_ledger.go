package carteira

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransactions writes transactions as JSONL, one per line, in the given order.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	return encodeJSONL(w, txs)
}

// DecodeTransactions reads a JSONL stream of transactions. Every line is
// validated; the first invalid line aborts decoding.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	txs, err := decodeJSONL[Transaction](r, "transaction")
	if err != nil {
		return nil, err
	}
	for i, tx := range txs {
		valid, err := tx.Validate()
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", tx.ID, err)
		}
		txs[i] = valid
	}
	return txs, nil
}

// encodeJSONL writes one JSON document per line.
func encodeJSONL[T any](w io.Writer, items []T) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("could not encode %T: %w", item, err)
		}
		bw.Write(b)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// decodeJSONL reads one JSON document per line, empty lines are skipped.
// what names the items in error messages.
func decodeJSONL[T any](r io.Reader, what string) ([]T, error) {
	var items []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(b, &item); err != nil {
			return nil, fmt.Errorf("could not decode %s on line %d %q: %w", what, line, string(b), err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read %s: %w", what, err)
	}
	return items, nil
}
