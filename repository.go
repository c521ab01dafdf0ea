package carteira

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Repository loads and saves the portfolio snapshot.
//
// The engine never touches a Repository: callers load a Snapshot, run
// Rebuild on it and save it back after a mutation.
type Repository interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

// Files of a FileRepository directory.
const (
	transactionsFile = "transactions.jsonl"
	dividendsFile    = "dividends.jsonl"
	predictionsFile  = "predictions.jsonl"
	newsFile         = "news.jsonl"
	pricesFile       = "prices.json"
	trailingFile     = "trailing.json"
	favoritesFile    = "favorites.json"
)

// FileRepository stores a snapshot as one file per key in a directory.
// Missing files, and a missing directory, load as empty.
type FileRepository struct {
	Dir string
}

// NewFileRepository returns a repository rooted at dir.
func NewFileRepository(dir string) *FileRepository { return &FileRepository{Dir: dir} }

// Load reads every file of the directory.
func (r *FileRepository) Load() (*Snapshot, error) {
	s := NewSnapshot()
	var err error
	if s.Transactions, err = readFile(r.path(transactionsFile), DecodeTransactions); err != nil {
		return nil, err
	}
	if s.Dividends, err = readFile(r.path(dividendsFile), func(rd io.Reader) ([]DividendRecord, error) {
		return decodeJSONL[DividendRecord](rd, "dividend")
	}); err != nil {
		return nil, err
	}
	if s.Predictions, err = readFile(r.path(predictionsFile), func(rd io.Reader) ([]PredictedDividend, error) {
		return decodeJSONL[PredictedDividend](rd, "prediction")
	}); err != nil {
		return nil, err
	}
	if s.News, err = readFile(r.path(newsFile), func(rd io.Reader) ([]NewsItem, error) {
		return decodeJSONL[NewsItem](rd, "news")
	}); err != nil {
		return nil, err
	}
	if err := readJSON(r.path(pricesFile), &s.Prices); err != nil {
		return nil, err
	}
	if err := readJSON(r.path(trailingFile), &s.Trailing); err != nil {
		return nil, err
	}
	if err := readJSON(r.path(favoritesFile), &s.Favorites); err != nil {
		return nil, err
	}
	slices.Sort(s.Favorites)
	return s, nil
}

// Save writes every file of the directory, creating it if needed.
func (r *FileRepository) Save(s *Snapshot) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}
	var buf bytes.Buffer
	writes := []struct {
		name   string
		encode func(io.Writer) error
	}{
		{transactionsFile, func(w io.Writer) error { return EncodeTransactions(w, s.Transactions) }},
		{dividendsFile, func(w io.Writer) error { return encodeJSONL(w, s.Dividends) }},
		{predictionsFile, func(w io.Writer) error { return encodeJSONL(w, s.Predictions) }},
		{newsFile, func(w io.Writer) error { return encodeJSONL(w, s.News) }},
		{pricesFile, jsonEncoder(s.Prices)},
		{trailingFile, jsonEncoder(s.Trailing)},
		{favoritesFile, jsonEncoder(s.Favorites)},
	}
	for _, f := range writes {
		buf.Reset()
		if err := f.encode(&buf); err != nil {
			return fmt.Errorf("cannot encode %s: %w", f.name, err)
		}
		if err := atomicWrite(r.path(f.name), buf.Bytes()); err != nil {
			return fmt.Errorf("cannot write %s: %w", f.name, err)
		}
	}
	return nil
}

func (r *FileRepository) path(name string) string { return filepath.Join(r.Dir, name) }

// readFile decodes the file at path, a missing file decodes as nil.
func readFile[T any](path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return items, nil
}

// readJSON unmarshals the file at path into v, a missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	return nil
}

func jsonEncoder(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// atomicWrite replaces the file at path with data through a temporary file
// in the same directory.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// MemoryRepository keeps a snapshot in memory.
type MemoryRepository struct {
	mu       sync.Mutex
	snapshot []byte
}

// Load returns a copy of the last saved snapshot, or an empty one.
func (r *MemoryRepository) Load() (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := NewSnapshot()
	if r.snapshot == nil {
		return s, nil
	}
	if err := json.Unmarshal(r.snapshot, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores a copy of s.
func (r *MemoryRepository) Save(s *Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = data
	return nil
}
