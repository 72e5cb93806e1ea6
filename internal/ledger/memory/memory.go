package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// Store is an in-memory ledger source seeded from rows or a CSV file.
type Store struct {
	mu   sync.Mutex
	rows [][]string
}

func New(rows [][]string) *Store {
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	return &Store{rows: copied}
}

// NewFromCSV loads a ledger from a CSV file whose first row is the header.
func NewFromCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	return New(rows), nil
}

// GetAllRows returns a copy of the seeded rows, header row first.
func (s *Store) GetAllRows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}
