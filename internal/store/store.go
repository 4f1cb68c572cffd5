// Package store holds the authoritative in-memory record set for one table
// session. It is the only shared mutable state in the controller core; all
// derived views (filtering, paging) are computed from copies it hands out.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sodiqltd/stockboard/internal/domain/models"
)

var (
	// ErrClosed is returned once the owning session has been torn down.
	// Mutation callbacks resolving after teardown treat it as a no-op.
	ErrClosed = errors.New("record store closed")

	// ErrNotFound is returned by Replace and Remove for unknown ids.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID guards the unique-id invariant on Load and Insert.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Store is a mutex-guarded list of stock records. Operations are synchronous
// and never call the remote service.
type Store struct {
	mu     sync.Mutex
	items  []models.StockItem
	closed bool
}

func New() *Store {
	return &Store{}
}

// Load replaces the entire record set with the result of the initial fetch,
// normalizing each record's stock-keeping code.
func (s *Store) Load(items []models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	seen := make(map[string]struct{}, len(items))
	loaded := make([]models.StockItem, len(items))
	for i, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		seen[item.ID] = struct{}{}
		item.Normalize()
		loaded[i] = item
	}

	s.items = loaded
	return nil
}

// Insert prepends a newly created record. Most-recent-first ordering is a
// front-end convention carried over from the dashboard.
func (s *Store) Insert(item models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.indexOf(item.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
	}

	item.Normalize()
	s.items = append([]models.StockItem{item}, s.items...)
	return nil
}

// Replace merges the editable fields of draft over the stored record with the
// matching id, leaving provenance fields untouched.
func (s *Store) Replace(id string, draft models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.items[i].Name = draft.Name
	s.items[i].SKU = draft.SKU
	s.items[i].BuyingPrice = draft.BuyingPrice
	s.items[i].Quantity = draft.Quantity
	s.items[i].CurrencyCode = draft.CurrencyCode
	return nil
}

// Remove deletes the record with the matching id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Get returns a copy of the record with the matching id.
func (s *Store) Get(id string) (models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.StockItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.items[i], nil
}

// Items returns a copy of the full ordered record list.
func (s *Store) Items() []models.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.StockItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the current record count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close detaches the store from its session. Every later mutation returns
// ErrClosed, which callers resolving in-flight remote calls must swallow.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
