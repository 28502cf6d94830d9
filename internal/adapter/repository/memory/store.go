// Package memory keeps products and price history in process memory. It backs
// local runs without a database and the HTTP end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// Store holds committed state. The zero value is not usable; call NewStore.
type Store struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.ProductSnapshot
	tickers  map[string]uuid.UUID
	history  map[uuid.UUID][]domain.PriceHistory
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		products: make(map[uuid.UUID]domain.ProductSnapshot),
		tickers:  make(map[string]uuid.UUID),
		history:  make(map[uuid.UUID][]domain.PriceHistory),
	}
}

// HealthCheck always succeeds
func (s *Store) HealthCheck(context.Context) error {
	return nil
}

func (s *Store) productByID(id uuid.UUID) (domain.ProductSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.products[id]
	return snap, ok
}

func (s *Store) productByTicker(ticker string) (domain.ProductSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tickers[ticker]
	if !ok {
		return domain.ProductSnapshot{}, false
	}
	return s.products[id], true
}

func (s *Store) allProducts() []domain.ProductSnapshot {
	s.mu.RLock()
	all := make([]domain.ProductSnapshot, 0, len(s.products))
	for _, snap := range s.products {
		all = append(all, snap)
	}
	s.mu.RUnlock()

	sortSnapshots(all)
	return all
}

func (s *Store) historyOf(productID uuid.UUID) []domain.PriceHistory {
	s.mu.RLock()
	entries := append([]domain.PriceHistory(nil), s.history[productID]...)
	s.mu.RUnlock()

	sortHistory(entries)
	return entries
}

// apply commits a batch of writes atomically. Ticker uniqueness is checked
// against committed state under the write lock.
func (s *Store) apply(adds []domain.ProductSnapshot, updates map[uuid.UUID]domain.ProductSnapshot, entries []domain.PriceHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range adds {
		if _, taken := s.tickers[snap.Ticker]; taken {
			return domain.NewDuplicateTickerError(snap.Ticker)
		}
	}
	for id := range updates {
		if _, ok := s.products[id]; !ok && !containsID(adds, id) {
			return domain.NewNotFoundError()
		}
	}

	for _, snap := range adds {
		s.products[snap.ID] = snap
		s.tickers[snap.Ticker] = snap.ID
	}
	for id, snap := range updates {
		s.products[id] = snap
	}
	for _, e := range entries {
		s.history[e.ProductID] = append(s.history[e.ProductID], e)
	}
	return nil
}

func containsID(snaps []domain.ProductSnapshot, id uuid.UUID) bool {
	for _, s := range snaps {
		if s.ID == id {
			return true
		}
	}
	return false
}

func sortSnapshots(all []domain.ProductSnapshot) {
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
}

func sortHistory(entries []domain.PriceHistory) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

func restore(snaps []domain.ProductSnapshot) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(snaps))
	for _, snap := range snaps {
		p, err := domain.RestoreProduct(snap)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
