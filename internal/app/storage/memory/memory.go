package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]bankproduct.BankProduct
}

var _ storage.BankProductStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:   1,
		products: make(map[int64]bankproduct.BankProduct),
	}
}

func (s *Store) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// BankProductStore implementation --------------------------------------------

func (s *Store) InsertBankProduct(_ context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = p.Clone()
	p.ID = s.nextIDLocked()
	s.products[p.ID] = p
	return p.Clone(), nil
}

func (s *Store) GetBankProduct(_ context.Context, id int64) (bankproduct.BankProduct, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return bankproduct.BankProduct{}, false, nil
	}
	return p.Clone(), true, nil
}

func (s *Store) ListBankProducts(_ context.Context) ([]bankproduct.BankProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]bankproduct.BankProduct, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) ReplaceBankProduct(_ context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return bankproduct.BankProduct{}, storage.ErrNotFound
	}
	p = p.Clone()
	s.products[p.ID] = p
	return p.Clone(), nil
}

func (s *Store) DeleteBankProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	return nil
}

func (s *Store) DeleteAllBankProducts(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make(map[int64]bankproduct.BankProduct)
	return nil
}

func (s *Store) BankProductExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[id]
	return ok, nil
}

func (s *Store) CountBankProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.products)), nil
}
