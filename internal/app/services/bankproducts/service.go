package bankproducts

import (
	"context"
	"errors"
	"fmt"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
	"github.com/R3E-Network/bankproducts/internal/logging"
)

// Service manages bank products on top of a storage gateway.
type Service struct {
	store storage.BankProductStore
	log   *logging.Logger
}

// New constructs a bank product service.
func New(store storage.BankProductStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("bankproducts")
	}
	return &Service{store: store, log: log}
}

// Create persists a new product. Any client supplied id is ignored.
func (s *Service) Create(ctx context.Context, in bankproduct.Input) (bankproduct.BankProduct, error) {
	created, err := s.store.InsertBankProduct(ctx, bankproduct.FromInput(in))
	if err != nil {
		return bankproduct.BankProduct{}, s.fail(ctx, "create bank product", err)
	}
	s.log.WithContext(ctx).
		WithField("bank_product_id", created.ID).
		Info("bank product created")
	return created, nil
}

// Get returns the product with the given id. The bool is false when it does
// not exist.
func (s *Service) Get(ctx context.Context, id int64) (bankproduct.BankProduct, bool, error) {
	p, ok, err := s.store.GetBankProduct(ctx, id)
	if err != nil {
		return bankproduct.BankProduct{}, false, s.fail(ctx, "get bank product", err)
	}
	return p, ok, nil
}

// List returns every product ordered by id.
func (s *Service) List(ctx context.Context) ([]bankproduct.BankProduct, error) {
	items, err := s.store.ListBankProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list bank products", err)
	}
	return items, nil
}

// Update replaces the title of an existing product. It never creates a
// product; the bool is false when id is unknown.
func (s *Service) Update(ctx context.Context, id int64, in bankproduct.Input) (bankproduct.BankProduct, bool, error) {
	existing, ok, err := s.store.GetBankProduct(ctx, id)
	if err != nil {
		return bankproduct.BankProduct{}, false, s.fail(ctx, "update bank product", err)
	}
	if !ok {
		return bankproduct.BankProduct{}, false, nil
	}

	updated, err := s.store.ReplaceBankProduct(ctx, bankproduct.Merge(existing, in))
	if errors.Is(err, storage.ErrNotFound) {
		// deleted between the lookup and the write
		return bankproduct.BankProduct{}, false, nil
	}
	if err != nil {
		return bankproduct.BankProduct{}, false, s.fail(ctx, "update bank product", err)
	}
	s.log.WithContext(ctx).
		WithField("bank_product_id", updated.ID).
		Info("bank product updated")
	return updated, true, nil
}

// Delete removes the product with the given id and reports whether it
// existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok, err := s.store.GetBankProduct(ctx, id); err != nil {
		return false, s.fail(ctx, "delete bank product", err)
	} else if !ok {
		return false, nil
	}

	if err := s.store.DeleteBankProduct(ctx, id); err != nil {
		return false, s.fail(ctx, "delete bank product", err)
	}
	s.log.WithContext(ctx).
		WithField("bank_product_id", id).
		Info("bank product deleted")
	return true, nil
}

// Ready reports whether the storage gateway answers queries.
func (s *Service) Ready(ctx context.Context) error {
	if _, err := s.store.CountBankProducts(ctx); err != nil {
		return s.fail(ctx, "check storage", err)
	}
	return nil
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	s.log.WithContext(ctx).WithError(err).Error(op + " failed")
	return fmt.Errorf("%s: %w", op, err)
}
