package metrics

import (
	"context"
	"time"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

type instrumentedStore struct {
	next storage.BankProductStore
}

// InstrumentStore wraps store so that every call is counted and timed.
func InstrumentStore(store storage.BankProductStore) storage.BankProductStore {
	return &instrumentedStore{next: store}
}

func observe(op string, start time.Time, err error) {
	RecordStoreOperation(op, time.Since(start), err)
}

func (s *instrumentedStore) InsertBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	start := time.Now()
	out, err := s.next.InsertBankProduct(ctx, p)
	observe("insert", start, err)
	return out, err
}

func (s *instrumentedStore) GetBankProduct(ctx context.Context, id int64) (bankproduct.BankProduct, bool, error) {
	start := time.Now()
	p, ok, err := s.next.GetBankProduct(ctx, id)
	observe("get", start, err)
	return p, ok, err
}

func (s *instrumentedStore) ListBankProducts(ctx context.Context) ([]bankproduct.BankProduct, error) {
	start := time.Now()
	out, err := s.next.ListBankProducts(ctx)
	observe("list", start, err)
	return out, err
}

func (s *instrumentedStore) ReplaceBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	start := time.Now()
	out, err := s.next.ReplaceBankProduct(ctx, p)
	observe("replace", start, err)
	return out, err
}

func (s *instrumentedStore) DeleteBankProduct(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.DeleteBankProduct(ctx, id)
	observe("delete", start, err)
	return err
}

func (s *instrumentedStore) DeleteAllBankProducts(ctx context.Context) error {
	start := time.Now()
	err := s.next.DeleteAllBankProducts(ctx)
	observe("delete_all", start, err)
	return err
}

func (s *instrumentedStore) BankProductExists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	ok, err := s.next.BankProductExists(ctx, id)
	observe("exists", start, err)
	return ok, err
}

func (s *instrumentedStore) CountBankProducts(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.next.CountBankProducts(ctx)
	observe("count", start, err)
	return n, err
}
