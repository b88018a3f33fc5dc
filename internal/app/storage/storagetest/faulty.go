package storagetest

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

// ErrConnectionRefused is the cause used by NewUnavailable.
var ErrConnectionRefused = errors.New("dial tcp: connection refused")

// Faulty is a BankProductStore whose every call fails with Err.
type Faulty struct {
	Err   error
	calls atomic.Int64
}

var _ storage.BankProductStore = (*Faulty)(nil)

// NewUnavailable returns a store that reports the engine as unreachable.
func NewUnavailable() *Faulty {
	return &Faulty{Err: storage.Unavailable("query", ErrConnectionRefused)}
}

// Calls reports how many gateway methods were invoked.
func (f *Faulty) Calls() int64 {
	return f.calls.Load()
}

func (f *Faulty) fail() error {
	f.calls.Add(1)
	return f.Err
}

func (f *Faulty) InsertBankProduct(context.Context, bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	return bankproduct.BankProduct{}, f.fail()
}

func (f *Faulty) GetBankProduct(context.Context, int64) (bankproduct.BankProduct, bool, error) {
	return bankproduct.BankProduct{}, false, f.fail()
}

func (f *Faulty) ListBankProducts(context.Context) ([]bankproduct.BankProduct, error) {
	return nil, f.fail()
}

func (f *Faulty) ReplaceBankProduct(context.Context, bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	return bankproduct.BankProduct{}, f.fail()
}

func (f *Faulty) DeleteBankProduct(context.Context, int64) error {
	return f.fail()
}

func (f *Faulty) DeleteAllBankProducts(context.Context) error {
	return f.fail()
}

func (f *Faulty) BankProductExists(context.Context, int64) (bool, error) {
	return false, f.fail()
}

func (f *Faulty) CountBankProducts(context.Context) (int64, error) {
	return 0, f.fail()
}
