package storage

import (
	"context"
	"errors"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
)

var (
	// ErrUnavailable wraps every failure of the underlying storage engine.
	// It is never returned for a missing record.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned by ReplaceBankProduct when the record does not
	// exist. Reads report absence through their boolean result instead.
	ErrNotFound = errors.New("record not found")
)

// BankProductStore persists bank product records keyed by a store-assigned
// integer ID.
type BankProductStore interface {
	// InsertBankProduct ignores p.ID and returns the record with the newly
	// assigned ID.
	InsertBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error)
	// GetBankProduct reports false when no record has the ID.
	GetBankProduct(ctx context.Context, id int64) (bankproduct.BankProduct, bool, error)
	// ListBankProducts returns all records ordered by ID. The slice is empty,
	// never nil, when the store is empty.
	ListBankProducts(ctx context.Context) ([]bankproduct.BankProduct, error)
	// ReplaceBankProduct overwrites the stored state of p.ID.
	ReplaceBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error)
	// DeleteBankProduct is a no-op for unknown IDs.
	DeleteBankProduct(ctx context.Context, id int64) error
	DeleteAllBankProducts(ctx context.Context) error
	BankProductExists(ctx context.Context, id int64) (bool, error)
	CountBankProducts(ctx context.Context) (int64, error)
}

// Unavailable wraps err with ErrUnavailable. A nil err stays nil.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &unavailableError{op: op, err: err}
}

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return e.op + ": " + ErrUnavailable.Error() + ": " + e.err.Error()
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}
