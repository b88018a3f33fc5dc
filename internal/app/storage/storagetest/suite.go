// Package storagetest holds the behaviour every storage.BankProductStore
// backend must share. Backend tests call Run with a factory returning an
// empty store.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

// Factory returns an empty store for a single subtest.
type Factory func(t *testing.T) storage.BankProductStore

// Run executes the conformance cases against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s storage.BankProductStore)
	}{
		{"InsertAndGet", testInsertAndGet},
		{"InsertIgnoresClientID", testInsertIgnoresClientID},
		{"InsertAssignsIncreasingIDs", testInsertAssignsIncreasingIDs},
		{"NullAndEmptyTitle", testNullAndEmptyTitle},
		{"GetMissing", testGetMissing},
		{"ListAll", testListAll},
		{"ListEmpty", testListEmpty},
		{"Replace", testReplace},
		{"ReplaceMissing", testReplaceMissing},
		{"DeleteByID", testDeleteByID},
		{"DeleteMissingIsNoop", testDeleteMissingIsNoop},
		{"DeleteAll", testDeleteAll},
		{"ExistsAndCount", testExistsAndCount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func testInsertAndGet(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	saved, err := s.InsertBankProduct(ctx, bankproduct.New("Savings Account"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	found, ok, err := s.GetBankProduct(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, found)
	assert.Equal(t, "Savings Account", found.TitleValue())
}

func testInsertIgnoresClientID(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	saved, err := s.InsertBankProduct(ctx, bankproduct.BankProduct{ID: 999_999, Title: bankproduct.StringPtr("Loan")})
	require.NoError(t, err)
	assert.NotEqual(t, int64(999_999), saved.ID)
}

func testInsertAssignsIncreasingIDs(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	first, err := s.InsertBankProduct(ctx, bankproduct.New("Product 1"))
	require.NoError(t, err)
	second, err := s.InsertBankProduct(ctx, bankproduct.New("Product 2"))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func testNullAndEmptyTitle(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	null, err := s.InsertBankProduct(ctx, bankproduct.BankProduct{})
	require.NoError(t, err)
	empty, err := s.InsertBankProduct(ctx, bankproduct.New(""))
	require.NoError(t, err)

	got, ok, err := s.GetBankProduct(ctx, null.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.Title)

	got, ok, err = s.GetBankProduct(ctx, empty.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.Title)
	assert.Equal(t, "", *got.Title)
}

func testGetMissing(t *testing.T, s storage.BankProductStore) {
	_, ok, err := s.GetBankProduct(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testListAll(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	p1, err := s.InsertBankProduct(ctx, bankproduct.New("Product 1"))
	require.NoError(t, err)
	p2, err := s.InsertBankProduct(ctx, bankproduct.New("Product 2"))
	require.NoError(t, err)

	all, err := s.ListBankProducts(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)
	assert.Contains(t, all, p1)
	assert.Contains(t, all, p2)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID, "records must be ordered by id")
	}
}

func testListEmpty(t *testing.T, s storage.BankProductStore) {
	all, err := s.ListBankProducts(context.Background())
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Empty(t, all)
}

func testReplace(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	saved, err := s.InsertBankProduct(ctx, bankproduct.New("Old Title"))
	require.NoError(t, err)

	saved.Title = bankproduct.StringPtr("New Title")
	updated, err := s.ReplaceBankProduct(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	found, ok, err := s.GetBankProduct(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "New Title", found.TitleValue())
}

func testReplaceMissing(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	_, err := s.ReplaceBankProduct(ctx, bankproduct.BankProduct{ID: 12345, Title: bankproduct.StringPtr("x")})
	require.ErrorIs(t, err, storage.ErrNotFound)

	count, err := s.CountBankProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testDeleteByID(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	saved, err := s.InsertBankProduct(ctx, bankproduct.New("To Be Deleted"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteBankProduct(ctx, saved.ID))

	_, ok, err := s.GetBankProduct(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testDeleteMissingIsNoop(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	require.NoError(t, s.DeleteBankProduct(ctx, 4242))
	require.NoError(t, s.DeleteBankProduct(ctx, 4242))
}

func testDeleteAll(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	_, err := s.InsertBankProduct(ctx, bankproduct.New("Product A"))
	require.NoError(t, err)
	_, err = s.InsertBankProduct(ctx, bankproduct.New("Product B"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteAllBankProducts(ctx))

	remaining, err := s.ListBankProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func testExistsAndCount(t *testing.T, s storage.BankProductStore) {
	ctx := context.Background()
	saved, err := s.InsertBankProduct(ctx, bankproduct.New("Current Account"))
	require.NoError(t, err)

	exists, err := s.BankProductExists(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.BankProductExists(ctx, saved.ID+1000)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := s.CountBankProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
