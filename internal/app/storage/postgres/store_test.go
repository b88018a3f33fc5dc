package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
	"github.com/R3E-Network/bankproducts/internal/app/storage/storagetest"
	"github.com/R3E-Network/bankproducts/internal/platform/migrations"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "postgres")), mock
}

func TestInsertBankProduct(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bank_products (title)")).
		WithArgs("Savings Account").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	saved, err := store.InsertBankProduct(context.Background(), bankproduct.BankProduct{ID: 50, Title: bankproduct.StringPtr("Savings Account")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, "Savings Account", saved.TitleValue())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBankProductNullTitle(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bank_products (title)")).
		WithArgs(nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	saved, err := store.InsertBankProduct(context.Background(), bankproduct.BankProduct{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.ID)
	assert.Nil(t, saved.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBankProduct(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "Savings Account"))

	got, ok, err := store.GetBankProduct(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bankproduct.BankProduct{ID: 1, Title: bankproduct.StringPtr("Savings Account")}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBankProductMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, ok, err := store.GetBankProduct(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBankProductConnectionLost(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title")).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection refused"))

	_, ok, err := store.GetBankProduct(context.Background(), 1)
	require.ErrorIs(t, err, storage.ErrUnavailable)
	assert.False(t, ok)
}

func TestListBankProducts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(1, "Savings Account").
			AddRow(2, nil).
			AddRow(3, ""))

	all, err := store.ListBankProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Savings Account", all[0].TitleValue())
	assert.Nil(t, all[1].Title)
	require.NotNil(t, all[2].Title)
	assert.Equal(t, "", *all[2].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBankProductsEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	all, err := store.ListBankProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestReplaceBankProduct(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bank_products")).
		WithArgs(int64(1), "New Title").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := store.ReplaceBankProduct(context.Background(), bankproduct.BankProduct{ID: 1, Title: bankproduct.StringPtr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceBankProductMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bank_products")).
		WithArgs(int64(99), "New Title").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.ReplaceBankProduct(context.Background(), bankproduct.BankProduct{ID: 99, Title: bankproduct.StringPtr("New Title")})
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.NotErrorIs(t, err, storage.ErrUnavailable)
}

func TestDeleteBankProduct(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bank_products WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteBankProduct(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAllBankProducts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bank_products")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, store.DeleteAllBankProducts(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsAndCount(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bank_products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	exists, err := store.BankProductExists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := store.CountBankProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	runConformance(t, db)
}

// runConformance migrates db and runs the shared storage suite against it,
// clearing the table before every case.
func runConformance(t *testing.T, db *sqlx.DB) {
	t.Helper()
	ctx := context.Background()
	if err := migrations.Apply(ctx, db.DB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	storagetest.Run(t, func(t *testing.T) storage.BankProductStore {
		store := New(db)
		if err := store.DeleteAllBankProducts(ctx); err != nil {
			t.Fatalf("reset table: %v", err)
		}
		return store
	})
}
