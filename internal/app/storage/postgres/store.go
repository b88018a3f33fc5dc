package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.BankProductStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type productRow struct {
	ID    int64          `db:"id"`
	Title sql.NullString `db:"title"`
}

func (r productRow) toDomain() bankproduct.BankProduct {
	p := bankproduct.BankProduct{ID: r.ID}
	if r.Title.Valid {
		title := r.Title.String
		p.Title = &title
	}
	return p
}

// --- BankProductStore -------------------------------------------------------

func (s *Store) InsertBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	p = p.Clone()
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO bank_products (title)
		VALUES ($1)
		RETURNING id
	`, p.Title).Scan(&p.ID)
	if err != nil {
		return bankproduct.BankProduct{}, storage.Unavailable("insert bank product", err)
	}
	return p, nil
}

func (s *Store) GetBankProduct(ctx context.Context, id int64) (bankproduct.BankProduct, bool, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, title
		FROM bank_products
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return bankproduct.BankProduct{}, false, nil
	}
	if err != nil {
		return bankproduct.BankProduct{}, false, storage.Unavailable("get bank product", err)
	}
	return row.toDomain(), true, nil
}

func (s *Store) ListBankProducts(ctx context.Context) ([]bankproduct.BankProduct, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, title
		FROM bank_products
		ORDER BY id
	`); err != nil {
		return nil, storage.Unavailable("list bank products", err)
	}

	result := make([]bankproduct.BankProduct, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (s *Store) ReplaceBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	p = p.Clone()
	result, err := s.db.ExecContext(ctx, `
		UPDATE bank_products
		SET title = $2, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Title)
	if err != nil {
		return bankproduct.BankProduct{}, storage.Unavailable("replace bank product", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return bankproduct.BankProduct{}, storage.Unavailable("replace bank product", err)
	}
	if rows == 0 {
		return bankproduct.BankProduct{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) DeleteBankProduct(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM bank_products WHERE id = $1
	`, id); err != nil {
		return storage.Unavailable("delete bank product", err)
	}
	return nil
}

func (s *Store) DeleteAllBankProducts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bank_products`); err != nil {
		return storage.Unavailable("delete all bank products", err)
	}
	return nil
}

func (s *Store) BankProductExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM bank_products WHERE id = $1)
	`, id); err != nil {
		return false, storage.Unavailable("check bank product", err)
	}
	return exists, nil
}

func (s *Store) CountBankProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bank_products`); err != nil {
		return 0, storage.Unavailable("count bank products", err)
	}
	return count, nil
}

