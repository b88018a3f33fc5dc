// Package redis stores bank products in Redis. IDs come from INCR on a
// sequence key, each record is a hash and a sorted set scored by ID keeps
// enumeration ordered.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/go-redis/redis/v8"

	"github.com/R3E-Network/bankproducts/internal/app/domain/bankproduct"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
)

const (
	fieldTitle = "title"
	fieldNull  = "title_null"
)

// Store implements the storage interfaces on top of a Redis client.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

var _ storage.BankProductStore = (*Store)(nil)

// New creates a Store. prefix namespaces every key; an empty prefix uses
// "bankproducts".
func New(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "bankproducts"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) seqKey() string   { return s.prefix + ":bank_products:seq" }
func (s *Store) indexKey() string { return s.prefix + ":bank_products:index" }

func (s *Store) recordKey(id int64) string {
	return fmt.Sprintf("%s:bank_products:%d", s.prefix, id)
}

func encodeTitle(title *string) map[string]interface{} {
	if title == nil {
		return map[string]interface{}{fieldTitle: "", fieldNull: "1"}
	}
	return map[string]interface{}{fieldTitle: *title, fieldNull: "0"}
}

func decode(id int64, fields map[string]string) bankproduct.BankProduct {
	p := bankproduct.BankProduct{ID: id}
	if fields[fieldNull] != "1" {
		title := fields[fieldTitle]
		p.Title = &title
	}
	return p
}

// --- BankProductStore -------------------------------------------------------

func (s *Store) InsertBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return bankproduct.BankProduct{}, storage.Unavailable("insert bank product", err)
	}

	p = p.Clone()
	p.ID = id
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.recordKey(id), encodeTitle(p.Title))
		pipe.ZAdd(ctx, s.indexKey(), &goredis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return bankproduct.BankProduct{}, storage.Unavailable("insert bank product", err)
	}
	return p, nil
}

func (s *Store) GetBankProduct(ctx context.Context, id int64) (bankproduct.BankProduct, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.recordKey(id)).Result()
	if err != nil {
		return bankproduct.BankProduct{}, false, storage.Unavailable("get bank product", err)
	}
	if len(fields) == 0 {
		return bankproduct.BankProduct{}, false, nil
	}
	return decode(id, fields), true, nil
}

func (s *Store) ListBankProducts(ctx context.Context) ([]bankproduct.BankProduct, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, storage.Unavailable("list bank products", err)
	}

	ids := make([]int64, 0, len(members))
	cmds := make([]*goredis.StringStringMapCmd, 0, len(members))
	_, err = s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, m := range members {
			id, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt index member %q: %w", m, err)
			}
			ids = append(ids, id)
			cmds = append(cmds, pipe.HGetAll(ctx, s.recordKey(id)))
		}
		return nil
	})
	if err != nil {
		return nil, storage.Unavailable("list bank products", err)
	}

	result := make([]bankproduct.BankProduct, 0, len(cmds))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		result = append(result, decode(ids[i], fields))
	}
	return result, nil
}

func (s *Store) ReplaceBankProduct(ctx context.Context, p bankproduct.BankProduct) (bankproduct.BankProduct, error) {
	p = p.Clone()
	key := s.recordKey(p.ID)

	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeTitle(p.Title))
			return nil
		})
		return err
	}, key)
	if errors.Is(err, storage.ErrNotFound) {
		return bankproduct.BankProduct{}, err
	}
	if err != nil {
		return bankproduct.BankProduct{}, storage.Unavailable("replace bank product", err)
	}
	return p, nil
}

func (s *Store) DeleteBankProduct(ctx context.Context, id int64) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, s.recordKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	return storage.Unavailable("delete bank product", err)
}

func (s *Store) DeleteAllBankProducts(ctx context.Context) error {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return storage.Unavailable("delete all bank products", err)
	}

	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, s.prefix+":bank_products:"+m)
	}
	keys = append(keys, s.indexKey())
	return storage.Unavailable("delete all bank products", s.client.Del(ctx, keys...).Err())
}

func (s *Store) BankProductExists(ctx context.Context, id int64) (bool, error) {
	n, err := s.client.Exists(ctx, s.recordKey(id)).Result()
	if err != nil {
		return false, storage.Unavailable("check bank product", err)
	}
	return n > 0, nil
}

func (s *Store) CountBankProducts(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, storage.Unavailable("count bank products", err)
	}
	return n, nil
}
