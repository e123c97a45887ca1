// Package redisstore implements store.Store on Redis. Each row is a hash at
// <prefix><table>:<id>; the set <prefix><table>:_ids indexes a table's rows.
// Filters are evaluated client side and all values come back as strings.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/schoolsynth/schoolsynth/internal/store"
)

// ErrDuplicateKey is returned when inserting a row whose id already exists.
var ErrDuplicateKey = errors.New("duplicate key")

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "schoolsynth:".
	Prefix string
}

// Store keeps rows as Redis hashes.
type Store struct {
	client *redis.Client
	prefix string
	keys   map[string]string
}

// Open connects to Redis and checks the connection. keys maps each table
// to its primary-key column; rows of other tables get a generated id.
func Open(ctx context.Context, opts Options, keys map[string]string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	slog.Debug("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return New(client, opts.Prefix, keys), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, keys map[string]string) *Store {
	copied := make(map[string]string, len(keys))
	for t, k := range keys {
		copied[t] = k
	}
	return &Store{client: client, prefix: prefix, keys: copied}
}

func (s *Store) rowKey(table, id string) string {
	return s.prefix + table + ":" + id
}

func (s *Store) idsKey(table string) string {
	return s.prefix + table + ":_ids"
}

func (s *Store) seqKey(table string) string {
	return s.prefix + table + ":_seq"
}

func (s *Store) rowID(ctx context.Context, table string, rec store.Record) (string, error) {
	if col, ok := s.keys[table]; ok {
		v, ok := rec[col]
		if !ok {
			return "", fmt.Errorf("inserting into %s: missing key column %s", table, col)
		}
		return fmt.Sprint(v), nil
	}

	n, err := s.client.Incr(ctx, s.seqKey(table)).Result()
	if err != nil {
		return "", fmt.Errorf("allocating id for %s: %w", table, err)
	}
	return strconv.FormatInt(n, 10), nil
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, table string, rec store.Record) error {
	if err := store.ValidateRequest(table, nil, rec); err != nil {
		return err
	}
	if len(rec) == 0 {
		return fmt.Errorf("inserting into %s: empty record", table)
	}

	id, err := s.rowID(ctx, table, rec)
	if err != nil {
		return err
	}

	key := s.rowKey(table, id)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		// The hash decides whether the row exists. An id left in the index
		// without a hash is completed by this write.
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateKey
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, flatten(rec))
			pipe.SAdd(ctx, s.idsKey(table), id)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateKey):
		return fmt.Errorf("inserting into %s: %w: %s", table, ErrDuplicateKey, id)
	case errors.Is(err, redis.TxFailedErr):
		return store.Transient(fmt.Errorf("inserting into %s row %s: %w", table, id, err))
	default:
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, table string, filter store.Filter, patch store.Record) (int64, error) {
	if err := store.ValidateRequest(table, nil, filter, patch); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("updating %s: empty patch", table)
	}

	rows, err := s.scan(ctx, table)
	if err != nil {
		return 0, err
	}

	values := flatten(patch)
	pipe := s.client.Pipeline()
	var n int64
	for _, r := range rows {
		if matches(r.fields, filter) {
			pipe.HSet(ctx, s.rowKey(table, r.id), values)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	return n, nil
}

// Select implements store.Store. Rows come back in id order.
func (s *Store) Select(ctx context.Context, table string, columns []string, filter store.Filter) ([]store.Record, error) {
	if err := store.ValidateRequest(table, columns, filter); err != nil {
		return nil, err
	}

	rows, err := s.scan(ctx, table)
	if err != nil {
		return nil, err
	}

	var out []store.Record
	for _, r := range rows {
		if !matches(r.fields, filter) {
			continue
		}
		rec := make(store.Record, len(r.fields))
		if len(columns) == 0 {
			for k, v := range r.fields {
				rec[k] = v
			}
		} else {
			for _, c := range columns {
				if v, ok := r.fields[c]; ok {
					rec[c] = v
				}
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

type hashRow struct {
	id     string
	fields map[string]string
}

// scan loads every indexed row of a table in id order.
func (s *Store) scan(ctx context.Context, table string) ([]hashRow, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey(table)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s rows: %w", table, err)
	}
	sortIDs(ids)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.rowKey(table, id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("reading %s rows: %w", table, err)
		}
	}

	rows := make([]hashRow, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, hashRow{id: ids[i], fields: fields})
	}
	return rows, nil
}

func flatten(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func matches(fields map[string]string, filter store.Filter) bool {
	for col, want := range filter {
		got, ok := fields[col]
		if !ok || got != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// sortIDs orders numeric ids numerically and anything else lexically after
// them.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
