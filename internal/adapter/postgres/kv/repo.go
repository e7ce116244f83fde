// Package kv implements the key-value capability on a PostgreSQL table.
package kv

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/mintmind/internal/adapter/postgres"
)

const table = "kv_store"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo stores string values under string keys in kv_store.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new key-value repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := psql.Select("value").From(table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, postgres.MapError(err, "kv", key)
	}
	return value, true, nil
}

// Set inserts or replaces the value under key.
func (r *Repo) Set(ctx context.Context, key, value string) error {
	query, args, err := psql.Insert(table).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "kv", key)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *Repo) Delete(ctx context.Context, key string) error {
	query, args, err := psql.Delete(table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "kv", key)
	}
	return nil
}

// Keys returns every key starting with prefix, sorted.
func (r *Repo) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := psql.Select("key").
		From(table).
		Where(sq.Like{"key": escapeLike(prefix) + "%"}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "kv", prefix+"*")
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, "kv", prefix+"*")
	}
	return keys, nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern (backslash is the
// default escape character in PostgreSQL).
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
