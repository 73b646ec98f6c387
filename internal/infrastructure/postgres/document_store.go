package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devlinkhq/devlink-api/internal/domain/store"
)

const uniqueViolation = "23505"

// DocumentStore persists documents in a single jsonb-backed table.
// Conditional updates run as one UPDATE statement, so the guard and the
// mutation are atomic at single-document granularity.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) FindOne(ctx context.Context, collection string, f store.Filter, dest any) error {
	where, args, err := buildWhere(f, []any{collection})
	if err != nil {
		return err
	}
	var raw []byte
	q := fmt.Sprintf("SELECT doc FROM documents WHERE %s LIMIT 1", where)
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}
	return decode(raw, dest)
}

func (s *DocumentStore) FindMany(ctx context.Context, collection string, f store.Filter, so store.Sort) ([]json.RawMessage, error) {
	where, args, err := buildWhere(f, []any{collection})
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT doc FROM documents WHERE %s", where)
	if so == store.SortDateDesc {
		q += " ORDER BY created_at DESC"
	}
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]json.RawMessage, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(raw))
	}
	return out, rows.Err()
}

func (s *DocumentStore) Create(ctx context.Context, collection string, d store.Doc) error {
	body, err := json.Marshal(d.Body)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, ukey, doc)
		VALUES ($1, $2, $3, $4)
	`, collection, d.ID, nullable(d.Key), body)
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	return err
}

// Upsert inserts or shallow-merges on the collection's unique key. The
// stored document keeps its original identity: top-level fields from the new
// body replace existing ones, untouched fields (sub-record arrays included)
// survive.
func (s *DocumentStore) Upsert(ctx context.Context, collection string, d store.Doc, dest any) error {
	body, err := json.Marshal(d.Body)
	if err != nil {
		return err
	}
	omit := d.MergeOmit
	if omit == nil {
		omit = []string{}
	}
	var raw []byte
	err = s.pool.QueryRow(ctx, `
		INSERT INTO documents (collection, id, ukey, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, ukey)
		DO UPDATE SET doc = documents.doc || ((EXCLUDED.doc - 'id') - $5::text[])
		RETURNING doc
	`, collection, d.ID, nullable(d.Key), body, omit).Scan(&raw)
	if err != nil {
		return err
	}
	return decode(raw, dest)
}

func (s *DocumentStore) ConditionalUpdate(ctx context.Context, collection string, f store.Filter, m store.Mutation, dest any) error {
	args := []any{collection}
	expr, args, err := buildDocExpr(m, args)
	if err != nil {
		return err
	}
	where, args, err := buildWhere(f, args)
	if err != nil {
		return err
	}
	var raw []byte
	q := fmt.Sprintf("UPDATE documents SET doc = %s WHERE %s RETURNING doc", expr, where)
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrPreconditionFailed
		}
		return err
	}
	return decode(raw, dest)
}

func (s *DocumentStore) Delete(ctx context.Context, collection string, f store.Filter) error {
	where, args, err := buildWhere(f, []any{collection})
	if err != nil {
		return err
	}
	var id string
	q := fmt.Sprintf("DELETE FROM documents WHERE %s RETURNING id", where)
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

func decode(raw []byte, dest any) error {
	if dest == nil {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ store.Store = (*DocumentStore)(nil)
