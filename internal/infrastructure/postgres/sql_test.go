package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlinkhq/devlink-api/internal/domain/store"
)

func TestBuildWhereCollectionOnly(t *testing.T) {
	where, args, err := buildWhere(store.Filter{}, []any{store.Posts})
	require.NoError(t, err)
	require.Equal(t, "collection = $1", where)
	require.Equal(t, []any{store.Posts}, args)
}

func TestBuildWhereFull(t *testing.T) {
	f := store.Filter{
		ID:          "p1",
		Fields:      map[string]string{"user": "u1"},
		Contains:    []store.ElemMatch{{Field: "likes", Match: map[string]any{"user": "u1"}}},
		NotContains: []store.ElemMatch{{Field: "comments", Match: map[string]any{"id": "c1"}}},
	}
	where, args, err := buildWhere(f, []any{store.Posts})
	require.NoError(t, err)
	require.Equal(t,
		"collection = $1 AND id = $2 AND doc->>'user' = $3"+
			" AND coalesce(doc->'likes', '[]'::jsonb) @> $4::jsonb"+
			" AND NOT (coalesce(doc->'comments', '[]'::jsonb) @> $5::jsonb)",
		where)
	require.Len(t, args, 5)
	require.Equal(t, "p1", args[1])
	require.Equal(t, "u1", args[2])
	require.JSONEq(t, `[{"user":"u1"}]`, args[3].(string))
	require.JSONEq(t, `[{"id":"c1"}]`, args[4].(string))
}

func TestBuildDocExprPushBack(t *testing.T) {
	m := store.Mutation{
		Push: []store.ArrayPush{{Field: "likes", Value: map[string]any{"user": "u1"}}},
	}
	expr, args, err := buildDocExpr(m, []any{store.Posts})
	require.NoError(t, err)
	require.Equal(t,
		"jsonb_set(doc, '{likes}', coalesce(doc->'likes', '[]'::jsonb) || $2::jsonb, true)",
		expr)
	require.JSONEq(t, `[{"user":"u1"}]`, args[1].(string))
}

func TestBuildDocExprPushFront(t *testing.T) {
	m := store.Mutation{
		Push: []store.ArrayPush{{Field: "experience", Value: map[string]any{"id": "e1"}, Front: true}},
	}
	expr, _, err := buildDocExpr(m, []any{store.Profiles})
	require.NoError(t, err)
	require.Equal(t,
		"jsonb_set(doc, '{experience}', $2::jsonb || coalesce(doc->'experience', '[]'::jsonb), true)",
		expr)
}

func TestBuildDocExprPull(t *testing.T) {
	m := store.Mutation{
		Pull: []store.ElemMatch{{Field: "likes", Match: map[string]any{"user": "u1"}}},
	}
	expr, args, err := buildDocExpr(m, []any{store.Posts})
	require.NoError(t, err)
	require.Equal(t,
		"jsonb_set(doc, '{likes}', (SELECT coalesce(jsonb_agg(e), '[]'::jsonb)"+
			" FROM jsonb_array_elements(coalesce(doc->'likes', '[]'::jsonb)) AS e"+
			" WHERE NOT e @> $2::jsonb), true)",
		expr)
	require.JSONEq(t, `{"user":"u1"}`, args[1].(string))
}

func TestBuildDocExprSetOrderIsDeterministic(t *testing.T) {
	m := store.Mutation{Set: map[string]any{"b": 2, "a": 1}}
	expr1, _, err := buildDocExpr(m, []any{store.Profiles})
	require.NoError(t, err)
	expr2, _, err := buildDocExpr(m, []any{store.Profiles})
	require.NoError(t, err)
	require.Equal(t, expr1, expr2)
	require.Equal(t,
		"jsonb_set(jsonb_set(doc, '{a}', $2::jsonb, true), '{b}', $3::jsonb, true)",
		expr1)
}
