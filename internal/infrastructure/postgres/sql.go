package postgres

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/devlinkhq/devlink-api/internal/domain/store"
)

// Builders translate the store's Filter/Mutation vocabulary into a single
// SQL statement. Field names only ever come from code constants, never from
// request input, so they are interpolated; all values travel as parameters.

func buildWhere(f store.Filter, args []any) (string, []any, error) {
	clauses := []string{"collection = $1"}

	if f.ID != "" {
		args = append(args, f.ID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}

	for _, field := range sortedKeys(f.Fields) {
		args = append(args, f.Fields[field])
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' = $%d", field, len(args)))
	}

	for _, em := range f.Contains {
		b, err := marshalElem(em.Match)
		if err != nil {
			return "", nil, err
		}
		args = append(args, b)
		clauses = append(clauses, fmt.Sprintf("coalesce(doc->'%s', '[]'::jsonb) @> $%d::jsonb", em.Field, len(args)))
	}

	for _, em := range f.NotContains {
		b, err := marshalElem(em.Match)
		if err != nil {
			return "", nil, err
		}
		args = append(args, b)
		clauses = append(clauses, fmt.Sprintf("NOT (coalesce(doc->'%s', '[]'::jsonb) @> $%d::jsonb)", em.Field, len(args)))
	}

	return strings.Join(clauses, " AND "), args, nil
}

// buildDocExpr composes the mutation into one jsonb expression over the
// current doc, so the whole guarded update executes as a single statement.
func buildDocExpr(m store.Mutation, args []any) (string, []any, error) {
	expr := "doc"

	for _, field := range sortedAnyKeys(m.Set) {
		b, err := json.Marshal(m.Set[field])
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(b))
		expr = fmt.Sprintf("jsonb_set(%s, '{%s}', $%d::jsonb, true)", expr, field, len(args))
	}

	for _, p := range m.Push {
		b, err := json.Marshal([]any{p.Value})
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(b))
		arr := fmt.Sprintf("coalesce(doc->'%s', '[]'::jsonb)", p.Field)
		var cat string
		if p.Front {
			cat = fmt.Sprintf("$%d::jsonb || %s", len(args), arr)
		} else {
			cat = fmt.Sprintf("%s || $%d::jsonb", arr, len(args))
		}
		expr = fmt.Sprintf("jsonb_set(%s, '{%s}', %s, true)", expr, p.Field, cat)
	}

	for _, pl := range m.Pull {
		b, err := json.Marshal(pl.Match)
		if err != nil {
			return "", nil, err
		}
		args = append(args, string(b))
		rebuilt := fmt.Sprintf(
			"(SELECT coalesce(jsonb_agg(e), '[]'::jsonb) FROM jsonb_array_elements(coalesce(doc->'%s', '[]'::jsonb)) AS e WHERE NOT e @> $%d::jsonb)",
			pl.Field, len(args))
		expr = fmt.Sprintf("jsonb_set(%s, '{%s}', %s, true)", expr, pl.Field, rebuilt)
	}

	return expr, args, nil
}

func marshalElem(match map[string]any) (string, error) {
	b, err := json.Marshal([]map[string]any{match})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
