// Package storefake provides an in-memory document store for tests. It
// honors the same filter and mutation semantics as the Postgres store,
// including single-element containment matching and shallow-merge upserts.
package storefake

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/devlinkhq/devlink-api/internal/domain/store"
)

type record struct {
	id  string
	key string
	doc map[string]any
}

type Store struct {
	mu   sync.Mutex
	data map[string][]*record
}

func New() *Store {
	return &Store{data: make(map[string][]*record)}
}

func (s *Store) FindOne(_ context.Context, collection string, f store.Filter, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data[collection] {
		if matches(r, f) {
			return decode(r.doc, dest)
		}
	}
	return store.ErrNotFound
}

func (s *Store) FindMany(_ context.Context, collection string, f store.Filter, so store.Sort) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]*record, 0)
	for _, r := range s.data[collection] {
		if matches(r, f) {
			recs = append(recs, r)
		}
	}
	if so == store.SortDateDesc {
		// insertion order doubles as creation order
		for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
			recs[i], recs[j] = recs[j], recs[i]
		}
	}
	out := make([]json.RawMessage, 0, len(recs))
	for _, r := range recs {
		b, err := json.Marshal(r.doc)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, collection string, d store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.Key != "" {
		for _, r := range s.data[collection] {
			if r.key == d.Key {
				return store.ErrDuplicate
			}
		}
	}
	doc, err := toMap(d.Body)
	if err != nil {
		return err
	}
	s.data[collection] = append(s.data[collection], &record{id: d.ID, key: d.Key, doc: doc})
	return nil
}

func (s *Store) Upsert(_ context.Context, collection string, d store.Doc, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := toMap(d.Body)
	if err != nil {
		return err
	}
	omitted := map[string]bool{"id": true}
	for _, k := range d.MergeOmit {
		omitted[k] = true
	}
	for _, r := range s.data[collection] {
		if d.Key != "" && r.key == d.Key {
			for k, v := range doc {
				if omitted[k] {
					continue
				}
				r.doc[k] = v
			}
			return decode(r.doc, dest)
		}
	}
	s.data[collection] = append(s.data[collection], &record{id: d.ID, key: d.Key, doc: doc})
	return decode(doc, dest)
}

func (s *Store) ConditionalUpdate(_ context.Context, collection string, f store.Filter, m store.Mutation, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data[collection] {
		if !matches(r, f) {
			continue
		}
		if err := apply(r.doc, m); err != nil {
			return err
		}
		return decode(r.doc, dest)
	}
	return store.ErrPreconditionFailed
}

func (s *Store) Delete(_ context.Context, collection string, f store.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.data[collection]
	for i, r := range recs {
		if matches(r, f) {
			s.data[collection] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func matches(r *record, f store.Filter) bool {
	if f.ID != "" && r.id != f.ID {
		return false
	}
	for field, want := range f.Fields {
		got, _ := r.doc[field].(string)
		if got != want {
			return false
		}
	}
	for _, em := range f.Contains {
		if !containsElem(r.doc, em) {
			return false
		}
	}
	for _, em := range f.NotContains {
		if containsElem(r.doc, em) {
			return false
		}
	}
	return true
}

func containsElem(doc map[string]any, em store.ElemMatch) bool {
	arr, _ := doc[em.Field].([]any)
	match, err := toMap(em.Match)
	if err != nil {
		return false
	}
	for _, e := range arr {
		elem, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if elemCarries(elem, match) {
			return true
		}
	}
	return false
}

func elemCarries(elem, match map[string]any) bool {
	for k, v := range match {
		if !reflect.DeepEqual(elem[k], v) {
			return false
		}
	}
	return true
}

func apply(doc map[string]any, m store.Mutation) error {
	for k, v := range m.Set {
		nv, err := normalize(v)
		if err != nil {
			return err
		}
		doc[k] = nv
	}
	for _, p := range m.Push {
		nv, err := normalize(p.Value)
		if err != nil {
			return err
		}
		arr, _ := doc[p.Field].([]any)
		if p.Front {
			doc[p.Field] = append([]any{nv}, arr...)
		} else {
			doc[p.Field] = append(arr, nv)
		}
	}
	for _, pl := range m.Pull {
		match, err := toMap(pl.Match)
		if err != nil {
			return err
		}
		arr, _ := doc[pl.Field].([]any)
		kept := make([]any, 0, len(arr))
		for _, e := range arr {
			elem, ok := e.(map[string]any)
			if ok && elemCarries(elem, match) {
				continue
			}
			kept = append(kept, e)
		}
		doc[pl.Field] = kept
	}
	return nil
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(doc map[string]any, dest any) error {
	if dest == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

var _ store.Store = (*Store)(nil)
