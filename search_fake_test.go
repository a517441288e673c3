package redishelf

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// fakeIndexer implements SearchIndexer by scanning live hashes in Redis,
// mirroring RediSearch's prefix-bound, index-on-write semantics closely
// enough for the query shapes the services generate. miniredis does not
// implement the FT.* commands, so service tests run against this.
//
// Supported query syntax: "*" and space-separated exact tag predicates of
// the form @field:{value}, with backslash-escaped punctuation in values.
type fakeIndexer struct {
	rdb  *redis.Client
	defs map[string]IndexDefinition
}

func newFakeIndexer(rdb *redis.Client) *fakeIndexer {
	return &fakeIndexer{rdb: rdb, defs: make(map[string]IndexDefinition)}
}

func (f *fakeIndexer) CreateIndex(ctx context.Context, def IndexDefinition) error {
	if _, ok := f.defs[def.Name]; ok {
		return fmt.Errorf("index %s already exists", def.Name)
	}
	f.defs[def.Name] = def
	return nil
}

func (f *fakeIndexer) DropIndex(ctx context.Context, name string) error {
	if _, ok := f.defs[name]; !ok {
		return WithContext(ErrIndexNotFound, map[string]interface{}{"index": name})
	}
	delete(f.defs, name)
	return nil
}

func (f *fakeIndexer) Search(ctx context.Context, index, query string, opts SearchOptions) (*SearchResult, error) {
	def, ok := f.defs[index]
	if !ok {
		return nil, WithContext(ErrIndexNotFound, map[string]interface{}{"index": index})
	}

	keys, err := f.rdb.Keys(ctx, def.Prefix+"*").Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	var docs []SearchDoc
	for _, key := range keys {
		typ, err := f.rdb.Type(ctx, key).Result()
		if err != nil || typ != "hash" {
			continue
		}
		fields, err := f.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		ok, err := matchTagQuery(query, fields)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, SearchDoc{Key: key, Fields: fields})
		}
	}

	if opts.SortBy != "" {
		sortDocs(docs, opts.SortBy, opts.Ascending)
	}

	total := int64(len(docs))
	if opts.Count > 0 {
		if opts.Offset >= len(docs) {
			docs = nil
		} else {
			docs = docs[opts.Offset:]
			if len(docs) > opts.Count {
				docs = docs[:opts.Count]
			}
		}
	}
	return &SearchResult{Total: total, Docs: docs}, nil
}

func matchTagQuery(query string, fields map[string]string) (bool, error) {
	query = strings.TrimSpace(query)
	if query == "*" {
		return true, nil
	}
	for _, tok := range strings.Fields(query) {
		if !strings.HasPrefix(tok, "@") || !strings.HasSuffix(tok, "}") {
			return false, fmt.Errorf("fake indexer: unsupported query token %q", tok)
		}
		body := strings.TrimPrefix(tok, "@")
		i := strings.Index(body, ":{")
		if i < 0 {
			return false, fmt.Errorf("fake indexer: unsupported query token %q", tok)
		}
		name := body[:i]
		value := unescapeTag(strings.TrimSuffix(body[i+2:], "}"))
		if fields[name] != value {
			return false, nil
		}
	}
	return true, nil
}

// unescapeTag reverses the backslash-escaping applied to tag values when
// queries are built, so predicates compare against the stored value.
func unescapeTag(v string) string {
	return strings.ReplaceAll(v, "\\", "")
}

func sortDocs(docs []SearchDoc, field string, ascending bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].Fields[field], docs[j].Fields[field]
		af, aerr := strconv.ParseFloat(a, 64)
		bf, berr := strconv.ParseFloat(b, 64)
		var less bool
		if aerr == nil && berr == nil {
			less = af < bf
		} else {
			less = a < b
		}
		if ascending {
			return less
		}
		return !less && a != b
	})
}

// newTestStore spins up miniredis, a store on top of it, and an index
// manager with all three entity indexes registered and ensured.
func newTestStore(t *testing.T) (*Store, *IndexManager) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewStore(client)
	indexes := NewIndexManager(newFakeIndexer(client))
	indexes.RegisterDefaults()
	if err := indexes.EnsureAll(context.Background()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return store, indexes
}
