package redishelf

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// FieldKind is the index type of one schema field.
type FieldKind int

const (
	// FieldText is full-text searchable.
	FieldText FieldKind = iota
	// FieldTextSortable is full-text searchable and usable as a sort key.
	FieldTextSortable
	// FieldNumericSortable is a numeric range/sort field.
	FieldNumericSortable
	// FieldTag supports exact-match filtering on whole-string values.
	FieldTag
)

// IndexField is one field of an index schema.
type IndexField struct {
	Name string
	Kind FieldKind
}

// IndexDefinition describes a secondary index: its name, the key prefix it
// covers (only hashes whose key starts with Prefix are indexed), and the
// schema fields.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

// SearchOptions narrows and orders a search.
//
// Count == 0 leaves the result window at the server's default; Offset is
// only applied when Count is set.
type SearchOptions struct {
	SortBy    string
	Ascending bool
	Offset    int
	Count     int
}

// SearchDoc is one matching document: its storage key and the stored fields.
type SearchDoc struct {
	Key    string
	Fields map[string]string
}

// SearchResult carries the total match count (before the result window is
// applied) and the returned documents.
type SearchResult struct {
	Total int64
	Docs  []SearchDoc
}

// SearchIndexer is the secondary-index collaborator: schema creation, drop,
// and querying with sort and pagination. The production implementation is
// RediSearchIndexer; tests substitute an in-memory one because miniredis
// does not implement the FT.* commands.
type SearchIndexer interface {
	CreateIndex(ctx context.Context, def IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	Search(ctx context.Context, index, query string, opts SearchOptions) (*SearchResult, error)
}

// RediSearchIndexer implements SearchIndexer on the RediSearch module via
// go-redis's native FT.* commands.
type RediSearchIndexer struct {
	rdb *redis.Client
}

// NewRediSearchIndexer creates a RediSearch-backed indexer
func NewRediSearchIndexer(rdb *redis.Client) *RediSearchIndexer {
	return &RediSearchIndexer{rdb: rdb}
}

// CreateIndex issues FT.CREATE for the definition. It fails if an index of
// the same name already exists; idempotent bring-up goes through
// IndexManager.EnsureIndex, which drops first.
func (x *RediSearchIndexer) CreateIndex(ctx context.Context, def IndexDefinition) error {
	schema := make([]*redis.FieldSchema, 0, len(def.Fields))
	for _, f := range def.Fields {
		fs := &redis.FieldSchema{FieldName: f.Name}
		switch f.Kind {
		case FieldText:
			fs.FieldType = redis.SearchFieldTypeText
		case FieldTextSortable:
			fs.FieldType = redis.SearchFieldTypeText
			fs.Sortable = true
		case FieldNumericSortable:
			fs.FieldType = redis.SearchFieldTypeNumeric
			fs.Sortable = true
		case FieldTag:
			fs.FieldType = redis.SearchFieldTypeTag
		default:
			return WithContext(ErrInvalidData, map[string]interface{}{
				"index": def.Name,
				"field": f.Name,
				"kind":  f.Kind,
			})
		}
		schema = append(schema, fs)
	}

	opts := &redis.FTCreateOptions{
		OnHash: true,
		Prefix: []interface{}{def.Prefix},
	}
	if err := x.rdb.FTCreate(ctx, def.Name, opts, schema...).Err(); err != nil {
		return fmt.Errorf("failed to create index %s: %w", def.Name, err)
	}
	return nil
}

// DropIndex issues FT.DROPINDEX. The indexed hashes are kept; only the
// index definition goes away. Dropping a nonexistent index returns
// ErrIndexNotFound so callers can treat it as already-dropped.
func (x *RediSearchIndexer) DropIndex(ctx context.Context, name string) error {
	err := x.rdb.FTDropIndex(ctx, name).Err()
	if err == nil {
		return nil
	}
	if isUnknownIndex(err) {
		return WithContext(ErrIndexNotFound, map[string]interface{}{"index": name})
	}
	return fmt.Errorf("failed to drop index %s: %w", name, err)
}

// Search passes the raw query string through to FT.SEARCH, applying sort
// and the offset/limit window from opts.
func (x *RediSearchIndexer) Search(ctx context.Context, index, query string, opts SearchOptions) (*SearchResult, error) {
	ftOpts := &redis.FTSearchOptions{}
	if opts.SortBy != "" {
		ftOpts.SortBy = []redis.FTSearchSortBy{{
			FieldName: opts.SortBy,
			Asc:       opts.Ascending,
			Desc:      !opts.Ascending,
		}}
	}
	if opts.Count > 0 {
		ftOpts.LimitOffset = opts.Offset
		ftOpts.Limit = opts.Count
	}

	res, err := x.rdb.FTSearchWithArgs(ctx, index, query, ftOpts).Result()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, WithContext(ErrIndexNotFound, map[string]interface{}{"index": index})
		}
		return nil, fmt.Errorf("search on %s failed: %w", index, err)
	}

	out := &SearchResult{Total: int64(res.Total)}
	for _, doc := range res.Docs {
		out.Docs = append(out.Docs, SearchDoc{Key: doc.ID, Fields: doc.Fields})
	}
	return out, nil
}

// isUnknownIndex matches the RediSearch "Unknown Index name" reply.
func isUnknownIndex(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unknown index")
}

// escapeTag escapes a value for embedding in an @field:{value} tag
// predicate. Punctuation inside a tag filter terminates the token unless
// backslash-escaped, and hyphenated ids (UUIDs, ISBNs) are the norm here.
func escapeTag(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
