package redishelf

import (
	"context"
	"errors"
)

// Index names, one secondary index per entity type. Each definition is
// bound to its type's key prefix, so the index only ever covers that
// entity's hashes. (The Cart:id counter key falls inside the Cart prefix,
// but RediSearch indexes hashes only, so the string counter is ignored.)
const (
	UserIndexName = "users-idx"
	BookIndexName = "books-idx"
	CartIndexName = "carts-idx"
)

// UserIndex defines the user index: id as a tag for exact-match lookups.
func UserIndex() IndexDefinition {
	return IndexDefinition{
		Name:   UserIndexName,
		Prefix: TypeUser + KeyDelimiter,
		Fields: []IndexField{
			{Name: "id", Kind: FieldTag},
		},
	}
}

// BookIndex defines the book index: sortable title, text subtitle and
// description, sortable numeric price, id as a tag for point lookups, and
// the bounded author positions as text.
func BookIndex() IndexDefinition {
	fields := []IndexField{
		{Name: "title", Kind: FieldTextSortable},
		{Name: "subtitle", Kind: FieldText},
		{Name: "description", Kind: FieldText},
		{Name: "price", Kind: FieldNumericSortable},
		{Name: "id", Kind: FieldTag},
	}
	for i := 0; i < MaxAuthorFields; i++ {
		fields = append(fields, IndexField{Name: AuthorField(i), Kind: FieldText})
	}
	return IndexDefinition{
		Name:   BookIndexName,
		Prefix: TypeBook + KeyDelimiter,
		Fields: fields,
	}
}

// CartIndex defines the cart index: owning user id and closed flag as tags,
// which makes "find this user's open cart" an exact two-predicate match.
func CartIndex() IndexDefinition {
	return IndexDefinition{
		Name:   CartIndexName,
		Prefix: TypeCart + KeyDelimiter,
		Fields: []IndexField{
			{Name: "userId", Kind: FieldTag},
			{Name: "closed", Kind: FieldTag},
		},
	}
}

// IndexManager owns the registered index definitions and brings them up
// idempotently. There is no create-if-not-exists primitive, so EnsureIndex
// drops any pre-existing index of the same name first, tolerating
// "does not exist" as success, then creates fresh.
type IndexManager struct {
	indexer SearchIndexer
	defs    []IndexDefinition
	logger  Logger
	metrics Metrics
}

// NewIndexManager creates an index manager with no-op logger and metrics
func NewIndexManager(indexer SearchIndexer) *IndexManager {
	return &IndexManager{
		indexer: indexer,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// WithLogger sets the logger and returns the manager for chaining
func (im *IndexManager) WithLogger(logger Logger) *IndexManager {
	im.logger = logger
	return im
}

// WithMetrics sets the metrics collector and returns the manager for chaining
func (im *IndexManager) WithMetrics(metrics Metrics) *IndexManager {
	im.metrics = metrics
	return im
}

// Register adds an index definition to be managed
func (im *IndexManager) Register(def IndexDefinition) {
	im.defs = append(im.defs, def)
}

// RegisterDefaults registers the user, book and cart indexes
func (im *IndexManager) RegisterDefaults() {
	im.Register(UserIndex())
	im.Register(BookIndex())
	im.Register(CartIndex())
}

// EnsureIndex recreates one index: try-drop (ignoring absence), then create.
func (im *IndexManager) EnsureIndex(ctx context.Context, def IndexDefinition) error {
	err := im.indexer.DropIndex(ctx, def.Name)
	switch {
	case err == nil:
		im.logger.Debug("dropped existing index", "index", def.Name)
	case errors.Is(err, ErrIndexNotFound):
		// First bring-up, nothing to drop.
	default:
		return err
	}

	if err := im.indexer.CreateIndex(ctx, def); err != nil {
		im.metrics.Increment(MetricIndexCreateError, "index", def.Name)
		return err
	}

	im.logger.Info("index created", "index", def.Name, "prefix", def.Prefix)
	im.metrics.Increment(MetricIndexCreate, "index", def.Name)
	return nil
}

// EnsureAll brings up every registered index. Safe to run on every process
// start.
func (im *IndexManager) EnsureAll(ctx context.Context) error {
	for _, def := range im.defs {
		if err := im.EnsureIndex(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

// Search runs a raw query against a named index.
func (im *IndexManager) Search(ctx context.Context, index, query string, opts SearchOptions) (*SearchResult, error) {
	res, err := im.indexer.Search(ctx, index, query, opts)
	if err != nil {
		im.metrics.Increment(MetricSearchError, "index", index)
		return nil, err
	}
	im.metrics.Increment(MetricSearchSuccess, "index", index)
	im.logger.Debug("search executed",
		"index", index,
		"query", query,
		"total", res.Total,
	)
	return res, nil
}
