package redishelf

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BookService persists books and answers catalog queries. Point lookups go
// through the index (tag match on id) rather than a direct key fetch, so a
// book is only "found" once the index covers it.
type BookService struct {
	store   *Store
	indexes *IndexManager
}

// NewBookService creates a book service
func NewBookService(store *Store, indexes *IndexManager) *BookService {
	return &BookService{store: store, indexes: indexes}
}

// Create writes one book hash. Books are immutable once created except via
// bulk re-create; a second Create with the same id overwrites field by field.
func (s *BookService) Create(ctx context.Context, book *Book) error {
	if err := ValidateID(book.ID); err != nil {
		return err
	}
	return s.store.PutHash(ctx, BookKey(book.ID), BookArgs(book))
}

// CreateBulk writes all books concurrently, each independently. There is no
// cross-book atomicity; the first failure cancels the remaining writes and
// is the error returned.
func (s *BookService) CreateBulk(ctx context.Context, books []*Book) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, book := range books {
		book := book
		g.Go(func() error {
			return s.Create(ctx, book)
		})
	}
	return g.Wait()
}

// Get performs a point lookup via the index: an exact tag match on id.
// Zero matches yields ErrNotFound.
func (s *BookService) Get(ctx context.Context, id string) (*Book, error) {
	query := fmt.Sprintf("@id:{%s}", escapeTag(id))
	res, err := s.indexes.Search(ctx, BookIndexName, query, SearchOptions{Count: 1})
	if err != nil {
		return nil, err
	}
	if res.Total == 0 || len(res.Docs) == 0 {
		return nil, WithContext(ErrNotFound, map[string]interface{}{"book": id})
	}
	doc := res.Docs[0]
	return BookFromHash(doc.Key, doc.Fields)
}

// Search passes a raw query string through to the index, sorted by the
// given field. The result window stays at the index's default size; use
// Paginate for explicit windows.
func (s *BookService) Search(ctx context.Context, query, sortBy string, ascending bool) ([]*Book, error) {
	res, err := s.indexes.Search(ctx, BookIndexName, query, SearchOptions{
		SortBy:    sortBy,
		Ascending: ascending,
	})
	if err != nil {
		return nil, err
	}
	return booksFromResult(res)
}

// Paginate runs a query with an explicit result window:
// offset = page*pageSize, zero-based page.
func (s *BookService) Paginate(ctx context.Context, query string, page int, sortBy string, ascending bool, pageSize int) ([]*Book, error) {
	if err := ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	res, err := s.indexes.Search(ctx, BookIndexName, query, SearchOptions{
		SortBy:    sortBy,
		Ascending: ascending,
		Offset:    page * pageSize,
		Count:     pageSize,
	})
	if err != nil {
		return nil, err
	}
	return booksFromResult(res)
}

func booksFromResult(res *SearchResult) ([]*Book, error) {
	books := make([]*Book, 0, len(res.Docs))
	for _, doc := range res.Docs {
		book, err := BookFromHash(doc.Key, doc.Fields)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}
