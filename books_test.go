package redishelf

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func TestBookCreateAndGet(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)
	ctx := context.Background()

	want := &Book{
		ID:          "b1",
		Title:       "Foo",
		Subtitle:    "a subtitle",
		Description: "a longer description",
		Price:       9.99,
		Authors:     []string{"Alice Author", "Bob Builder"},
	}
	if err := books.Create(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := books.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	page, err := books.Paginate(ctx, "@id:{b1}", 0, "", true, DefaultPageSize)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(page) != 1 || !reflect.DeepEqual(page[0], want) {
		t.Errorf("paginate by id = %+v", page)
	}
}

func TestEscapeTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain123", "plain123"},
		{"978-0134190440", `978\-0134190440`},
		{"a.b@c", `a\.b\@c`},
		{"with space", `with\ space`},
		{"br{ace}|pipe", `br\{ace\}\|pipe`},
	}
	for _, c := range cases {
		if got := escapeTag(c.in); got != c.want {
			t.Errorf("escapeTag(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBookGetHyphenatedID(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)
	ctx := context.Background()

	want := &Book{ID: "978-0134190440", Title: "Hyphens", Price: 31.99}
	if err := books.Create(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := books.Get(ctx, "978-0134190440")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want.ID || got.Title != want.Title {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBookGetMissing(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)

	_, err := books.Get(context.Background(), "ghost")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookCreateRejectsBadID(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)
	ctx := context.Background()

	if err := books.Create(ctx, &Book{ID: ""}); err == nil {
		t.Error("expected error for empty id")
	}
	if err := books.Create(ctx, &Book{ID: "a:b"}); err == nil {
		t.Error("expected error for id containing delimiter")
	}
}

func TestBookCreateBulk(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)
	ctx := context.Background()

	var batch []*Book
	for i := 0; i < 20; i++ {
		batch = append(batch, &Book{
			ID:    fmt.Sprintf("bulk%02d", i),
			Title: fmt.Sprintf("Title %02d", i),
			Price: float64(i) + 0.5,
		})
	}
	if err := books.CreateBulk(ctx, batch); err != nil {
		t.Fatalf("create bulk: %v", err)
	}

	for _, want := range batch {
		got, err := books.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("get %s: %v", want.ID, err)
		}
		if got.Title != want.Title || got.Price != want.Price {
			t.Errorf("get %s = %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestBookCreateBulkPropagatesFailure(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)

	batch := []*Book{
		{ID: "good", Title: "ok"},
		{ID: "bad:id", Title: "nope"},
	}
	if err := books.CreateBulk(context.Background(), batch); err == nil {
		t.Error("expected bulk create to surface the invalid id")
	}
}

func TestBookSearchSortedByPrice(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)
	ctx := context.Background()

	seed := []*Book{
		{ID: "cheap", Title: "Cheap", Price: 1.5},
		{ID: "mid", Title: "Mid", Price: 10},
		{ID: "dear", Title: "Dear", Price: 99.99},
	}
	if err := books.CreateBulk(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	asc, err := books.Search(ctx, "*", "price", true)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("got %d books, want 3", len(asc))
	}
	if asc[0].ID != "cheap" || asc[2].ID != "dear" {
		t.Errorf("ascending order wrong: %s, %s, %s", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	desc, err := books.Search(ctx, "*", "price", false)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if desc[0].ID != "dear" || desc[2].ID != "cheap" {
		t.Errorf("descending order wrong: %s, %s, %s", desc[0].ID, desc[1].ID, desc[2].ID)
	}
}

func TestBookPaginate(t *testing.T) {
	store, indexes := newTestStore(t)
	books := NewBookService(store, indexes)
	ctx := context.Background()

	var seed []*Book
	for i := 0; i < 7; i++ {
		seed = append(seed, &Book{
			ID:    fmt.Sprintf("p%d", i),
			Title: fmt.Sprintf("Page %d", i),
			Price: float64(i),
		})
	}
	if err := books.CreateBulk(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	page0, err := books.Paginate(ctx, "*", 0, "price", true, 3)
	if err != nil {
		t.Fatalf("page 0: %v", err)
	}
	if len(page0) != 3 || page0[0].ID != "p0" {
		t.Errorf("page 0 = %v", bookIDs(page0))
	}

	page2, err := books.Paginate(ctx, "*", 2, "price", true, 3)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2) != 1 || page2[0].ID != "p6" {
		t.Errorf("page 2 = %v", bookIDs(page2))
	}

	// A single hit paginates as exactly one result on the first page.
	single, err := books.Paginate(ctx, "@id:{p3}", 0, "", true, DefaultPageSize)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if len(single) != 1 || single[0].ID != "p3" {
		t.Errorf("single hit = %v", bookIDs(single))
	}

	if _, err := books.Paginate(ctx, "*", -1, "price", true, 3); err == nil {
		t.Error("expected error for negative page")
	}
	if _, err := books.Paginate(ctx, "*", 0, "price", true, 0); err == nil {
		t.Error("expected error for zero page size")
	}
}

func bookIDs(books []*Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}
