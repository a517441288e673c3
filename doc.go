// Package redishelf is a persistence and query layer for a bookstore
// domain (users, books, carts) on Redis, with RediSearch secondary indexes
// for search, sort and pagination.
//
// # Storage model
//
// Every entity is one Redis hash under a canonical key derived by the key
// codec: User:<id>, Book:<id>, Cart:<id>. Two things deliberately break
// the one-hash-per-entity rule:
//
//   - a user's owned books live in a separate set under User:<id>:Books,
//     so the scalar hash stays free of collection churn;
//   - a cart's items are flattened INTO the cart's hash as
//     items:<isbn>:Isbn / items:<isbn>:Price / items:<isbn>:Quantity
//     fields, meaning items are a set keyed by ISBN with no independent
//     lifecycle.
//
// The declarative mapping tables in mapping.go are the single source of
// truth for how each entity's fields travel to and from a hash; the
// flatten/unflatten codec in cart_codec.go handles the item fields.
//
// # Indexes
//
// One RediSearch index per entity type, each bound to that type's key
// prefix. IndexManager recreates them idempotently on bring-up (drop
// tolerating absence, then create), since there is no
// create-if-not-exists primitive. Queries pass the caller's raw query
// string straight through to FT.SEARCH.
//
// # Services
//
// BookService, UserService and CartService are the public surface:
//
//	store := redishelf.NewStore(redis.NewClient(redishelf.RedisOptions()))
//	indexes := redishelf.NewIndexManager(redishelf.NewRediSearchIndexer(store.Client()))
//	indexes.RegisterDefaults()
//	_ = indexes.EnsureAll(ctx)
//
//	books := redishelf.NewBookService(store, indexes)
//	users := redishelf.NewUserService(store)
//	carts := redishelf.NewCartService(store, indexes)
//
// Bulk operations fan out one Redis call per item and propagate the first
// failure; there is no cross-entity atomicity anywhere in this layer, and
// Checkout in particular is documented best-effort.
package redishelf
