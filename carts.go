package redishelf

import (
	"context"
	"fmt"
	"strconv"
)

// CartService persists carts and runs the checkout workflow. Cart ids come
// from the shared Cart:id counter, so allocation is monotonic across
// service instances.
type CartService struct {
	store   *Store
	indexes *IndexManager
	counter *Counter
}

// NewCartService creates a cart service
func NewCartService(store *Store, indexes *IndexManager) *CartService {
	return &CartService{
		store:   store,
		indexes: indexes,
		counter: NewCounter(store.Client(), CartCounterKey, store.Logger(), store.Metrics()),
	}
}

// Create returns the id of the user's cart. When an open cart already
// exists it is reused; otherwise a new id is allocated from the counter and
// an empty open cart is written.
//
// "At most one open cart per user" is enforced by this lookup-before-create
// only. Two concurrent Creates for the same user can race through the gap
// between lookup and write and each get a cart; treat the invariant as
// best-effort, not guaranteed.
func (s *CartService) Create(ctx context.Context, userID string) (string, error) {
	if err := ValidateID(userID); err != nil {
		return "", err
	}

	existing, err := s.GetCartForUser(ctx, userID)
	if err == nil {
		return existing.ID, nil
	}
	if !IsNotFound(err) {
		return "", err
	}

	n, err := s.counter.Increment(ctx)
	if err != nil {
		return "", err
	}
	cart := &Cart{
		ID:     strconv.FormatInt(n, 10),
		UserID: userID,
		Closed: false,
	}
	args, err := CartArgs(cart)
	if err != nil {
		return "", err
	}
	if err := s.store.PutHash(ctx, CartKey(cart.ID), args); err != nil {
		return "", err
	}

	s.store.Logger().Info("cart created", "cart", cart.ID, "user", userID)
	return cart.ID, nil
}

// AddToCart upserts one item into an open cart: the item's three flattened
// fields are written under its ISBN's namespace, so adding the same ISBN
// again overwrites price and quantity (last write wins). A closed cart
// fails with ErrCartClosed before anything is written.
func (s *CartService) AddToCart(ctx context.Context, cartID string, item CartItem) error {
	closed, err := s.cartClosed(ctx, cartID)
	if err != nil {
		return err
	}
	if closed {
		return WithContext(ErrCartClosed, map[string]interface{}{"cart": cartID})
	}

	args, err := FlattenItems([]CartItem{item}, ItemField)
	if err != nil {
		return err
	}
	return s.store.PutHash(ctx, CartKey(cartID), args)
}

// RemoveFromCart deletes exactly the three namespaced fields of one ISBN.
// Removing an ISBN that is not in the cart is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, cartID, isbn string) error {
	return s.store.DeleteHashFields(ctx, CartKey(cartID), ItemFields(isbn)...)
}

// Get reconstructs the full cart, items included.
func (s *CartService) Get(ctx context.Context, cartID string) (*Cart, error) {
	key := CartKey(cartID)
	hash, err := s.store.GetHash(ctx, key)
	if err != nil {
		return nil, err
	}
	return CartFromHash(key, hash)
}

// GetCartForUser finds the user's open cart through the index: an exact
// two-predicate tag match on userId and closed=false. No open cart yields
// ErrNotFound.
func (s *CartService) GetCartForUser(ctx context.Context, userID string) (*Cart, error) {
	query := fmt.Sprintf("@userId:{%s} @closed:{false}", escapeTag(userID))
	res, err := s.indexes.Search(ctx, CartIndexName, query, SearchOptions{Count: 1})
	if err != nil {
		return nil, err
	}
	if res.Total == 0 || len(res.Docs) == 0 {
		return nil, WithContext(ErrNotFound, map[string]interface{}{
			"user":   userID,
			"reason": "no open cart",
		})
	}
	return s.Get(ctx, keyID(res.Docs[0].Key, TypeCart))
}

// Checkout transfers the cart's item ISBNs into the owning user's book set,
// then sets the cart's closed flag. These are two independent writes with
// no cross-key atomicity: a crash in between leaves the books granted and
// the cart still open. Both halves are idempotent (SADD union, flag set),
// so re-running Checkout converges.
func (s *CartService) Checkout(ctx context.Context, cartID string) error {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return err
	}
	if cart.Closed {
		return WithContext(ErrCartClosed, map[string]interface{}{"cart": cartID})
	}

	if len(cart.Items) > 0 {
		isbns := make([]string, len(cart.Items))
		for i, item := range cart.Items {
			isbns[i] = item.ISBN
		}
		if err := s.store.AddSetMembers(ctx, UserBooksKey(cart.UserID), isbns...); err != nil {
			return err
		}
	}

	if err := s.store.PutHash(ctx, CartKey(cartID), []interface{}{"closed", strconv.FormatBool(true)}); err != nil {
		return err
	}

	s.store.Logger().Info("cart checked out",
		"cart", cartID,
		"user", cart.UserID,
		"items", len(cart.Items),
	)
	return nil
}

// cartClosed reads only the closed flag. A missing cart maps to ErrNotFound.
func (s *CartService) cartClosed(ctx context.Context, cartID string) (bool, error) {
	raw, err := s.store.HashField(ctx, CartKey(cartID), "closed")
	if err != nil {
		return false, err
	}
	closed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, decodeErr(CartKey(cartID), "closed", fmt.Errorf("not a boolean: %w", err))
	}
	return closed, nil
}
