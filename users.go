package redishelf

import (
	"context"
	"sort"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// UserService persists users and their owned-books sets. Passwords are
// bcrypt-hashed at write time and never stored in plaintext.
type UserService struct {
	store    *Store
	hashCost int
}

// NewUserService creates a user service with the default bcrypt cost
func NewUserService(store *Store) *UserService {
	return &UserService{store: store, hashCost: DefaultHashCost}
}

// WithHashCost overrides the bcrypt cost factor and returns the service
// for chaining
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// Create hashes the password and persists the user. When the user carries
// an initial owned-book collection, it is written to the derived sub-key
// first and cleared from the object before the scalar write, so book ids
// are never duplicated into the user's hash. The passed-in User is updated
// in place: Password becomes the hash, Books becomes nil.
func (s *UserService) Create(ctx context.Context, user *User) error {
	if err := ValidateID(user.ID); err != nil {
		return err
	}
	if err := ValidateHashCost(s.hashCost); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.hashCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)

	if len(user.Books) > 0 {
		if err := s.store.AddSetMembers(ctx, UserBooksKey(user.ID), user.Books...); err != nil {
			return err
		}
		user.Books = nil
	}

	return s.store.PutHash(ctx, UserKey(user.ID), UserArgs(user))
}

// CreateBulk creates all users concurrently, each independently. The first
// failure cancels the remaining writes and is the error returned.
func (s *UserService) CreateBulk(ctx context.Context, users []*User) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, user := range users {
		user := user
		g.Go(func() error {
			return s.Create(ctx, user)
		})
	}
	return g.Wait()
}

// AddBooks unions book ids into the user's owned-books set. SADD semantics
// make this idempotent: adding an isbn the user already owns has no effect.
func (s *UserService) AddBooks(ctx context.Context, id string, books ...string) error {
	return s.store.AddSetMembers(ctx, UserBooksKey(id), books...)
}

// CheckBulk returns the subset of ids that exist, preserving the input's
// relative order. Existence checks fan out concurrently, one per id.
func (s *UserService) CheckBulk(ctx context.Context, ids []string) ([]string, error) {
	found := make([]bool, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			ok, err := s.store.Exists(ctx, UserKey(id))
			if err != nil {
				return err
			}
			found[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(ids))
	for i, id := range ids {
		if found[i] {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// Read merges the scalar hash and the owned-books set into one
// reconstructed User. A missing id yields ErrNotFound; the books set alone
// does not make a user exist. Books come back sorted, since the stored set
// is unordered.
func (s *UserService) Read(ctx context.Context, id string) (*User, error) {
	hash, err := s.store.GetHash(ctx, UserKey(id))
	if err != nil {
		return nil, err
	}

	user, err := UserFromHash(UserKey(id), hash)
	if err != nil {
		return nil, err
	}

	books, err := s.store.SetMembers(ctx, UserBooksKey(id))
	if err != nil {
		return nil, err
	}
	sort.Strings(books)
	user.Books = books

	return user, nil
}
