package redishelf

import (
	"fmt"
	"strconv"
)

// A Field binds one hash field name to its accessors on the entity. A
// Mapping is the full declarative table for an entity type: the single
// source of truth for how that entity's scalars travel to and from a
// Redis hash. No reflection is involved.
type Field[E any] struct {
	Name string
	Get  func(*E) string
	Set  func(*E, string) error
}

type Mapping[E any] []Field[E]

// Args encodes the entity into the flat field-value sequence HSET expects.
// Fields whose encoded value is empty are omitted; Redis hashes have no
// useful notion of an empty field and the author-position scheme relies on
// unused positions being absent.
func (m Mapping[E]) Args(e *E) []interface{} {
	args := make([]interface{}, 0, len(m)*2)
	for _, f := range m {
		v := f.Get(e)
		if v == "" {
			continue
		}
		args = append(args, f.Name, v)
	}
	return args
}

// Load decodes hash fields into the entity. Absent fields leave the zero
// value; present fields that fail to parse surface as a DecodeError
// carrying the storage key.
func (m Mapping[E]) Load(e *E, key string, hash map[string]string) error {
	for _, f := range m {
		raw, ok := hash[f.Name]
		if !ok {
			continue
		}
		if err := f.Set(e, raw); err != nil {
			return decodeErr(key, f.Name, err)
		}
	}
	return nil
}

// parseFloat and parsePrice keep numeric encode/decode in one place so the
// stored representation stays stable.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func parsePrice(raw string) (float64, error) {
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a price: %w", err)
	}
	return p, nil
}

// userMapping covers the user's scalar fields only. The owned-books set
// lives under User:<id>:Books, so it is deliberately not part of this table.
var userMapping = Mapping[User]{
	{
		Name: "id",
		Get:  func(u *User) string { return u.ID },
		Set:  func(u *User, v string) error { u.ID = v; return nil },
	},
	{
		Name: "password",
		Get:  func(u *User) string { return u.Password },
		Set:  func(u *User, v string) error { u.Password = v; return nil },
	},
}

// bookMapping includes one row per indexed author position: authors.[0]
// through authors.[MaxAuthorFields-1]. Author positions past the bound are
// not persisted.
var bookMapping = buildBookMapping()

func buildBookMapping() Mapping[Book] {
	m := Mapping[Book]{
		{
			Name: "id",
			Get:  func(b *Book) string { return b.ID },
			Set:  func(b *Book, v string) error { b.ID = v; return nil },
		},
		{
			Name: "title",
			Get:  func(b *Book) string { return b.Title },
			Set:  func(b *Book, v string) error { b.Title = v; return nil },
		},
		{
			Name: "subtitle",
			Get:  func(b *Book) string { return b.Subtitle },
			Set:  func(b *Book, v string) error { b.Subtitle = v; return nil },
		},
		{
			Name: "description",
			Get:  func(b *Book) string { return b.Description },
			Set:  func(b *Book, v string) error { b.Description = v; return nil },
		},
		{
			Name: "price",
			Get:  func(b *Book) string { return formatPrice(b.Price) },
			Set: func(b *Book, v string) error {
				p, err := parsePrice(v)
				if err != nil {
					return err
				}
				b.Price = p
				return nil
			},
		},
	}
	for i := 0; i < MaxAuthorFields; i++ {
		pos := i
		m = append(m, Field[Book]{
			Name: AuthorField(pos),
			Get: func(b *Book) string {
				if pos >= len(b.Authors) {
					return ""
				}
				return b.Authors[pos]
			},
			Set: func(b *Book, v string) error {
				// Decode by position so an absent earlier field
				// (an empty author name is not stored) cannot
				// shift later authors down.
				for len(b.Authors) <= pos {
					b.Authors = append(b.Authors, "")
				}
				b.Authors[pos] = v
				return nil
			},
		})
	}
	return m
}

// AuthorField returns the hash field name of one author position: authors.[N].
func AuthorField(pos int) string {
	return fmt.Sprintf("authors.[%d]", pos)
}

// cartMapping covers the cart's scalar fields. Items are flattened
// separately by FlattenItems/UnflattenItems.
var cartMapping = Mapping[Cart]{
	{
		Name: "id",
		Get:  func(c *Cart) string { return c.ID },
		Set:  func(c *Cart, v string) error { c.ID = v; return nil },
	},
	{
		Name: "userId",
		Get:  func(c *Cart) string { return c.UserID },
		Set:  func(c *Cart, v string) error { c.UserID = v; return nil },
	},
	{
		Name: "closed",
		Get:  func(c *Cart) string { return strconv.FormatBool(c.Closed) },
		Set: func(c *Cart, v string) error {
			closed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("not a boolean: %w", err)
			}
			c.Closed = closed
			return nil
		},
	},
}

// UserArgs encodes a user's scalar fields for storage.
func UserArgs(u *User) []interface{} { return userMapping.Args(u) }

// UserFromHash rebuilds a user's scalar fields from its stored hash.
func UserFromHash(key string, hash map[string]string) (*User, error) {
	var u User
	if err := userMapping.Load(&u, key, hash); err != nil {
		return nil, err
	}
	return &u, nil
}

// BookArgs encodes a book for storage.
func BookArgs(b *Book) []interface{} { return bookMapping.Args(b) }

// BookFromHash rebuilds a book from its stored hash.
func BookFromHash(key string, hash map[string]string) (*Book, error) {
	var b Book
	if err := bookMapping.Load(&b, key, hash); err != nil {
		return nil, err
	}
	return &b, nil
}
