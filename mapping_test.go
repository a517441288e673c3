package redishelf

import (
	"testing"
)

// argsToHash converts the flat HSET pair sequence into a map, the shape
// the store hands back on read.
func argsToHash(t *testing.T, args []interface{}) map[string]string {
	t.Helper()
	if len(args)%2 != 0 {
		t.Fatalf("odd number of args: %d", len(args))
	}
	hash := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		name, ok := args[i].(string)
		if !ok {
			t.Fatalf("field name at %d is not a string: %v", i, args[i])
		}
		value, ok := args[i+1].(string)
		if !ok {
			t.Fatalf("field value at %d is not a string: %v", i+1, args[i+1])
		}
		hash[name] = value
	}
	return hash
}

func TestBookRoundTrip(t *testing.T) {
	in := &Book{
		ID:          "b1",
		Title:       "Foo",
		Subtitle:    "a subtitle",
		Description: "a long description",
		Price:       9.99,
		Authors:     []string{"A", "B"},
	}

	hash := argsToHash(t, BookArgs(in))

	if hash["price"] != "9.99" {
		t.Errorf("price stored as %q", hash["price"])
	}
	if hash["authors.[0]"] != "A" || hash["authors.[1]"] != "B" {
		t.Errorf("author fields wrong: %v", hash)
	}
	if _, ok := hash["authors.[2]"]; ok {
		t.Error("unused author position should not be stored")
	}

	out, err := BookFromHash(BookKey(in.ID), hash)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != in.ID || out.Title != in.Title || out.Subtitle != in.Subtitle ||
		out.Description != in.Description || out.Price != in.Price {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if len(out.Authors) != 2 || out.Authors[0] != "A" || out.Authors[1] != "B" {
		t.Errorf("authors mismatch: %v", out.Authors)
	}
}

func TestBookAuthorBound(t *testing.T) {
	in := &Book{ID: "b2", Title: "Many", Authors: []string{"a", "b", "c", "d", "e", "f", "g"}}
	hash := argsToHash(t, BookArgs(in))

	if _, ok := hash[AuthorField(MaxAuthorFields-1)]; !ok {
		t.Errorf("last bounded author position missing")
	}
	if _, ok := hash[AuthorField(MaxAuthorFields)]; ok {
		t.Errorf("author position past bound was stored")
	}

	out, err := BookFromHash(BookKey(in.ID), hash)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Authors) != MaxAuthorFields {
		t.Errorf("got %d authors back, want %d", len(out.Authors), MaxAuthorFields)
	}
}

func TestBookAuthorPositionalDecode(t *testing.T) {
	in := &Book{ID: "b3", Title: "Gap", Authors: []string{"", "B"}}
	hash := argsToHash(t, BookArgs(in))

	// The empty position is not stored, but the occupied one keeps its slot.
	if _, ok := hash[AuthorField(0)]; ok {
		t.Error("empty author name should not be stored")
	}
	if hash[AuthorField(1)] != "B" {
		t.Errorf("authors.[1] = %q", hash[AuthorField(1)])
	}

	out, err := BookFromHash(BookKey(in.ID), hash)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Authors) != 2 || out.Authors[0] != "" || out.Authors[1] != "B" {
		t.Errorf("authors = %v, want [ B] with the gap preserved", out.Authors)
	}
}

func TestBookDecodeError(t *testing.T) {
	hash := map[string]string{"id": "b1", "price": "not-a-number"}
	_, err := BookFromHash("Book:b1", hash)
	de, ok := IsDecodeError(err)
	if !ok {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Key != "Book:b1" || de.Field != "price" {
		t.Errorf("wrong location: %+v", de)
	}
}

func TestUserRoundTrip(t *testing.T) {
	in := &User{ID: "u1", Password: "$2a$11$fakehash"}
	hash := argsToHash(t, UserArgs(in))

	if _, ok := hash["Books"]; ok {
		t.Error("books must not appear in the scalar mapping")
	}

	out, err := UserFromHash(UserKey(in.ID), hash)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != in.ID || out.Password != in.Password {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestCartScalarDecode(t *testing.T) {
	hash := map[string]string{"id": "7", "userId": "u1", "closed": "true"}
	cart, err := CartFromHash("Cart:7", hash)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.ID != "7" || cart.UserID != "u1" || !cart.Closed {
		t.Errorf("mismatch: %+v", cart)
	}

	hash["closed"] = "maybe"
	if _, err := CartFromHash("Cart:7", hash); err == nil {
		t.Error("expected decode error for bad closed flag")
	} else if _, ok := IsDecodeError(err); !ok {
		t.Errorf("expected DecodeError, got %v", err)
	}
}
