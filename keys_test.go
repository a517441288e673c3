package redishelf

import (
	"errors"
	"testing"
)

func TestEntityKeyFormats(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{UserKey("u1"), "User:u1"},
		{UserBooksKey("u1"), "User:u1:Books"},
		{BookKey("b1"), "Book:b1"},
		{CartKey("42"), "Cart:42"},
		{CartCounterKey, "Cart:id"},
		{EntityKey("Thing", "x"), "Thing:x"},
		{SubKey("Cart:1", "Meta"), "Cart:1:Meta"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestItemFieldNames(t *testing.T) {
	if got := ItemField("978-316", "Price"); got != "items:978-316:Price" {
		t.Errorf("got %q", got)
	}

	fields := ItemFields("x1")
	want := []string{"items:x1:Isbn", "items:x1:Price", "items:x1:Quantity"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d: got %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("plain-id-123"); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	if err := ValidateID("has:delimiter"); !errors.Is(err, ErrReservedDelimiter) {
		t.Errorf("expected ErrReservedDelimiter, got %v", err)
	}
	if err := ValidateID(""); !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected ErrInvalidData for empty id, got %v", err)
	}
}

func TestKeyID(t *testing.T) {
	if got := keyID("Cart:42", TypeCart); got != "42" {
		t.Errorf("got %q, want 42", got)
	}
}
