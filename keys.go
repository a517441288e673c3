package redishelf

import "strings"

// Storage key scheme. These formats are a compatibility contract with any
// existing deployment and must not change:
//
//	User:<id>        hash of user scalar fields
//	User:<id>:Books  set of owned book ids
//	Book:<id>        hash of book fields
//	Cart:<id>        hash of cart scalars plus flattened item fields
//	Cart:id          counter used to allocate cart ids
const (
	TypeUser = "User"
	TypeBook = "Book"
	TypeCart = "Cart"

	// KeyDelimiter separates the segments of every key and of every
	// flattened item field name. Ids and ISBNs must not contain it, or
	// decoding becomes ambiguous; ValidateID enforces this on write.
	KeyDelimiter = ":"

	// CartCounterKey is the shared counter incremented to allocate cart ids.
	CartCounterKey = TypeCart + KeyDelimiter + "id"

	// BooksSuffix is the sub-key suffix for a user's owned-books set.
	BooksSuffix = "Books"
)

// Cart item attribute names, used as the last segment of flattened item
// field names (items:<isbn>:Isbn and friends).
const (
	ItemAttrISBN     = "Isbn"
	ItemAttrPrice    = "Price"
	ItemAttrQuantity = "Quantity"

	itemFieldPrefix = "items" + KeyDelimiter
)

// EntityKey derives the canonical storage key for an entity.
func EntityKey(typeName, id string) string {
	return typeName + KeyDelimiter + id
}

// SubKey derives the key of a sub-collection owned by parentKey.
func SubKey(parentKey, suffix string) string {
	return parentKey + KeyDelimiter + suffix
}

// UserKey returns User:<id>.
func UserKey(id string) string { return EntityKey(TypeUser, id) }

// BookKey returns Book:<id>.
func BookKey(id string) string { return EntityKey(TypeBook, id) }

// CartKey returns Cart:<id>.
func CartKey(id string) string { return EntityKey(TypeCart, id) }

// UserBooksKey returns User:<id>:Books, the set of book ids owned by a user.
func UserBooksKey(id string) string { return SubKey(UserKey(id), BooksSuffix) }

// ItemField produces the field name for one attribute of a flattened cart
// item: items:<isbn>:<attr>. This is a field name inside the cart's hash,
// not a standalone storage key.
func ItemField(isbn, attr string) string {
	return itemFieldPrefix + isbn + KeyDelimiter + attr
}

// ItemFields returns the three field names holding a cart item's attributes.
func ItemFields(isbn string) []string {
	return []string{
		ItemField(isbn, ItemAttrISBN),
		ItemField(isbn, ItemAttrPrice),
		ItemField(isbn, ItemAttrQuantity),
	}
}

// ValidateID rejects identifiers that would collide with the key scheme.
func ValidateID(id string) error {
	if id == "" {
		return WithContext(ErrInvalidData, map[string]interface{}{
			"reason": "empty identifier",
		})
	}
	if strings.Contains(id, KeyDelimiter) {
		return WithContext(ErrReservedDelimiter, map[string]interface{}{
			"id":        id,
			"delimiter": KeyDelimiter,
		})
	}
	return nil
}

// keyID strips the type prefix from a storage key: Cart:42 -> 42.
func keyID(key, typeName string) string {
	return strings.TrimPrefix(key, typeName+KeyDelimiter)
}
