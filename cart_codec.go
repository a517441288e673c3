package redishelf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flatten/unflatten codec for cart items.
//
// A cart's items are not independent entities: each item contributes three
// fields to the parent cart's hash, named items:<isbn>:Isbn,
// items:<isbn>:Price and items:<isbn>:Quantity. The isbn embedded in the
// field name is the item's identity, which is why ISBNs must not contain
// the key delimiter (validated here, on write).

// ItemFieldFunc generates the hash field name for one attribute of one item.
type ItemFieldFunc func(isbn, attr string) string

// FlattenItems encodes items into HSET pairs using the given field-name
// generator (ItemField for the canonical scheme). Emits exactly three
// fields per item; duplicate ISBNs in the input collapse to the last
// occurrence, matching the hash's last-write-wins semantics.
func FlattenItems(items []CartItem, field ItemFieldFunc) ([]interface{}, error) {
	args := make([]interface{}, 0, len(items)*6)
	for _, it := range items {
		if err := ValidateID(it.ISBN); err != nil {
			return nil, err
		}
		args = append(args,
			field(it.ISBN, ItemAttrISBN), it.ISBN,
			field(it.ISBN, ItemAttrPrice), formatPrice(it.Price),
			field(it.ISBN, ItemAttrQuantity), strconv.Itoa(it.Quantity),
		)
	}
	return args, nil
}

// UnflattenItems reconstructs the item list from a cart's hash: it groups
// every items:<isbn>:* field by the embedded isbn, dedupes, and emits
// exactly one CartItem per unique isbn. Every item must carry all three
// attribute fields; a missing attribute or an unparsable value surfaces as
// a DecodeError. Items come back sorted by ISBN so reconstruction is
// deterministic (stored items are an unordered set).
func UnflattenItems(key string, hash map[string]string) ([]CartItem, error) {
	seen := make(map[string]bool)
	var isbns []string
	for name := range hash {
		if !strings.HasPrefix(name, itemFieldPrefix) {
			continue
		}
		rest := strings.TrimPrefix(name, itemFieldPrefix)
		i := strings.LastIndex(rest, KeyDelimiter)
		if i <= 0 {
			return nil, decodeErr(key, name, fmt.Errorf("malformed item field name"))
		}
		isbn := rest[:i]
		if !seen[isbn] {
			seen[isbn] = true
			isbns = append(isbns, isbn)
		}
	}
	sort.Strings(isbns)

	items := make([]CartItem, 0, len(isbns))
	for _, isbn := range isbns {
		item, err := itemFromHash(key, isbn, hash)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func itemFromHash(key, isbn string, hash map[string]string) (CartItem, error) {
	var item CartItem

	stored, ok := hash[ItemField(isbn, ItemAttrISBN)]
	if !ok {
		return item, decodeErr(key, ItemField(isbn, ItemAttrISBN), fmt.Errorf("attribute missing"))
	}
	item.ISBN = stored

	raw, ok := hash[ItemField(isbn, ItemAttrPrice)]
	if !ok {
		return item, decodeErr(key, ItemField(isbn, ItemAttrPrice), fmt.Errorf("attribute missing"))
	}
	price, err := parsePrice(raw)
	if err != nil {
		return item, decodeErr(key, ItemField(isbn, ItemAttrPrice), err)
	}
	item.Price = price

	raw, ok = hash[ItemField(isbn, ItemAttrQuantity)]
	if !ok {
		return item, decodeErr(key, ItemField(isbn, ItemAttrQuantity), fmt.Errorf("attribute missing"))
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return item, decodeErr(key, ItemField(isbn, ItemAttrQuantity), fmt.Errorf("not an integer: %w", err))
	}
	item.Quantity = qty

	return item, nil
}

// CartArgs encodes a full cart (scalars plus flattened items) for storage.
func CartArgs(c *Cart) ([]interface{}, error) {
	args := cartMapping.Args(c)
	itemArgs, err := FlattenItems(c.Items, ItemField)
	if err != nil {
		return nil, err
	}
	return append(args, itemArgs...), nil
}

// CartFromHash rebuilds a full cart, items included, from its stored hash.
func CartFromHash(key string, hash map[string]string) (*Cart, error) {
	var c Cart
	if err := cartMapping.Load(&c, key, hash); err != nil {
		return nil, err
	}
	items, err := UnflattenItems(key, hash)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}
