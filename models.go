package redishelf

// User is an account that owns a set of books.
//
// Password holds the bcrypt hash once the user has been persisted;
// UserService.Create replaces the plaintext in place before writing.
// Books is stored under a derived sub-key (User:<id>:Books), never inside
// the user's own hash.
type User struct {
	ID       string
	Password string
	Books    []string
}

// Book is a catalog entry. Books are immutable once created except via
// bulk re-create. Only the first MaxAuthorFields author positions are
// persisted and indexed.
type Book struct {
	ID          string
	Title       string
	Subtitle    string
	Description string
	Price       float64
	Authors     []string
}

// Cart is a shopping cart. A cart is "open" while Closed is false; items
// live inside the cart's hash as flattened items:<isbn>:* fields, not as
// independent entities.
type Cart struct {
	ID     string
	UserID string
	Closed bool
	Items  []CartItem
}

// CartItem is one line of a cart, keyed by ISBN. Price is captured at
// add-time and is independent of the book's current price. Adding the same
// ISBN again overwrites the previous line (last write wins).
type CartItem struct {
	ISBN     string
	Price    float64
	Quantity int
}
