package domain

// CartItem is one product line in a cart.
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line price.
func (i CartItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart is the customer's shopping cart.
type Cart struct {
	ID          int64      `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

// Wishlist is the customer's saved products.
type Wishlist struct {
	ID       int64     `json:"id"`
	Products []Product `json:"products"`
}

// Contains returns true if the product is on the wishlist.
func (w Wishlist) Contains(productID int64) bool {
	for _, p := range w.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}
