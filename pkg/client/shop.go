package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/naveenspark/storefront/pkg/domain"
)

// --- Catalog ---

// ListProducts returns the public catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.Get(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.Get(ctx, "/products/"+strconv.FormatInt(id, 10), &p); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &p, nil
}

// ListCategories returns all product categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.Get(ctx, "/categories", &cats); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return cats, nil
}

// --- Cart ---

// GetCart returns the caller's cart.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.Get(ctx, "/cart", &cart); err != nil {
		return nil, fmt.Errorf("client.GetCart: %w", err)
	}
	return &cart, nil
}

// AddToCart adds quantity units of a product.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	params := url.Values{}
	params.Set("productId", strconv.FormatInt(productID, 10))
	params.Set("quantity", strconv.Itoa(quantity))
	if err := c.Post(ctx, "/cart/add?"+params.Encode(), nil, nil); err != nil {
		return fmt.Errorf("client.AddToCart: %w", err)
	}
	return nil
}

// RemoveCartItem removes one line from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	if err := c.Delete(ctx, "/cart/remove/"+strconv.FormatInt(itemID, 10), nil); err != nil {
		return fmt.Errorf("client.RemoveCartItem: %w", err)
	}
	return nil
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.Delete(ctx, "/cart/clear", nil); err != nil {
		return fmt.Errorf("client.ClearCart: %w", err)
	}
	return nil
}

// --- Wishlist ---

// GetWishlist returns the caller's wishlist.
func (c *Client) GetWishlist(ctx context.Context) (*domain.Wishlist, error) {
	var w domain.Wishlist
	if err := c.Get(ctx, "/wishlist", &w); err != nil {
		return nil, fmt.Errorf("client.GetWishlist: %w", err)
	}
	return &w, nil
}

// AddToWishlist saves a product.
func (c *Client) AddToWishlist(ctx context.Context, productID int64) error {
	if err := c.Post(ctx, "/wishlist/add?productId="+strconv.FormatInt(productID, 10), nil, nil); err != nil {
		return fmt.Errorf("client.AddToWishlist: %w", err)
	}
	return nil
}

// RemoveFromWishlist unsaves a product.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) error {
	if err := c.Delete(ctx, "/wishlist/remove?productId="+strconv.FormatInt(productID, 10), nil); err != nil {
		return fmt.Errorf("client.RemoveFromWishlist: %w", err)
	}
	return nil
}

// --- Orders ---

// PlaceOrder turns the current cart into an order.
func (c *Client) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	var o domain.Order
	if err := c.Post(ctx, "/orders/place", nil, &o); err != nil {
		return nil, fmt.Errorf("client.PlaceOrder: %w", err)
	}
	return &o, nil
}

// ListMyOrders returns the caller's orders.
func (c *Client) ListMyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.Get(ctx, "/orders/my", &orders); err != nil {
		return nil, fmt.Errorf("client.ListMyOrders: %w", err)
	}
	return orders, nil
}

// CancelOrder cancels an order that has not shipped.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	if err := c.Put(ctx, "/orders/cancel/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("client.CancelOrder: %w", err)
	}
	return nil
}

// --- Seller ---

// CreateProductRequest is the payload for listing a new product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// ListSellerProducts returns the products a seller has listed.
func (c *Client) ListSellerProducts(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.Get(ctx, "/products/seller/"+strconv.FormatInt(sellerID, 10), &products); err != nil {
		return nil, fmt.Errorf("client.ListSellerProducts: %w", err)
	}
	return products, nil
}

// CreateProduct lists a new product in a category.
func (c *Client) CreateProduct(ctx context.Context, categoryID int64, p CreateProductRequest) (*domain.Product, error) {
	var created domain.Product
	if err := c.Post(ctx, "/products/add?categoryId="+strconv.FormatInt(categoryID, 10), p, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &created, nil
}

// UpdateProduct edits a listed product, moving it to categoryID.
func (c *Client) UpdateProduct(ctx context.Context, id, categoryID int64, p CreateProductRequest) (*domain.Product, error) {
	path := "/products/" + strconv.FormatInt(id, 10) + "?categoryId=" + strconv.FormatInt(categoryID, 10)
	var updated domain.Product
	if err := c.Put(ctx, path, p, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return &updated, nil
}

// DeleteProduct removes a listed product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.Delete(ctx, "/products/"+strconv.FormatInt(id, 10), nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}

// --- Admin ---

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.Get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// GetUserDetails returns a profile with its order and listing stats.
func (c *Client) GetUserDetails(ctx context.Context, id int64) (*domain.UserDetails, error) {
	var d domain.UserDetails
	if err := c.Get(ctx, "/users/"+strconv.FormatInt(id, 10)+"/details", &d); err != nil {
		return nil, fmt.Errorf("client.GetUserDetails: %w", err)
	}
	d.User = d.User.Normalize()
	return &d, nil
}

// ApproveSeller approves a pending seller.
func (c *Client) ApproveSeller(ctx context.Context, id int64) error {
	if err := c.Post(ctx, "/users/sellers/"+strconv.FormatInt(id, 10)+"/approve", nil, nil); err != nil {
		return fmt.Errorf("client.ApproveSeller: %w", err)
	}
	return nil
}

// RejectSeller rejects a pending seller with a reason shown to them.
func (c *Client) RejectSeller(ctx context.Context, id int64, reason string) error {
	path := "/users/sellers/" + strconv.FormatInt(id, 10) + "/reject"
	if err := c.Post(ctx, path, map[string]string{"reason": reason}, nil); err != nil {
		return fmt.Errorf("client.RejectSeller: %w", err)
	}
	return nil
}
