package domain

// Order statuses as reported by the API.
const (
	OrderPlaced    = "PLACED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// OrderItem is one product line in an order.
type OrderItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is a placed order.
type Order struct {
	ID          int64       `json:"id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"createdAt"` // server local time, no zone
}

// Cancellable returns true while the order has not shipped.
func (o Order) Cancellable() bool {
	return o.Status == OrderPlaced
}

// Date returns the calendar date part of CreatedAt.
func (o Order) Date() string {
	if len(o.CreatedAt) >= 10 {
		return o.CreatedAt[:10]
	}
	return o.CreatedAt
}
