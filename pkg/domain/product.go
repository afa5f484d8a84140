package domain

// Category groups products in the catalog.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    *Category `json:"category,omitempty"`
}

// InStock returns true if at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}
