package models

// CartItem is one line of a shopper's cart.
type CartItem struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	Size       string  `json:"size,omitempty"`
	Color      string  `json:"color,omitempty"`
	Format     string  `json:"format,omitempty"`
	FrameColor string  `json:"frameColor,omitempty"`
	Price      float64 `json:"price"`
	Subsection string  `json:"subsection,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

// Count is the total quantity across all lines.
func (c Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

type WishlistItem struct {
	ProductID string `json:"productId"`
}

type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

func (w Wishlist) Count() int {
	return len(w.Items)
}
