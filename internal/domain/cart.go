package domain

// Cart represents a customer basket held in cache. The cart carries the
// chosen delivery method and the payment intent issued for it so a page
// reload can resume an in-flight checkout.
type Cart struct {
	ID               string     `json:"id"`
	Items            []CartItem `json:"items"`
	DeliveryMethodID int64      `json:"delivery_method_id,omitempty"`
	ShippingPrice    int64      `json:"shipping_price,omitempty"`
	PaymentIntentID  string     `json:"payment_intent_id,omitempty"`
	ClientSecret     string     `json:"client_secret,omitempty"`
}

// CartItem represents a single item in the cart. Price is a display value
// only; the authoritative price is re-read from the catalog at checkout.
type CartItem struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	PictureURL string `json:"picture_url,omitempty"`
	Brand      string `json:"brand,omitempty"`
	Type       string `json:"type,omitempty"`
}

// NewCart returns an empty cart with the given id.
func NewCart(id string) *Cart {
	return &Cart{ID: id, Items: []CartItem{}}
}

// ItemsTotal calculates the total price of all items in the cart (in cents).
func (c *Cart) ItemsTotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItemIndex returns the index of the cart item with the given product id,
// or -1 if the product is not in the cart.
func (c *Cart) FindItemIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
