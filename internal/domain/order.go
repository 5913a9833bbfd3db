package domain

import "time"

// Order status constants.
const (
	OrderStatusPending         = "pending"
	OrderStatusPaymentReceived = "payment_received"
	OrderStatusPaymentFailed   = "payment_failed"
)

// Order represents a placed order. All amounts are in cents;
// Total is always Subtotal + DeliveryPrice.
type Order struct {
	ID               int64           `json:"id"`
	BuyerEmail       string          `json:"buyer_email"`
	Status           string          `json:"status"`
	Items            []OrderItem     `json:"items"`
	DeliveryMethodID int64           `json:"delivery_method_id"`
	DeliveryMethod   *DeliveryMethod `json:"delivery_method,omitempty"`
	Subtotal         int64           `json:"subtotal"`
	DeliveryPrice    int64           `json:"delivery_price"`
	Total            int64           `json:"total"`
	ShipToAddress    Address         `json:"ship_to_address"`
	PaymentIntentID  string          `json:"payment_intent_id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderItem represents a line item in an order. Name, price and picture are
// snapshots taken from the catalog at the time the order was placed.
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url,omitempty"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// Address represents a shipping address.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// LineTotal returns the total price for this line item.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ComputeTotals recalculates Subtotal and Total from the line items and the
// delivery price. Call after items or delivery price change.
func (o *Order) ComputeTotals() {
	var subtotal int64
	for i := range o.Items {
		subtotal += o.Items[i].LineTotal()
	}
	o.Subtotal = subtotal
	o.Total = subtotal + o.DeliveryPrice
}

// IsTerminal reports whether the order status reflects a settled payment.
// Terminal orders ignore further payment notifications.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusPaymentReceived || o.Status == OrderStatusPaymentFailed
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusPaymentReceived,
		OrderStatusPaymentFailed,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
