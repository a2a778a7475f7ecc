package order

// PlaceOrderItem payload of an ordered line.
// swagger:model PlaceOrderItem
type PlaceOrderItem struct {
	ID        string `json:"_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	ProductID string `json:"productId"`
	Size      string `json:"size"     example:"M"`
	Quantity  int    `json:"quantity" example:"2"`
}

func (i PlaceOrderItem) Product() string {
	if i.ID != "" {
		return i.ID
	}
	return i.ProductID
}

// PlaceOrderRequest payload for a cash-on-delivery order.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	Items   []PlaceOrderItem `json:"items"   binding:"required"`
	Address Address          `json:"address" binding:"required"`
}

// StatusRequest payload for changing an order status.
// swagger:model StatusRequest
type StatusRequest struct {
	OrderID string `json:"orderId" binding:"required" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Status  string `json:"status"  binding:"required" example:"Shipped"`
}
