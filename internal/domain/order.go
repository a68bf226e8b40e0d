package domain

// MealTime categorizes an order's scheduled delivery window.
type MealTime string

const (
	MealTimeBreakfast MealTime = "breakfast"
	MealTimeLunch     MealTime = "lunch"
	MealTimeDinner    MealTime = "dinner"
)

// PaymentStatus enumerates collection states for an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// OrderItem is a single line within a delivery order.
type OrderItem struct {
	FoodName string `json:"food_name"`
	Quantity int    `json:"quantity"`
	MealType string `json:"meal_type"`
}

// DeliveryOrder is the aggregate a delivery person works through on a round.
type DeliveryOrder struct {
	OrderID         string        `json:"order_id"`
	CustomerID      string        `json:"customer_id,omitempty"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone,omitempty"`
	CustomerAddress string        `json:"customer_address"`
	AreaID          int           `json:"area_id,omitempty"`
	MealTime        MealTime      `json:"meal_time"`
	TotalPrice      float64       `json:"total_price"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Status          string        `json:"status,omitempty"`
	Items           []OrderItem   `json:"items"`
}

// TotalQuantity sums the item quantities across the order.
func (o DeliveryOrder) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
