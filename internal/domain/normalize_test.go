package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrderCanonicalFields(t *testing.T) {
	order := NormalizeOrder(map[string]any{
		"order_id":         "5001",
		"customer_name":    "Meena Shah",
		"customer_address": "12 Gandhi Nagar",
		"area_id":          float64(1),
		"meal_time":        "lunch",
		"total_price":      180.0,
		"payment_status":   "pending",
		"items": []any{
			map[string]any{"food_name": "Thali", "quantity": float64(2), "meal_type": "veg"},
		},
	})

	assert.Equal(t, "5001", order.OrderID)
	assert.Equal(t, "Meena Shah", order.CustomerName)
	assert.Equal(t, "12 Gandhi Nagar", order.CustomerAddress)
	assert.Equal(t, 1, order.AreaID)
	assert.Equal(t, MealTimeLunch, order.MealTime)
	assert.Equal(t, 180.0, order.TotalPrice)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 2, order.TotalQuantity())
}

func TestNormalizeOrderAliasedFields(t *testing.T) {
	order := NormalizeOrder(map[string]any{
		"id":            "5002",
		"customerName":  "Vikram Rao",
		"address":       "44 Gandhi Nagar",
		"meal_type":     "dinner",
		"total":         "240.50",
		"paymentStatus": "unpaid",
		"order_items": []any{
			map[string]any{"name": "Biryani", "qty": float64(1)},
			map[string]any{"item_name": "Raita", "quantity": "1"},
		},
	})

	assert.Equal(t, "5002", order.OrderID)
	assert.Equal(t, "Vikram Rao", order.CustomerName)
	assert.Equal(t, "44 Gandhi Nagar", order.CustomerAddress)
	assert.Equal(t, MealTimeDinner, order.MealTime)
	assert.Equal(t, 240.50, order.TotalPrice)
	assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)

	// item meal type falls back to the order's when the item omits it
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Biryani", order.Items[0].FoodName)
	assert.Equal(t, "dinner", order.Items[0].MealType)
	assert.Equal(t, "Raita", order.Items[1].FoodName)
	assert.Equal(t, 1, order.Items[1].Quantity)
}

func TestNormalizeOrderNestedCustomer(t *testing.T) {
	order := NormalizeOrder(map[string]any{
		"order_id": "5003",
		"customer": map[string]any{"full_name": "Farah Khan", "address": "3 Lake View"},
	})

	assert.Equal(t, "Farah Khan", order.CustomerName)
	assert.Equal(t, "3 Lake View", order.CustomerAddress)
	// missing payment status defaults to pending
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
}

func TestNormalizeOrdersSkipsMalformedEntries(t *testing.T) {
	orders := NormalizeOrders([]any{
		map[string]any{"order_id": "1"},
		"not-an-order",
		map[string]any{"order_id": "2"},
	})
	assert.Len(t, orders, 2)

	assert.NotNil(t, NormalizeOrders(nil))
	assert.Empty(t, NormalizeOrders(nil))
}
