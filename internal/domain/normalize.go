package domain

import "strconv"

// NormalizeOrder maps a raw backend order record to a DeliveryOrder. The
// delivery backends disagree on field names, so every accepted alias is
// enumerated here and nowhere else; callers downstream only ever see the
// typed shape.
func NormalizeOrder(raw map[string]any) DeliveryOrder {
	order := DeliveryOrder{
		OrderID:         pickString(raw, "order_id", "id", "orderId"),
		CustomerID:      pickString(raw, "customer_id", "customerId"),
		CustomerName:    pickString(raw, "customer_name", "customerName", "customer_full_name"),
		CustomerPhone:   pickString(raw, "customer_phone", "customerPhone", "phone"),
		CustomerAddress: pickString(raw, "customer_address", "customerAddress", "address", "delivery_address"),
		AreaID:          pickInt(raw, "area_id", "areaId"),
		MealTime:        MealTime(pickString(raw, "meal_time", "meal_type", "mealTime")),
		TotalPrice:      pickFloat(raw, "total_price", "total", "totalAmount", "amount"),
		PaymentStatus:   PaymentStatus(pickString(raw, "payment_status", "paymentStatus")),
		Status:          pickString(raw, "status", "order_status"),
	}

	if order.CustomerName == "" {
		order.CustomerName = pickNestedString(raw, []string{"customer", "user"}, "full_name", "name")
	}
	if order.CustomerAddress == "" {
		order.CustomerAddress = pickNestedString(raw, []string{"customer", "user"}, "address")
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = PaymentStatusPending
	}

	items, ok := raw["items"].([]any)
	if !ok {
		items, _ = raw["order_items"].([]any)
	}
	for _, entry := range items {
		rawItem, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := OrderItem{
			FoodName: pickString(rawItem, "food_name", "name", "item_name"),
			Quantity: pickInt(rawItem, "quantity", "qty"),
			MealType: pickString(rawItem, "meal_type", "mealTime"),
		}
		if item.MealType == "" {
			item.MealType = string(order.MealTime)
		}
		if item.MealType == "" {
			item.MealType = "unknown"
		}
		order.Items = append(order.Items, item)
	}

	return order
}

// NormalizeOrders applies NormalizeOrder across a raw slice, tolerating a
// nil or non-slice payload by returning an empty (never nil) slice.
func NormalizeOrders(raw []any) []DeliveryOrder {
	orders := make([]DeliveryOrder, 0, len(raw))
	for _, entry := range raw {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		orders = append(orders, NormalizeOrder(record))
	}
	return orders
}

func pickString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := record[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func pickNestedString(record map[string]any, parents []string, keys ...string) string {
	for _, parent := range parents {
		nested, ok := record[parent].(map[string]any)
		if !ok {
			continue
		}
		if v := pickString(nested, keys...); v != "" {
			return v
		}
	}
	return ""
}

func pickFloat(record map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := record[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func pickInt(record map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := record[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return 0
}
