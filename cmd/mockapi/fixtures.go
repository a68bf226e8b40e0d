package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rc-foods/courier-client/internal/domain"
)

// seed loads the fixture accounts, areas and orders. Orders deliberately
// mix the field spellings the real backends emit, so the fixtures also
// exercise the ingestion normalization.
func (b *backend) seed() error {
	seedUsers := []struct {
		password string
		user     domain.User
	}{
		{
			password: "courier-pass",
			user: domain.User{
				ID: "u-1", FullName: "Ravi Kumar", Email: "courier@example.com",
				Phone: "9000000001", Role: domain.RoleDeliveryPerson,
				Approved: true, Status: domain.AccountStatusActive, AreaID: 1,
			},
		},
		{
			password: "newbie-pass",
			user: domain.User{
				ID: "u-2", FullName: "Asha Patel", Email: "newbie@example.com",
				Phone: "9000000002", Role: domain.RoleDeliveryPerson,
				Approved: false, Status: domain.AccountStatusActive,
			},
		},
		{
			password: "admin-pass",
			user: domain.User{
				ID: "u-3", FullName: "Admin", Email: "admin@example.com",
				Phone: "9000000003", Role: domain.RoleAdmin,
				Approved: true, Status: domain.AccountStatusActive,
			},
		},
	}

	for _, entry := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash fixture password: %w", err)
		}
		b.accounts[entry.user.Email] = &account{user: entry.user, passwordHash: hash}
	}

	b.areas = []domain.Area{
		{AreaID: 1, AreaName: "Gandhi Nagar"},
		{AreaID: 2, AreaName: "Lake View Colony"},
		{AreaID: 3, AreaName: "Station Road"},
	}

	b.orders = []map[string]any{
		{
			"order_id": "5001", "customer_name": "Meena Shah",
			"customer_address": "12 Gandhi Nagar", "area_id": 1,
			"meal_time": "lunch", "total_price": 180.0, "payment_status": "pending",
			"items": []any{
				map[string]any{"food_name": "Thali", "quantity": 2, "meal_type": "veg"},
			},
		},
		{
			// aliased spellings from the older order backend
			"id": "5002", "customerName": "Vikram Rao",
			"address": "44 Gandhi Nagar", "area_id": 1,
			"meal_type": "dinner", "total": 240.0, "paymentStatus": "pending",
			"order_items": []any{
				map[string]any{"name": "Biryani", "qty": 1},
				map[string]any{"item_name": "Raita", "quantity": 1},
			},
		},
		{
			"order_id": "5012", "customer_name": "Farah Khan",
			"customer_address": "3 Lake View Colony", "area_id": 2,
			"meal_time": "breakfast", "total_price": 90.0, "payment_status": "pending",
			"items": []any{
				map[string]any{"food_name": "Poha", "quantity": 3, "meal_type": "veg"},
			},
		},
		{
			"order_id": "5013", "customer_name": "John D",
			"customer_address": "8 Station Road", "area_id": 3,
			"meal_time": "lunch", "total_price": 150.0, "payment_status": "unpaid",
			"items": []any{
				map[string]any{"food_name": "Curry Rice", "quantity": 1, "meal_type": "non-veg"},
			},
		},
	}

	return nil
}
