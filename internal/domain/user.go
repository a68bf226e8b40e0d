package domain

import "time"

// Role identifies the kind of account a token was issued for.
type Role string

const (
	RoleDeliveryPerson Role = "delivery_person"
	RoleAdmin          Role = "admin"
	RoleSuperAdmin     Role = "super_admin"
)

// AccountStatus represents lifecycle states for a user account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusDeleted  AccountStatus = "deleted"
)

// User is the profile record returned by the user service.
type User struct {
	ID                string        `json:"id"`
	FullName          string        `json:"full_name"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	Address           string        `json:"address,omitempty"`
	Role              Role          `json:"role"`
	Approved          bool          `json:"approved"`
	Status            AccountStatus `json:"status"`
	AreaID            int           `json:"area_id,omitempty"`
	FCMToken          string        `json:"fcm_token,omitempty"`
	UnpaidOrdersCount int           `json:"unpaid_orders_count,omitempty"`
	CreatedAt         time.Time     `json:"created_at,omitempty"`
	UpdatedAt         time.Time     `json:"updated_at,omitempty"`
}
