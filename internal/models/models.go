package models

import "time"

// Account roles. Fixed at registration.
const (
	RoleAdmin   = "Admin"
	RoleCashier = "Cashier"
)

type Product struct {
	ProductID   int       `json:"product_id"`
	Price       float64   `json:"price"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	OrderID       int         `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	TotalAmount   float64     `json:"total_amount"`
	Status        string      `json:"status"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
	ProcessedBy   *string     `json:"processed_by,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	CancelledAt   *time.Time  `json:"cancelled_at,omitempty"`
	Items         []OrderItem `json:"items"`
}

type OrderItem struct {
	OrderItemID int     `json:"order_item_id"`
	OrderID     int     `json:"order_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type User struct {
	UserID    int       `json:"user_id"`
	Username  string    `json:"username" validate:"required,min=3,max=100"`
	Password  string    `json:"-" validate:"required"`
	Role      string    `json:"role" validate:"required,oneof=Admin Cashier"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderLine is one product/quantity pair submitted at order creation.
type OrderLine struct {
	ProductID int `json:"id"`
	Quantity  int `json:"quantity"`
}

// Summary holds the dashboard figures folded from the orders table.
type Summary struct {
	TotalIncome float64 `json:"total_income"`
	Pending     int     `json:"pending"`
	Cancelled   int     `json:"cancelled"`
}
