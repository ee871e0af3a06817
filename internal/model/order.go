package model

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

// Order - оформленный заказ с выделенным идентификатором вида #QE0001.
// ID назначается аллокатором один раз и далее не изменяется.
type Order struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Phone     string      `json:"phone" db:"phone"`
	City      string      `json:"city" db:"city"`
	Address   string      `json:"address" db:"address"`
	Items     []OrderItem `json:"items" db:"-"`
	Total     float64     `json:"total" db:"total"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// OrderItem - позиция заказа. UnitPrice и LineTotal заполняются
// резолвером цен из данных каталога, а не из клиентского запроса.
type OrderItem struct {
	ID        int     `json:"-" db:"id"`
	OrderID   string  `json:"-" db:"order_id"`
	ProductID string  `json:"product_id" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	LineTotal float64 `json:"line_total" db:"line_total"`
}

// OrderRequest - входной payload оформления заказа.
type OrderRequest struct {
	Name    string             `json:"name" validate:"required"`
	Phone   string             `json:"phone" validate:"required"`
	City    string             `json:"city" validate:"required"`
	Address string             `json:"address" validate:"required"`
	Items   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest - позиция во входном payload. Цена намеренно
// не принимается от клиента.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}
