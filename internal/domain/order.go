package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus статус заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// BillingContact платежные реквизиты покупателя из заказа
type BillingContact struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Address1   string `json:"address_1"`
	Address2   string `json:"address_2,omitempty"`
	PostalCode string `json:"postcode"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country"`
}

// FullName возвращает имя плательщика целиком
func (b BillingContact) FullName() string {
	if b.FirstName == "" {
		return b.LastName
	}
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}

// PaymentMeta метаданные платежа, записываемые на заказ после успешного
// обращения к процессору
type PaymentMeta struct {
	// TransactionID идентификатор операции на стороне процессора
	TransactionID string `json:"transaction_id"`
	// AuthCapture true, когда средства только авторизованы и захват отложен
	AuthCapture bool `json:"auth_capture"`
	// CustomerID идентификатор клиента процессора, если покупатель сохранен
	CustomerID string `json:"customer_id,omitempty"`
}

// OrderNote запись в журнале заказа
type OrderNote struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Order представляет собой модель заказа
type Order struct {
	ID        uuid.UUID      `json:"id"`
	Total     float64        `json:"total"`
	Currency  string         `json:"currency"`
	Billing   BillingContact `json:"billing"`
	Status    OrderStatus    `json:"status"`
	Payment   PaymentMeta    `json:"payment"`
	Notes     []OrderNote    `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
