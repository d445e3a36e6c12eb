package domain

import "github.com/google/uuid"

// Customer авторизованный покупатель магазина.
// nil означает гостевую оплату.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Login string    `json:"login"`
	Email string    `json:"email"`
}
