package domain

import "time"

// SavedCard токенизированная ссылка на карту покупателя.
// Сырые данные карты никогда не хранятся, только идентификаторы
// на стороне процессора и отображаемые реквизиты.
type SavedCard struct {
	CustomerID string    `json:"customer_id"`
	CardID     string    `json:"card_id"`
	Brand      string    `json:"brand"`
	Last4      string    `json:"last4"`
	ExpMonth   int       `json:"exp_month"`
	ExpYear    int       `json:"exp_year"`
	CreatedAt  time.Time `json:"created_at"`
}
