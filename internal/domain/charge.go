package domain

import (
	"errors"
	"math"
)

// ErrAmbiguousChargeMethod запрос на списание содержит и токен, и сохраненную карту
var ErrAmbiguousChargeMethod = errors.New("charge request must carry exactly one charging method")

// ChargeRequest запрос на списание средств. Строится на каждую отправку
// формы заново и нигде не сохраняется.
type ChargeRequest struct {
	// Amount сумма в минимальных единицах валюты
	Amount int64
	// Currency код валюты в нижнем регистре
	Currency    string
	Description string
	// Capture false означает отложенный захват (только авторизация)
	Capture bool

	// Ровно один способ списания: одноразовый токен
	// или пара клиент + карта процессора
	Token      string
	CustomerID string
	CardID     string
}

// Validate проверяет инвариант способа списания: токен и пара
// клиент+карта взаимоисключающи, и хотя бы один должен быть задан
func (r ChargeRequest) Validate() error {
	hasToken := r.Token != ""
	hasCard := r.CustomerID != "" && r.CardID != ""

	if hasToken == hasCard {
		return ErrAmbiguousChargeMethod
	}
	return nil
}

// MinorUnits переводит сумму заказа в минимальные единицы валюты
// (для валют с двумя десятичными знаками)
func MinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}

// FieldError ошибка валидации одного поля платежной формы,
// пришедшая от браузера
type FieldError struct {
	Field string `json:"field" form:"field" binding:"required"`
	Type  string `json:"type" form:"type" binding:"required"`
}

// CheckoutForm данные платежной формы, отправленные браузером.
// Сырые данные карты сюда не попадают, только токен процессора.
type CheckoutForm struct {
	Token      string `json:"stripe_token" form:"stripe_token"`
	ChosenCard string `json:"wc_stripe_card" form:"wc_stripe_card" binding:"omitempty,cardchoice"`
	FormErrors bool   `json:"form_errors" form:"form_errors"`
	BillingName string `json:"billing_name" form:"billing-name"`
	BillingZip  string `json:"billing_zip" form:"billing-zip"`
	SessionID   string `json:"session_id" form:"session_id"`
}
