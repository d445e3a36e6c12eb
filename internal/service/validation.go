package service

import (
	"fmt"
	"strings"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
)

// Фиксированная таблица соответствия полей формы отображаемым названиям
var fieldLabels = map[string]string{
	"number":     "Credit Card Number",
	"expiration": "Credit Card Expiration",
	"cvc":        "Credit Card CVC",
}

// FormatValidationErrors переводит ошибки клиентской валидации карты
// в уведомления для покупателя. Пары вне таблицы пропускаются.
func FormatValidationErrors(errs []domain.FieldError) []string {
	notices := make([]string, 0, len(errs))
	for _, e := range errs {
		label, ok := fieldLabels[e.Field]
		if !ok {
			continue
		}

		switch e.Type {
		case "undefined":
			notices = append(notices, fmt.Sprintf("<strong>%s</strong> is a required field.", label))
		case "invalid":
			notices = append(notices, fmt.Sprintf("Please enter a valid <strong>%s</strong>.", label))
		}
	}
	return notices
}

// RenderNotices собирает уведомления в разметку списка ошибок
func RenderNotices(notices []string) string {
	if len(notices) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<ul class="checkout-error">`)
	for _, n := range notices {
		b.WriteString("<li>")
		b.WriteString(n)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
