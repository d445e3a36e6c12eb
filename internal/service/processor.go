package service

import (
	"context"
	"net/url"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/integration/stripe"
)

// ProcessorClient интерфейс клиента процессора платежей.
// Каждый вызов выполняет одно блокирующее обращение к API без повторов.
type ProcessorClient interface {
	CreateCustomer(ctx context.Context, token, email, description string) (*stripe.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, changes url.Values) (*stripe.Customer, error)
	AddCard(ctx context.Context, customerID, token string) (*stripe.Card, error)
	CreateCharge(ctx context.Context, req domain.ChargeRequest) (*stripe.Charge, error)
	CaptureCharge(ctx context.Context, chargeID string, amount int64) (*stripe.Charge, error)
}
