package service

import (
	"context"
	"io"
	"net/url"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/integration/stripe"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/stretchr/testify/mock"
)

// MockProcessorClient реализует ProcessorClient для тестов
type MockProcessorClient struct {
	mock.Mock
}

func (m *MockProcessorClient) CreateCustomer(ctx context.Context, token, email, description string) (*stripe.Customer, error) {
	args := m.Called(ctx, token, email, description)
	if customer, ok := args.Get(0).(*stripe.Customer); ok {
		return customer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProcessorClient) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	args := m.Called(ctx, customerID)
	if customer, ok := args.Get(0).(*stripe.Customer); ok {
		return customer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProcessorClient) UpdateCustomer(ctx context.Context, customerID string, changes url.Values) (*stripe.Customer, error) {
	args := m.Called(ctx, customerID, changes)
	if customer, ok := args.Get(0).(*stripe.Customer); ok {
		return customer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProcessorClient) AddCard(ctx context.Context, customerID, token string) (*stripe.Card, error) {
	args := m.Called(ctx, customerID, token)
	if card, ok := args.Get(0).(*stripe.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProcessorClient) CreateCharge(ctx context.Context, req domain.ChargeRequest) (*stripe.Charge, error) {
	args := m.Called(ctx, req)
	if charge, ok := args.Get(0).(*stripe.Charge); ok {
		return charge, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProcessorClient) CaptureCharge(ctx context.Context, chargeID string, amount int64) (*stripe.Charge, error) {
	args := m.Called(ctx, chargeID, amount)
	if charge, ok := args.Get(0).(*stripe.Charge); ok {
		return charge, args.Error(1)
	}
	return nil, args.Error(1)
}

// noopMetrics заглушка метрик для тестов
type noopMetrics struct{}

func (noopMetrics) IncChargeSucceeded(currency string)                            {}
func (noopMetrics) IncChargeFailed(currency string)                               {}
func (noopMetrics) IncCapture(result string)                                      {}
func (noopMetrics) IncValidationErrors(count int)                                 {}
func (noopMetrics) ObserveChargeAmount(amount float64, currency string, s string) {}

// testLogger логгер, пишущий в никуда
func testLogger() *logger.Logger {
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)
	return log
}
