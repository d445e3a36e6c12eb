package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dhoini/Checkout-gateway/config"
	"github.com/Dhoini/Checkout-gateway/internal/api/rest/middleware"
	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/integration/stripe"
	"github.com/Dhoini/Checkout-gateway/internal/kafka/producer"
	"github.com/Dhoini/Checkout-gateway/internal/render"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type checkoutEnv struct {
	router    *gin.Engine
	orders    *repository.InMemoryOrderRepository
	cards     *repository.InMemoryCardRepository
	processor *fakeProcessor
	cfg       *config.Config
}

func newCheckoutEnv(t *testing.T, mutate func(cfg *config.Config)) *checkoutEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testLogger()
	cfg := &config.Config{
		Server: config.ServerConfig{TLSTerminated: true},
		Gateway: config.GatewayConfig{
			Enabled:            true,
			Title:              "Credit Card",
			Description:        "Pay with your credit card.",
			TestMode:           true,
			TestSecretKey:      "sk_test_1",
			TestPublishableKey: "pk_test_1",
		},
		Checkout: config.CheckoutConfig{OrderReceivedURL: "https://shop.example/order-received"},
		Auth:     config.AuthConfig{JWTSecret: testJWTSecret},
	}
	if mutate != nil {
		mutate(cfg)
	}

	orders := repository.NewInMemoryOrderRepository(log)
	cards := repository.NewInMemoryCardRepository(log)
	session := repository.NewInMemorySessionStore(log)
	processor := &fakeProcessor{}

	checkout := service.NewCheckoutService(cfg, orders, cards, session, processor, producer.NoopProducer{}, noopMetrics{}, log)

	renderer, err := render.NewFormRenderer()
	require.NoError(t, err)

	handler := NewCheckoutHandler(checkout, cards, renderer, cfg, log)
	identifier := middleware.NewShopperIdentifier(cfg.Auth.JWTSecret, log)

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.Use(identifier.Identify())
	v1.GET("/checkout/config", handler.GetConfig)
	v1.GET("/checkout/form", handler.GetForm)
	v1.POST("/checkout/:order_id/pay", handler.Pay)

	return &checkoutEnv{router: r, orders: orders, cards: cards, processor: processor, cfg: cfg}
}

func shopperToken(t *testing.T, shopperID uuid.UUID) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.ShopperClaims{
		Login: "jdoe",
		Email: "john@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   shopperID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func TestGetConfig_Guest(t *testing.T) {
	env := newCheckoutEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/config", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"title": "Credit Card",
		"publishable_key": "pk_test_1",
		"test_mode": true,
		"additional_fields": false,
		"has_card": false
	}`, w.Body.String())
}

func TestGetConfig_ShopperWithSavedCard(t *testing.T) {
	env := newCheckoutEnv(t, nil)
	shopperID := uuid.New()
	require.NoError(t, env.cards.Add(context.Background(), shopperID, domain.SavedCard{
		CustomerID: "cus_1", CardID: "card_1", Last4: "4242", ExpMonth: 12, ExpYear: 2030,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/config", nil)
	req.Header.Set("Authorization", "Bearer "+shopperToken(t, shopperID))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_card":true`)
}

func TestGetConfig_InvalidToken(t *testing.T) {
	env := newCheckoutEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/config", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckout_GatewayDisabled(t *testing.T) {
	env := newCheckoutEnv(t, func(cfg *config.Config) {
		cfg.Gateway.Enabled = false
	})

	for _, path := range []string{"/api/v1/checkout/config", "/api/v1/checkout/form"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestCheckout_MissingKeysDisableGateway(t *testing.T) {
	env := newCheckoutEnv(t, func(cfg *config.Config) {
		cfg.Gateway.TestSecretKey = ""
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/config", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetForm_ShowsSavedCards(t *testing.T) {
	env := newCheckoutEnv(t, nil)
	shopperID := uuid.New()
	require.NoError(t, env.cards.Add(context.Background(), shopperID, domain.SavedCard{
		CustomerID: "cus_1", CardID: "card_1", Last4: "4242", ExpMonth: 12, ExpYear: 2030,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/form", nil)
	req.Header.Set("Authorization", "Bearer "+shopperToken(t, shopperID))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Card ending with 4242 (12/2030)")
	assert.Contains(t, w.Body.String(), "Use a new credit card")
}

func TestPay_GuestSuccess(t *testing.T) {
	env := newCheckoutEnv(t, nil)
	env.processor.chargeFn = func(req domain.ChargeRequest) (*stripe.Charge, error) {
		return &stripe.Charge{ID: "ch_1", Amount: req.Amount, Currency: req.Currency, Paid: true, Captured: true}, nil
	}

	order, err := env.orders.Create(context.Background(), domain.Order{
		ID:       uuid.New(),
		Total:    19.99,
		Currency: "USD",
		Status:   domain.OrderStatusPending,
		Billing:  domain.BillingContact{FirstName: "John", LastName: "Doe", Email: "john@example.com"},
	})
	require.NoError(t, err)

	form := "stripe_token=tok_visa"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/"+order.ID.String()+"/pay", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"result": "success",
		"redirect": "https://shop.example/order-received?order=`+order.ID.String()+`"
	}`, w.Body.String())
}

func TestPay_DeclineReturnsFailureEnvelope(t *testing.T) {
	env := newCheckoutEnv(t, nil)
	env.processor.chargeFn = func(req domain.ChargeRequest) (*stripe.Charge, error) {
		return nil, &stripe.ProcessorError{Message: "Your card was declined."}
	}

	order, err := env.orders.Create(context.Background(), domain.Order{
		ID:       uuid.New(),
		Total:    10.00,
		Currency: "USD",
		Status:   domain.OrderStatusPending,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/"+order.ID.String()+"/pay",
		strings.NewReader("stripe_token=tok_visa"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{
		"result": "failure",
		"messages": ["Error: Your card was declined.", "Transaction Error: Could not complete your payment."]
	}`, w.Body.String())
}

func TestPay_InvalidOrderID(t *testing.T) {
	env := newCheckoutEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/not-a-uuid/pay",
		strings.NewReader("stripe_token=tok_visa"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
