package handlers

import (
	"bytes"
	"net/http"

	"github.com/Dhoini/Checkout-gateway/config"
	"github.com/Dhoini/Checkout-gateway/internal/api/rest/middleware"
	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/render"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/internal/service"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CheckoutHandler обработчик для оформления заказа
type CheckoutHandler struct {
	checkout *service.CheckoutService
	cards    repository.CardRepository
	renderer *render.FormRenderer
	cfg      *config.Config
	log      *logger.Logger

	// Шлюз недоступен, если он выключен или ключи не настроены.
	available bool
}

// NewCheckoutHandler создает новый обработчик оформления заказа
func NewCheckoutHandler(checkout *service.CheckoutService, cards repository.CardRepository, renderer *render.FormRenderer, cfg *config.Config, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:  checkout,
		cards:     cards,
		renderer:  renderer,
		cfg:       cfg,
		log:       log,
		available: cfg.Validate() == nil,
	}
}

// GetConfig возвращает публичную конфигурацию шлюза для клиентской части
func (h *CheckoutHandler) GetConfig(c *gin.Context) {
	if !h.ensureAvailable(c) {
		return
	}

	hasCard := false
	if customer := middleware.CustomerFromContext(c); customer != nil {
		saved, err := h.cards.List(c.Request.Context(), customer.ID)
		if err != nil {
			h.log.Error("Failed to list saved cards: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get checkout config"})
			return
		}
		hasCard = len(saved) > 0
	}

	c.JSON(http.StatusOK, gin.H{
		"title":             h.cfg.Gateway.Title,
		"publishable_key":   h.cfg.Gateway.PublishableKey(),
		"test_mode":         h.cfg.Gateway.TestMode,
		"additional_fields": h.cfg.Gateway.AdditionalFields,
		"has_card":          hasCard,
	})
}

// GetForm возвращает HTML формы оплаты с сохраненными картами покупателя
func (h *CheckoutHandler) GetForm(c *gin.Context) {
	if !h.ensureAvailable(c) {
		return
	}

	var saved []domain.SavedCard
	if customer := middleware.CustomerFromContext(c); customer != nil {
		var err error
		saved, err = h.cards.List(c.Request.Context(), customer.ID)
		if err != nil {
			h.log.Error("Failed to list saved cards: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render payment form"})
			return
		}
	}

	var buf bytes.Buffer
	err := h.renderer.Render(&buf, render.FormData{
		Description:      h.cfg.Gateway.Description,
		SavedCards:       saved,
		AdditionalFields: h.cfg.Gateway.AdditionalFields,
	})
	if err != nil {
		h.log.Error("Failed to render payment form: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render payment form"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Pay принимает отправку формы оплаты и проводит платеж
func (h *CheckoutHandler) Pay(c *gin.Context) {
	if !h.ensureAvailable(c) {
		return
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		h.log.Warn("Invalid order ID format: %s", c.Param("order_id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var form domain.CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn("Invalid checkout form: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout form"})
		return
	}

	result := h.checkout.ProcessPayment(c.Request.Context(), orderID, form, middleware.CustomerFromContext(c))
	if result.Result == service.ResultSuccess {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusPaymentRequired, result)
}

func (h *CheckoutHandler) ensureAvailable(c *gin.Context) bool {
	if h.available {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway is not available"})
	return false
}
