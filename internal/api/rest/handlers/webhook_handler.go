package handlers

import (
	"net/http"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/service"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler обработчик вебхуков магазина
type WebhookHandler struct {
	capture *service.CaptureService
	log     *logger.Logger
}

// NewWebhookHandler создает новый обработчик вебхуков
func NewWebhookHandler(capture *service.CaptureService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		capture: capture,
		log:     log,
	}
}

// orderStatusEvent событие смены статуса заказа
type orderStatusEvent struct {
	OrderID string `json:"order_id" binding:"required,uuid"`
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	// Сумма списания в минорных единицах, 0 означает полную сумму авторизации.
	Amount int64 `json:"amount"`
}

// HandleOrderStatusChanged обрабатывает смену статуса заказа и запускает capture
func (h *WebhookHandler) HandleOrderStatusChanged(c *gin.Context) {
	var event orderStatusEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.log.Warn("Invalid order status event: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status event"})
		return
	}

	if !service.TransitionTriggersCapture(domain.OrderStatus(event.From), domain.OrderStatus(event.To)) {
		h.log.Debug("Status transition %s -> %s does not trigger capture", event.From, event.To)
		c.JSON(http.StatusOK, gin.H{"result": "ignored"})
		return
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	result, err := h.capture.CaptureOrder(c.Request.Context(), orderID, event.Amount)
	switch result {
	case service.CaptureNotApplicable:
		c.JSON(http.StatusOK, gin.H{"result": result.String()})
	case service.CaptureSucceeded:
		c.JSON(http.StatusOK, gin.H{"result": result.String()})
	default:
		h.log.Error("Capture failed for order %s: %v", orderID, err)
		c.JSON(http.StatusBadGateway, gin.H{"result": result.String(), "error": "Capture failed"})
	}
}
