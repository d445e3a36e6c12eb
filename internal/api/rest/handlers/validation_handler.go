package handlers

import (
	"net/http"
	"strings"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/metrics"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/internal/service"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ValidationHandler обработчик клиентских ошибок валидации формы оплаты
type ValidationHandler struct {
	session repository.SessionStore
	metrics metrics.PaymentMetrics
	log     *logger.Logger
}

// NewValidationHandler создает новый обработчик ошибок валидации
func NewValidationHandler(session repository.SessionStore, m metrics.PaymentMetrics, log *logger.Logger) *ValidationHandler {
	return &ValidationHandler{
		session: session,
		metrics: m,
		log:     log,
	}
}

// validationRequest запрос со списком ошибок валидации карточных полей
type validationRequest struct {
	SessionID string              `json:"session_id"`
	Errors    []domain.FieldError `json:"errors" binding:"required"`
}

// RelayErrors преобразует ошибки валидации в уведомления для покупателя
func (h *ValidationHandler) RelayErrors(c *gin.Context) {
	var req validationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid validation errors payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid validation errors payload"})
		return
	}

	notices := service.FormatValidationErrors(req.Errors)
	h.metrics.IncValidationErrors(len(notices))

	// Вне AJAX уведомления остаются на стороне магазина, тело не нужно.
	if !isAJAX(c.Request) {
		c.Status(http.StatusNoContent)
		return
	}

	refresh, reload, err := h.session.ConsumeCheckoutFlags(c.Request.Context(), req.SessionID)
	if err != nil {
		h.log.Error("Failed to consume checkout flags: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"result":   "failure",
		"messages": service.RenderNotices(notices),
		"refresh":  refresh,
		"reload":   reload,
	})
}

func isAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
