package handlers

import (
	"net/http"
	"time"

	"github.com/Dhoini/Checkout-gateway/config"
	"github.com/gin-gonic/gin"
)

// NewHealthCheck возвращает обработчик проверки работоспособности.
// Сервис жив и при выключенном шлюзе, поэтому доступность шлюза
// отдается отдельным полем, а не кодом ответа.
func NewHealthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		gatewayStatus := "available"
		if err := cfg.Validate(); err != nil {
			gatewayStatus = "unavailable"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"gateway": gatewayStatus,
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}
