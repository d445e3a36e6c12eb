package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	customerContextKey = "checkout.customer"
	authHeaderPrefix   = "Bearer "
)

// ShopperClaims claims токена авторизованного покупателя.
type ShopperClaims struct {
	Login string `json:"login"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ShopperIdentifier middleware для опциональной идентификации покупателя
type ShopperIdentifier struct {
	secret []byte
	log    *logger.Logger
}

// NewShopperIdentifier создает новый ShopperIdentifier
func NewShopperIdentifier(secret string, log *logger.Logger) *ShopperIdentifier {
	return &ShopperIdentifier{
		secret: []byte(secret),
		log:    log,
	}
}

// Identify извлекает покупателя из Bearer токена.
// Отсутствие токена не является ошибкой: оплата доступна гостям.
func (m *ShopperIdentifier) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(m.secret) == 0 {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, authHeaderPrefix)
		claims := &ShopperClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			m.handleAuthError(c, fmt.Sprintf("Token validation failed: %v", err))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			m.handleAuthError(c, "User ID (sub) missing in token")
			return
		}

		c.Set(customerContextKey, &domain.Customer{
			ID:    userID,
			Login: claims.Login,
			Email: claims.Email,
		})
		m.log.Debug("Shopper authenticated via HTTP. UserID: %s", userID)
		c.Next()
	}
}

func (m *ShopperIdentifier) handleAuthError(c *gin.Context, message string) {
	m.log.Warn("HTTP Authentication failed. Path: %s, Error: %s", c.Request.URL.Path, message)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// CustomerFromContext возвращает покупателя из контекста запроса, nil для гостя
func CustomerFromContext(c *gin.Context) *domain.Customer {
	v, ok := c.Get(customerContextKey)
	if !ok {
		return nil
	}
	customer, ok := v.(*domain.Customer)
	if !ok {
		return nil
	}
	return customer
}
