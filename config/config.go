package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config структура конфигурации приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Gateway  GatewayConfig
	Checkout CheckoutConfig
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	TLSTerminated   bool
}

// DatabaseConfig конфигурация базы данных
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig конфигурация Kafka
type KafkaConfig struct {
	Brokers []string
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level string
}

// AuthConfig конфигурация аутентификации покупателя
type AuthConfig struct {
	JWTSecret string
}

// GatewayConfig настройки платежного шлюза: ключи API, режимы работы
// и включенные поля платежной формы
type GatewayConfig struct {
	Enabled            bool
	Title              string
	Description        string
	TestMode           bool
	Capture            bool
	AdditionalFields   bool
	TestSecretKey      string
	TestPublishableKey string
	LiveSecretKey      string
	LivePublishableKey string
}

// CheckoutConfig конфигурация оформления заказа
type CheckoutConfig struct {
	// OrderReceivedURL адрес, на который покупатель перенаправляется
	// после успешной оплаты
	OrderReceivedURL string
}

// ErrGatewayDisabled шлюз выключен настройками
var ErrGatewayDisabled = errors.New("payment gateway is disabled")

// SecretKey возвращает секретный ключ активного режима (тестовый или боевой)
func (g *GatewayConfig) SecretKey() string {
	if g.TestMode {
		return g.TestSecretKey
	}
	return g.LiveSecretKey
}

// PublishableKey возвращает публикуемый ключ активного режима
func (g *GatewayConfig) PublishableKey() string {
	if g.TestMode {
		return g.TestPublishableKey
	}
	return g.LivePublishableKey
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Validate проверяет настройки шлюза при загрузке.
// Отсутствие ключей активного режима или боевой режим без TLS
// делают шлюз неработоспособным.
func (c *Config) Validate() error {
	if !c.Gateway.Enabled {
		return ErrGatewayDisabled
	}

	if c.Gateway.SecretKey() == "" || c.Gateway.PublishableKey() == "" {
		return fmt.Errorf("gateway API keys are not configured for %s mode", c.gatewayMode())
	}

	if !c.Gateway.TestMode && !c.Server.TLSTerminated {
		return errors.New("live mode requires TLS termination in front of the gateway")
	}

	return nil
}

func (c *Config) gatewayMode() string {
	if c.Gateway.TestMode {
		return "test"
	}
	return "live"
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("SERVER_WRITE_TIMEOUT", 90),
			ShutdownTimeout: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30),
			TLSTerminated:   getEnvAsBool("TLS_TERMINATED", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "checkout_gateway"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKER", "localhost:9092")},
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Gateway: GatewayConfig{
			Enabled:            getEnvAsBool("GATEWAY_ENABLED", true),
			Title:              getEnv("GATEWAY_TITLE", "Credit Card Payment"),
			Description:        getEnv("GATEWAY_DESCRIPTION", ""),
			TestMode:           getEnvAsBool("GATEWAY_TESTMODE", true),
			Capture:            getEnvAsBool("GATEWAY_AUTH_CAPTURE", false),
			AdditionalFields:   getEnvAsBool("GATEWAY_ADDITIONAL_FIELDS", false),
			TestSecretKey:      getEnv("STRIPE_TEST_SECRET_KEY", ""),
			TestPublishableKey: getEnv("STRIPE_TEST_PUBLISHABLE_KEY", ""),
			LiveSecretKey:      getEnv("STRIPE_LIVE_SECRET_KEY", ""),
			LivePublishableKey: getEnv("STRIPE_LIVE_PUBLISHABLE_KEY", ""),
		},
		Checkout: CheckoutConfig{
			OrderReceivedURL: getEnv("CHECKOUT_ORDER_RECEIVED_URL", "/checkout/order-received"),
		},
	}

	return cfg, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает значение переменной окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool получает значение переменной окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
