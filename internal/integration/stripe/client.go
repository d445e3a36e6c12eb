package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Dhoini/Checkout-gateway/pkg/logger"
)

const (
	defaultBaseURL = "https://api.stripe.com/v1"

	// Таймаут одного обращения к процессору. Повторов нет:
	// первая же неудача возвращается вызывающему.
	defaultTimeout = 70 * time.Second
)

// Client представляет клиент для работы с API Stripe
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	log        *logger.Logger
}

// Config конфигурация для клиента Stripe
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// NewClient создает новый клиент Stripe
func NewClient(cfg Config, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ProcessorError ошибка процессора платежей. Message пригодно для показа
// покупателю и берется из тела ответа, когда процессор его прислал.
type ProcessorError struct {
	Type       string
	Code       string
	Param      string
	Message    string
	StatusCode int
}

// Error реализует интерфейс error
func (e *ProcessorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment processor returned status %d", e.StatusCode)
}

// apiError представляет объект error в теле ответа Stripe
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Param   string `json:"param"`
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

// postForm выполняет POST с form-encoded телом и разбирает JSON ответа
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

// getJSON выполняет GET и разбирает JSON ответа
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

// do выполняет один блокирующий запрос к процессору.
// Секретный ключ передается как имя пользователя basic auth с пустым паролем.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Stripe request failed: %v", err)
		return &ProcessorError{Message: "There was a problem connecting to the payment gateway."}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("Failed to read Stripe response: %v", err)
		return &ProcessorError{Message: "There was a problem connecting to the payment gateway.", StatusCode: resp.StatusCode}
	}
	if len(raw) == 0 {
		return &ProcessorError{Message: "Empty response.", StatusCode: resp.StatusCode}
	}

	// Проверяем на объект ошибки в теле ответа
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		c.log.Warn("Stripe API error: %s (type=%s, code=%s)", env.Error.Message, env.Error.Type, env.Error.Code)
		return &ProcessorError{
			Type:       env.Error.Type,
			Code:       env.Error.Code,
			Param:      env.Error.Param,
			Message:    env.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProcessorError{Message: "Invalid response.", StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Error("Failed to decode Stripe response: %v", err)
		return &ProcessorError{Message: "Invalid response.", StatusCode: resp.StatusCode}
	}

	return nil
}
