package metrics

import (
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics интерфейс для метрик платежного шлюза
type PaymentMetrics interface {
	IncChargeSucceeded(currency string)
	IncChargeFailed(currency string)
	IncCapture(result string)
	IncValidationErrors(count int)
	ObserveChargeAmount(amount float64, currency string, status string)
}

type paymentMetrics struct {
	log              *logger.Logger
	chargesStatus    *prometheus.CounterVec
	captures         *prometheus.CounterVec
	validationErrors prometheus.Counter
	chargesAmount    *prometheus.HistogramVec
}

// NewPaymentMetrics создает новые метрики платежного шлюза
func NewPaymentMetrics(registry *prometheus.Registry, log *logger.Logger) PaymentMetrics {
	chargesStatus := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_charges_total",
			Help: "The total number of charges by status",
		},
		[]string{"status", "currency"},
	)

	captures := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_captures_total",
			Help: "The total number of deferred capture attempts by result",
		},
		[]string{"result"},
	)

	validationErrors := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_validation_errors_total",
			Help: "The total number of client-side card validation errors relayed",
		},
	)

	chargesAmount := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_charge_amount",
			Help:    "Charge amounts distribution in minor currency units",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6), // 100, 1000, ... 10000000
		},
		[]string{"currency", "status"},
	)

	return &paymentMetrics{
		log:              log,
		chargesStatus:    chargesStatus,
		captures:         captures,
		validationErrors: validationErrors,
		chargesAmount:    chargesAmount,
	}
}

// IncChargeSucceeded увеличивает счетчик успешных списаний
func (m *paymentMetrics) IncChargeSucceeded(currency string) {
	m.chargesStatus.WithLabelValues("succeeded", currency).Inc()
}

// IncChargeFailed увеличивает счетчик неудачных списаний
func (m *paymentMetrics) IncChargeFailed(currency string) {
	m.chargesStatus.WithLabelValues("failed", currency).Inc()
}

// IncCapture увеличивает счетчик попыток захвата
func (m *paymentMetrics) IncCapture(result string) {
	m.captures.WithLabelValues(result).Inc()
}

// IncValidationErrors увеличивает счетчик ошибок валидации карты
func (m *paymentMetrics) IncValidationErrors(count int) {
	m.validationErrors.Add(float64(count))
}

// ObserveChargeAmount записывает сумму списания
func (m *paymentMetrics) ObserveChargeAmount(amount float64, currency string, status string) {
	m.chargesAmount.WithLabelValues(currency, status).Observe(amount)
}
