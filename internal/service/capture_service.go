package service

import (
	"context"
	"fmt"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/kafka/producer"
	"github.com/Dhoini/Checkout-gateway/internal/metrics"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/google/uuid"
)

// CaptureResult итог попытки захвата средств
type CaptureResult int

const (
	// CaptureNotApplicable заказ не требует захвата
	CaptureNotApplicable CaptureResult = iota
	// CaptureSucceeded средства захвачены
	CaptureSucceeded
	// CaptureFailed процессор вернул ошибку или заказ не найден
	CaptureFailed
)

// String возвращает строковое представление результата
func (r CaptureResult) String() string {
	switch r {
	case CaptureNotApplicable:
		return "not_applicable"
	case CaptureSucceeded:
		return "captured"
	default:
		return "error"
	}
}

// CaptureService выполняет отложенный захват авторизованных списаний
// при переходе заказа в статус completed
type CaptureService struct {
	orders    repository.OrderRepository
	processor ProcessorClient
	producer  producer.PaymentProducer
	metrics   metrics.PaymentMetrics
	log       *logger.Logger
}

// NewCaptureService создает новый сервис захвата средств
func NewCaptureService(
	orders repository.OrderRepository,
	processor ProcessorClient,
	prod producer.PaymentProducer,
	m metrics.PaymentMetrics,
	log *logger.Logger,
) *CaptureService {
	return &CaptureService{
		orders:    orders,
		processor: processor,
		producer:  prod,
		metrics:   m,
		log:       log,
	}
}

// CaptureOrder захватывает средства заказа с отложенным захватом.
// amountOverride > 0 переопределяет сумму захвата. Повторов нет.
func (s *CaptureService) CaptureOrder(ctx context.Context, orderID uuid.UUID, amountOverride int64) (CaptureResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.log.Warn("Order not found for capture: %s", orderID)
		s.metrics.IncCapture(CaptureFailed.String())
		return CaptureFailed, err
	}

	// Захват нужен только заказам, где средства были лишь авторизованы
	if !order.Payment.AuthCapture || order.Payment.TransactionID == "" {
		s.metrics.IncCapture(CaptureNotApplicable.String())
		return CaptureNotApplicable, nil
	}

	charge, err := s.processor.CaptureCharge(ctx, order.Payment.TransactionID, amountOverride)
	if err != nil {
		s.log.Error("Failed to capture charge %s for order %s: %v", order.Payment.TransactionID, order.ID, err)

		note := fmt.Sprintf("%s payment capture failed with message: %q", gatewayName, err.Error())
		if noteErr := s.orders.AddNote(ctx, order.ID, note); noteErr != nil {
			s.log.Warn("Failed to add capture failure note to order %s: %v", order.ID, noteErr)
		}

		s.metrics.IncCapture(CaptureFailed.String())
		return CaptureFailed, err
	}

	note := fmt.Sprintf("%s payment captured with transaction id %q", gatewayName, charge.ID)
	if err := s.orders.AddNote(ctx, order.ID, note); err != nil {
		s.log.Warn("Failed to add capture note to order %s: %v", order.ID, err)
	}

	s.metrics.IncCapture(CaptureSucceeded.String())
	if err := s.producer.PublishChargeCaptured(ctx, producer.ChargeEvent{
		OrderID:       order.ID.String(),
		TransactionID: charge.ID,
		CustomerID:    order.Payment.CustomerID,
		Amount:        charge.Amount,
		Currency:      order.Currency,
	}); err != nil {
		s.log.Warn("Failed to publish charge captured event for order %s: %v", order.ID, err)
	}

	s.log.Info("Captured charge %s for order %s", charge.ID, order.ID)
	return CaptureSucceeded, nil
}

// TransitionTriggersCapture проверяет, что переход статусов заказа
// запускает отложенный захват
func TransitionTriggersCapture(from, to domain.OrderStatus) bool {
	return from == domain.OrderStatusProcessing && to == domain.OrderStatusCompleted
}
