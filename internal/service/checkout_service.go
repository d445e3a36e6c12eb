package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dhoini/Checkout-gateway/config"
	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/integration/stripe"
	"github.com/Dhoini/Checkout-gateway/internal/kafka/producer"
	"github.com/Dhoini/Checkout-gateway/internal/metrics"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/google/uuid"
)

const gatewayName = "stripe"

// NewCardChoice значение выбора карты, означающее ввод новой карты
const NewCardChoice = "new"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ErrInvalidCardChoice выбранная сохраненная карта не существует
var ErrInvalidCardChoice = errors.New("invalid saved card selection")

// PaymentResult итог обработки платежа, возвращаемый браузеру
type PaymentResult struct {
	Result      string   `json:"result"`
	RedirectURL string   `json:"redirect,omitempty"`
	Notices     []string `json:"messages,omitempty"`
}

// CheckoutService оркестратор отправки платежа: собирает данные заказа
// и формы, выбирает способ списания, вызывает процессор и фиксирует
// результат на заказе
type CheckoutService struct {
	cfg       *config.Config
	orders    repository.OrderRepository
	cards     repository.CardRepository
	session   repository.SessionStore
	processor ProcessorClient
	producer  producer.PaymentProducer
	metrics   metrics.PaymentMetrics
	log       *logger.Logger
}

// NewCheckoutService создает новый сервис оформления платежа
func NewCheckoutService(
	cfg *config.Config,
	orders repository.OrderRepository,
	cards repository.CardRepository,
	session repository.SessionStore,
	processor ProcessorClient,
	prod producer.PaymentProducer,
	m metrics.PaymentMetrics,
	log *logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		cfg:       cfg,
		orders:    orders,
		cards:     cards,
		session:   session,
		processor: processor,
		producer:  prod,
		metrics:   m,
		log:       log,
	}
}

// ProcessPayment обрабатывает отправку платежной формы для заказа.
// Любая ошибка процессора или хранилища гасится на этой границе
// и превращается в результат failure с уведомлениями для покупателя.
func (s *CheckoutService) ProcessPayment(ctx context.Context, orderID uuid.UUID, form domain.CheckoutForm, customer *domain.Customer) PaymentResult {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.log.Warn("Order not found for payment: %s", orderID)
		return PaymentResult{
			Result:  ResultFailure,
			Notices: []string{"Transaction Error: Could not complete your payment."},
		}
	}

	// Ошибки клиентской валидации: тихо прерываемся, к процессору не ходим
	if form.FormErrors {
		s.log.Debug("Form has validation errors, skipping processor call for order %s", orderID)
		return PaymentResult{Result: ResultFailure}
	}

	charge, processorCustomerID, err := s.sendToProcessor(ctx, order, form, customer)
	if err != nil {
		return s.paymentFailed(ctx, order, err)
	}

	meta := domain.PaymentMeta{
		TransactionID: charge.ID,
		AuthCapture:   s.cfg.Gateway.Capture,
		CustomerID:    processorCustomerID,
	}
	if err := s.orders.SetPaymentMeta(ctx, order.ID, meta); err != nil {
		s.log.Error("Failed to store payment meta for order %s: %v", order.ID, err)
		return s.paymentFailed(ctx, order, err)
	}

	s.completeOrder(ctx, order, charge.ID, form.SessionID)

	s.metrics.IncChargeSucceeded(order.Currency)
	s.metrics.ObserveChargeAmount(float64(charge.Amount), order.Currency, "succeeded")
	if err := s.producer.PublishChargeSucceeded(ctx, producer.ChargeEvent{
		OrderID:       order.ID.String(),
		TransactionID: charge.ID,
		CustomerID:    processorCustomerID,
		Amount:        charge.Amount,
		Currency:      order.Currency,
	}); err != nil {
		s.log.Warn("Failed to publish charge succeeded event for order %s: %v", order.ID, err)
	}

	return PaymentResult{
		Result:      ResultSuccess,
		RedirectURL: s.returnURL(order),
	}
}

// sendToProcessor выбирает способ списания и выполняет его.
// Возвращает списание и идентификатор клиента процессора, если он есть.
func (s *CheckoutService) sendToProcessor(ctx context.Context, order domain.Order, form domain.CheckoutForm, customer *domain.Customer) (*stripe.Charge, string, error) {
	description := chargeDescription(order, customer)

	chargeReq := domain.ChargeRequest{
		Amount:      domain.MinorUnits(order.Total),
		Currency:    strings.ToLower(order.Currency),
		Description: description,
		Capture:     !s.cfg.Gateway.Capture,
	}

	// Ссылка на новую карту сохраняется только после успешного списания
	var pendingCard *domain.SavedCard
	var processorCustomerID string

	if customer == nil {
		// Гость: одноразовый токен, клиент в процессоре не создается
		chargeReq.Token = form.Token
	} else {
		saved, err := s.cards.List(ctx, customer.ID)
		if err != nil {
			return nil, "", err
		}

		switch {
		case len(saved) == 0:
			// Первый платеж авторизованного покупателя: создаем клиента из токена
			cust, err := s.processor.CreateCustomer(ctx, form.Token, customer.Email, description)
			if err != nil {
				return nil, "", err
			}
			processorCustomerID = cust.ID
			chargeReq.CustomerID = cust.ID
			chargeReq.CardID = cust.DefaultCard
			if card := cust.CardByID(cust.DefaultCard); card != nil {
				pendingCard = &domain.SavedCard{
					CustomerID: cust.ID,
					CardID:     card.ID,
					Brand:      card.Brand,
					Last4:      card.Last4,
					ExpMonth:   card.ExpMonth,
					ExpYear:    card.ExpYear,
				}
			}

		case form.ChosenCard == NewCardChoice:
			// Привязываем новую карту к существующему клиенту процессора
			// и делаем ее картой по умолчанию
			existingID := saved[0].CustomerID
			card, err := s.processor.AddCard(ctx, existingID, form.Token)
			if err != nil {
				return nil, "", err
			}
			cust, err := s.processor.UpdateCustomer(ctx, existingID, url.Values{
				"default_card": {card.ID},
			})
			if err != nil {
				return nil, "", err
			}
			processorCustomerID = cust.ID
			chargeReq.CustomerID = cust.ID
			chargeReq.CardID = card.ID
			pendingCard = &domain.SavedCard{
				CustomerID: cust.ID,
				CardID:     card.ID,
				Brand:      card.Brand,
				Last4:      card.Last4,
				ExpMonth:   card.ExpMonth,
				ExpYear:    card.ExpYear,
			}

		default:
			// Выбрана сохраненная карта: списываем по паре клиент+карта,
			// никаких обращений к процессору кроме самого списания
			idx, err := strconv.Atoi(form.ChosenCard)
			if err != nil || idx < 0 || idx >= len(saved) {
				return nil, "", ErrInvalidCardChoice
			}
			processorCustomerID = saved[idx].CustomerID
			chargeReq.CustomerID = saved[idx].CustomerID
			chargeReq.CardID = saved[idx].CardID
		}
	}

	charge, err := s.processor.CreateCharge(ctx, chargeReq)
	if err != nil {
		return nil, "", err
	}

	if pendingCard != nil {
		if err := s.cards.Add(ctx, customer.ID, *pendingCard); err != nil {
			// Списание уже прошло, потеря ссылки на карту не отменяет платеж
			s.log.Error("Failed to store saved card for customer %s: %v", customer.ID, err)
		}
	}

	return charge, processorCustomerID, nil
}

// completeOrder завершает заказ после успешного списания.
// Повторный вызов для уже завершенного заказа ничего не делает.
func (s *CheckoutService) completeOrder(ctx context.Context, order domain.Order, transactionID, sessionID string) {
	if order.Status == domain.OrderStatusCompleted {
		return
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted); err != nil {
		s.log.Error("Failed to complete order %s: %v", order.ID, err)
	}

	if sessionID != "" {
		if err := s.session.EmptyCart(ctx, sessionID); err != nil {
			s.log.Warn("Failed to empty cart for session %s: %v", sessionID, err)
		}
	}

	note := fmt.Sprintf("%s payment completed with transaction id %q", gatewayName, transactionID)
	if err := s.orders.AddNote(ctx, order.ID, note); err != nil {
		s.log.Warn("Failed to add completion note to order %s: %v", order.ID, err)
	}

	if sessionID != "" {
		if err := s.session.ClearAwaitingPayment(ctx, sessionID); err != nil {
			s.log.Warn("Failed to clear awaiting payment flag for session %s: %v", sessionID, err)
		}
	}
}

// paymentFailed фиксирует неудачу в журнале заказа и формирует
// уведомления для покупателя. Статус заказа не меняется.
func (s *CheckoutService) paymentFailed(ctx context.Context, order domain.Order, cause error) PaymentResult {
	message := cause.Error()
	var procErr *stripe.ProcessorError
	if errors.As(cause, &procErr) {
		message = procErr.Message
	}

	note := fmt.Sprintf("%s credit card payment failed with message: %q", gatewayName, message)
	if err := s.orders.AddNote(ctx, order.ID, note); err != nil {
		s.log.Warn("Failed to add failure note to order %s: %v", order.ID, err)
	}

	s.metrics.IncChargeFailed(order.Currency)
	if err := s.producer.PublishChargeFailed(ctx, producer.ChargeEvent{
		OrderID:  order.ID.String(),
		Amount:   domain.MinorUnits(order.Total),
		Currency: order.Currency,
		Message:  message,
	}); err != nil {
		s.log.Warn("Failed to publish charge failed event for order %s: %v", order.ID, err)
	}

	s.log.Warn("Payment failed for order %s: %v", order.ID, cause)

	return PaymentResult{
		Result: ResultFailure,
		Notices: []string{
			"Error: " + message,
			"Transaction Error: Could not complete your payment.",
		},
	}
}

// returnURL возвращает адрес перенаправления после успешной оплаты
func (s *CheckoutService) returnURL(order domain.Order) string {
	return fmt.Sprintf("%s?order=%s", s.cfg.Checkout.OrderReceivedURL, order.ID)
}

// chargeDescription формирует описание списания для процессора
func chargeDescription(order domain.Order, customer *domain.Customer) string {
	name := order.Billing.FullName()
	if customer != nil {
		return fmt.Sprintf("%s (#%s - %s) %s", customer.Login, customer.ID, customer.Email, name)
	}
	return fmt.Sprintf("Guest (%s) %s", order.Billing.Email, name)
}
