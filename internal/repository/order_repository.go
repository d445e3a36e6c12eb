package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/google/uuid"
)

// OrderRepository интерфейс для работы с заказами
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	SetPaymentMeta(ctx context.Context, id uuid.UUID, meta domain.PaymentMeta) error
	AddNote(ctx context.Context, id uuid.UUID, text string) error
}

// InMemoryOrderRepository реализация репозитория заказов в памяти
type InMemoryOrderRepository struct {
	orders map[uuid.UUID]domain.Order
	mutex  sync.RWMutex
	log    *logger.Logger
}

// NewInMemoryOrderRepository создает новый репозиторий заказов в памяти
func NewInMemoryOrderRepository(log *logger.Logger) *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[uuid.UUID]domain.Order),
		log:    log,
	}
}

// GetByID возвращает заказ по ID
func (r *InMemoryOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return domain.Order{}, ErrNotFound
	}

	return order, nil
}

// Create создает новый заказ
func (r *InMemoryOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	r.orders[order.ID] = order
	return order, nil
}

// UpdateStatus обновляет статус заказа
func (r *InMemoryOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	order, exists := r.orders[id]
	if !exists {
		return ErrNotFound
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order

	return nil
}

// SetPaymentMeta записывает метаданные платежа на заказ
func (r *InMemoryOrderRepository) SetPaymentMeta(ctx context.Context, id uuid.UUID, meta domain.PaymentMeta) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	order, exists := r.orders[id]
	if !exists {
		return ErrNotFound
	}

	order.Payment = meta
	order.UpdatedAt = time.Now()
	r.orders[id] = order

	return nil
}

// AddNote добавляет запись в журнал заказа
func (r *InMemoryOrderRepository) AddNote(ctx context.Context, id uuid.UUID, text string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	order, exists := r.orders[id]
	if !exists {
		return ErrNotFound
	}

	order.Notes = append(order.Notes, domain.OrderNote{
		Text:      text,
		CreatedAt: time.Now(),
	})
	r.orders[id] = order

	return nil
}
