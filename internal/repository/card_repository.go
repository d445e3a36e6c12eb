package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/google/uuid"
)

// CardRepository интерфейс для работы с сохраненными картами покупателей.
// Удаления нет: новые карты только добавляются, порядок вставки сохраняется.
type CardRepository interface {
	List(ctx context.Context, customerID uuid.UUID) ([]domain.SavedCard, error)
	Add(ctx context.Context, customerID uuid.UUID, card domain.SavedCard) error
}

// InMemoryCardRepository реализация репозитория карт в памяти
type InMemoryCardRepository struct {
	cards map[uuid.UUID][]domain.SavedCard
	mutex sync.RWMutex
	log   *logger.Logger
}

// NewInMemoryCardRepository создает новый репозиторий карт в памяти
func NewInMemoryCardRepository(log *logger.Logger) *InMemoryCardRepository {
	return &InMemoryCardRepository{
		cards: make(map[uuid.UUID][]domain.SavedCard),
		log:   log,
	}
}

// List возвращает сохраненные карты покупателя в порядке добавления
func (r *InMemoryCardRepository) List(ctx context.Context, customerID uuid.UUID) ([]domain.SavedCard, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stored := r.cards[customerID]
	cards := make([]domain.SavedCard, len(stored))
	copy(cards, stored)

	return cards, nil
}

// Add добавляет карту покупателю
func (r *InMemoryCardRepository) Add(ctx context.Context, customerID uuid.UUID, card domain.SavedCard) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	r.cards[customerID] = append(r.cards[customerID], card)

	return nil
}
