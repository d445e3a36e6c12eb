package repository

import (
	"context"
	"sync"

	"github.com/Dhoini/Checkout-gateway/pkg/logger"
)

// SessionStore хранит межзапросное состояние покупательской сессии:
// корзину, флаг ожидания оплаты и флаги обновления страницы оформления
type SessionStore interface {
	// EmptyCart очищает корзину сессии
	EmptyCart(ctx context.Context, sessionID string) error
	// ClearAwaitingPayment снимает флаг "заказ ожидает оплаты"
	ClearAwaitingPayment(ctx context.Context, sessionID string) error
	// SetCheckoutFlags выставляет флаги пересчета корзины и перезагрузки страницы
	SetCheckoutFlags(ctx context.Context, sessionID string, refresh, reload bool) error
	// ConsumeCheckoutFlags читает и сбрасывает флаги оформления
	ConsumeCheckoutFlags(ctx context.Context, sessionID string) (refresh, reload bool, err error)
}

type sessionFlags struct {
	refresh bool
	reload  bool
}

// InMemorySessionStore реализация хранилища сессий в памяти
type InMemorySessionStore struct {
	carts    map[string]struct{}
	awaiting map[string]struct{}
	flags    map[string]sessionFlags
	mutex    sync.Mutex
	log      *logger.Logger
}

// NewInMemorySessionStore создает новое хранилище сессий в памяти
func NewInMemorySessionStore(log *logger.Logger) *InMemorySessionStore {
	return &InMemorySessionStore{
		carts:    make(map[string]struct{}),
		awaiting: make(map[string]struct{}),
		flags:    make(map[string]sessionFlags),
		log:      log,
	}
}

// EmptyCart очищает корзину сессии
func (s *InMemorySessionStore) EmptyCart(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// ClearAwaitingPayment снимает флаг ожидания оплаты
func (s *InMemorySessionStore) ClearAwaitingPayment(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.awaiting, sessionID)
	return nil
}

// SetCheckoutFlags выставляет флаги оформления
func (s *InMemorySessionStore) SetCheckoutFlags(ctx context.Context, sessionID string, refresh, reload bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.flags[sessionID] = sessionFlags{refresh: refresh, reload: reload}
	return nil
}

// ConsumeCheckoutFlags читает и сбрасывает флаги оформления
func (s *InMemorySessionStore) ConsumeCheckoutFlags(ctx context.Context, sessionID string) (bool, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	f := s.flags[sessionID]
	delete(s.flags, sessionID)
	return f.refresh, f.reload, nil
}
