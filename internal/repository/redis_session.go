package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// Префиксы ключей для состояния сессии
	cartKeyPrefix            = "cart:"
	awaitingPaymentKeyPrefix = "order_awaiting_payment:"
	refreshTotalsKeyPrefix   = "refresh_totals:"
	reloadCheckoutKeyPrefix  = "reload_checkout:"

	// TTL для флагов оформления
	checkoutFlagTTL = 30 * time.Minute
)

// RedisSessionStore реализация хранилища сессий на Redis
type RedisSessionStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisSessionStore создает новое хранилище сессий на Redis
func NewRedisSessionStore(addr, password string, db int, log *logger.Logger) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Проверяем соединение с Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis: %v", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Connected to Redis successfully: %s", addr)
	return &RedisSessionStore{
		client: client,
		log:    log,
	}, nil
}

// Close закрывает соединение с Redis
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// EmptyCart очищает корзину сессии
func (s *RedisSessionStore) EmptyCart(ctx context.Context, sessionID string) error {
	key := cartKeyPrefix + sessionID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to empty cart for session %s: %w", sessionID, err)
	}

	s.log.Debug("Emptied cart for session: %s", sessionID)
	return nil
}

// ClearAwaitingPayment снимает флаг ожидания оплаты
func (s *RedisSessionStore) ClearAwaitingPayment(ctx context.Context, sessionID string) error {
	key := awaitingPaymentKeyPrefix + sessionID
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear awaiting payment flag for session %s: %w", sessionID, err)
	}

	return nil
}

// SetCheckoutFlags выставляет флаги оформления
func (s *RedisSessionStore) SetCheckoutFlags(ctx context.Context, sessionID string, refresh, reload bool) error {
	pipe := s.client.Pipeline()
	if refresh {
		pipe.Set(ctx, refreshTotalsKeyPrefix+sessionID, "1", checkoutFlagTTL)
	}
	if reload {
		pipe.Set(ctx, reloadCheckoutKeyPrefix+sessionID, "1", checkoutFlagTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set checkout flags for session %s: %w", sessionID, err)
	}
	return nil
}

// ConsumeCheckoutFlags читает и сбрасывает флаги оформления
func (s *RedisSessionStore) ConsumeCheckoutFlags(ctx context.Context, sessionID string) (bool, bool, error) {
	refresh, err := s.consumeFlag(ctx, refreshTotalsKeyPrefix+sessionID)
	if err != nil {
		return false, false, err
	}

	reload, err := s.consumeFlag(ctx, reloadCheckoutKeyPrefix+sessionID)
	if err != nil {
		return false, false, err
	}

	return refresh, reload, nil
}

func (s *RedisSessionStore) consumeFlag(ctx context.Context, key string) (bool, error) {
	val, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume flag %s: %w", key, err)
	}
	return val == "1", nil
}
