package postgres

import (
	"context"
	"fmt"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCardRepository реализация репозитория сохраненных карт через PostgreSQL
type PostgresCardRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCardRepository создает новый репозиторий карт через PostgreSQL
func NewPostgresCardRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCardRepository {
	return &PostgresCardRepository{
		db:  db,
		log: log,
	}
}

// List возвращает сохраненные карты покупателя в порядке добавления
func (r *PostgresCardRepository) List(ctx context.Context, customerID uuid.UUID) ([]domain.SavedCard, error) {
	query := `
		SELECT processor_customer_id, card_id, brand, last4, exp_month, exp_year, created_at
		FROM saved_cards
		WHERE customer_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved cards: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.SavedCard, 0)
	for rows.Next() {
		var card domain.SavedCard
		err := rows.Scan(
			&card.CustomerID,
			&card.CardID,
			&card.Brand,
			&card.Last4,
			&card.ExpMonth,
			&card.ExpYear,
			&card.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// Add добавляет карту покупателю
func (r *PostgresCardRepository) Add(ctx context.Context, customerID uuid.UUID, card domain.SavedCard) error {
	query := `
		INSERT INTO saved_cards (customer_id, processor_customer_id, card_id, brand, last4, exp_month, exp_year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		customerID,
		card.CustomerID,
		card.CardID,
		card.Brand,
		card.Last4,
		card.ExpMonth,
		card.ExpYear,
	)
	if err != nil {
		return fmt.Errorf("failed to insert saved card: %w", err)
	}

	return nil
}
