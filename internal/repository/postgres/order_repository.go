package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOrderRepository реализация репозитория заказов через PostgreSQL
type PostgresOrderRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresOrderRepository создает новый репозиторий заказов через PostgreSQL
func NewPostgresOrderRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:  db,
		log: log,
	}
}

// GetByID возвращает заказ по ID вместе с журналом
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	query := `
		SELECT id, total, currency,
		       billing_first_name, billing_last_name, billing_email,
		       billing_address_1, billing_address_2, billing_postcode,
		       billing_state, billing_country,
		       status, transaction_id, auth_capture, processor_customer_id,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Total,
		&order.Currency,
		&order.Billing.FirstName,
		&order.Billing.LastName,
		&order.Billing.Email,
		&order.Billing.Address1,
		&order.Billing.Address2,
		&order.Billing.PostalCode,
		&order.Billing.State,
		&order.Billing.Country,
		&order.Status,
		&order.Payment.TransactionID,
		&order.Payment.AuthCapture,
		&order.Payment.CustomerID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, repository.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to query order: %w", err)
	}

	notes, err := r.listNotes(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Notes = notes

	return order, nil
}

func (r *PostgresOrderRepository) listNotes(ctx context.Context, orderID uuid.UUID) ([]domain.OrderNote, error) {
	query := `
		SELECT text, created_at
		FROM order_notes
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.OrderNote
	for rows.Next() {
		var note domain.OrderNote
		if err := rows.Scan(&note.Text, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Create создает новый заказ
func (r *PostgresOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	query := `
		INSERT INTO orders (
			id, total, currency,
			billing_first_name, billing_last_name, billing_email,
			billing_address_1, billing_address_2, billing_postcode,
			billing_state, billing_country,
			status, transaction_id, auth_capture, processor_customer_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		order.ID,
		order.Total,
		order.Currency,
		order.Billing.FirstName,
		order.Billing.LastName,
		order.Billing.Email,
		order.Billing.Address1,
		order.Billing.Address2,
		order.Billing.PostalCode,
		order.Billing.State,
		order.Billing.Country,
		order.Status,
		order.Payment.TransactionID,
		order.Payment.AuthCapture,
		order.Payment.CustomerID,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return order, nil
}

// UpdateStatus обновляет статус заказа
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetPaymentMeta записывает метаданные платежа на заказ
func (r *PostgresOrderRepository) SetPaymentMeta(ctx context.Context, id uuid.UUID, meta domain.PaymentMeta) error {
	query := `
		UPDATE orders
		SET transaction_id = $2, auth_capture = $3, processor_customer_id = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, meta.TransactionID, meta.AuthCapture, meta.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to set payment meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddNote добавляет запись в журнал заказа
func (r *PostgresOrderRepository) AddNote(ctx context.Context, id uuid.UUID, text string) error {
	query := `
		INSERT INTO order_notes (order_id, text, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := r.db.Exec(ctx, query, id, text); err != nil {
		return fmt.Errorf("failed to insert order note: %w", err)
	}

	return nil
}
