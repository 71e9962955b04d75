package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// ErrOrderNotFound возвращается, когда заказ не найден.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository хранит заказы со снимком условий тарифа.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт новый экземпляр.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет заказ. Поля условий уже скопированы из тарифа,
// дальнейшие изменения тарифа на заказ не влияют.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (
			customer_user_id, business_user_id, offer_detail_id,
			title, revisions, delivery_time_in_days, price, features, offer_type, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		order.CustomerUserID, order.BusinessUserID, order.OfferDetailID,
		order.Title, order.Revisions, order.DeliveryTimeInDays,
		order.Price, pq.Array(order.Features), order.OfferType, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, customer_user_id, business_user_id, offer_detail_id,
		       title, revisions, delivery_time_in_days, price, features, offer_type,
		       status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	row := r.db.QueryRowxContext(ctx, query, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return order, nil
}

// ListByParty возвращает заказы, где пользователь выступает заказчиком
// или исполнителем.
func (r *OrderRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	query := `
		SELECT id, customer_user_id, business_user_id, offer_detail_id,
		       title, revisions, delivery_time_in_days, price, features, offer_type,
		       status, created_at, updated_at
		FROM orders
		WHERE customer_user_id = $1 OR business_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("order repository: list by party %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order repository: scan %w", err)
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

// UpdateStatus меняет статус заказа.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, customer_user_id, business_user_id, offer_detail_id,
		          title, revisions, delivery_time_in_days, price, features, offer_type,
		          status, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, id, status)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: update status %w", err)
	}
	return order, nil
}

// Delete удаляет заказ.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("order repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CountInProgressByBusinessUser возвращает количество активных заказов исполнителя.
func (r *OrderRepository) CountInProgressByBusinessUser(ctx context.Context, businessUserID uuid.UUID) (int, error) {
	return r.countByStatus(ctx, businessUserID, models.OrderStatusInProgress)
}

// CountCompletedByBusinessUser возвращает количество завершённых заказов исполнителя.
func (r *OrderRepository) CountCompletedByBusinessUser(ctx context.Context, businessUserID uuid.UUID) (int, error) {
	return r.countByStatus(ctx, businessUserID, models.OrderStatusCompleted)
}

func (r *OrderRepository) countByStatus(ctx context.Context, businessUserID uuid.UUID, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE business_user_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, businessUserID, status); err != nil {
		return 0, fmt.Errorf("order repository: count by status %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var features pq.StringArray

	if err := row.Scan(
		&order.ID, &order.CustomerUserID, &order.BusinessUserID, &order.OfferDetailID,
		&order.Title, &order.Revisions, &order.DeliveryTimeInDays,
		&order.Price, &features, &order.OfferType,
		&order.Status, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	order.Features = []string(features)
	return &order, nil
}
