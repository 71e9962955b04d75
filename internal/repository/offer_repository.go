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

// Ошибки уровня репозитория офферов.
var (
	ErrOfferNotFound        = errors.New("offer not found")
	ErrOfferDetailNotFound  = errors.New("offer detail not found")
	ErrDuplicateOfferDetail = errors.New("offer detail type already exists")
)

// OfferRepository отвечает за работу с офферами и их тарифами.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository создаёт новый экземпляр.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// OfferListParams параметры фильтрации списка офферов.
type OfferListParams struct {
	Search          string
	CreatorID       *uuid.UUID
	MinPrice        *float64
	MaxDeliveryTime *int
	Ordering        string
	Limit           int
	Offset          int
}

// OfferListResult результат листинга с общим количеством для пагинации.
type OfferListResult struct {
	Offers []models.Offer
	Total  int
}

// Create сохраняет оффер и все его тарифы в одной транзакции.
// Частично созданный оффер с неполным набором тарифов невозможен.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("offer repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	offerQuery := `
		INSERT INTO offers (user_id, title, image, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	if err = tx.QueryRowxContext(
		ctx, offerQuery,
		offer.UserID, offer.Title, offer.Image, offer.Description,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt); err != nil {
		return fmt.Errorf("offer repository: create offer %w", err)
	}

	detailQuery := `
		INSERT INTO offer_details (offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for i := range offer.Details {
		detail := &offer.Details[i]
		detail.OfferID = offer.ID
		if err = tx.QueryRowxContext(
			ctx, detailQuery,
			detail.OfferID, detail.Title, detail.Revisions, detail.DeliveryTimeInDays,
			detail.Price, pq.Array(detail.Features), detail.OfferType,
		).Scan(&detail.ID); err != nil {
			return fmt.Errorf("offer repository: create detail %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("offer repository: commit %w", err)
	}

	return nil
}

// GetByID возвращает оффер вместе с тарифами.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	query := `
		SELECT id, user_id, title, image, description, created_at, updated_at
		FROM offers
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &offer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer repository: get by id %w", err)
	}

	details, err := r.listDetailsByOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	offer.Details = details

	return &offer, nil
}

// List возвращает офферы с фильтрами, сортировкой и пагинацией.
// Тарифы подгружаются отдельным запросом по всем найденным офферам.
func (r *OfferRepository) List(ctx context.Context, params OfferListParams) (*OfferListResult, error) {
	countQuery := `SELECT COUNT(*) FROM offers o WHERE 1=1`
	query := `
		SELECT o.id, o.user_id, o.title, o.image, o.description, o.created_at, o.updated_at
		FROM offers o
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if params.Search != "" {
		clause := fmt.Sprintf(" AND (o.title ILIKE $%d OR o.description ILIKE $%d)", argIndex, argIndex)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.CreatorID != nil {
		clause := fmt.Sprintf(" AND o.user_id = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.CreatorID)
		argIndex++
	}

	if params.MinPrice != nil {
		clause := fmt.Sprintf(" AND EXISTS (SELECT 1 FROM offer_details d WHERE d.offer_id = o.id AND d.price >= $%d)", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.MinPrice)
		argIndex++
	}

	if params.MaxDeliveryTime != nil {
		clause := fmt.Sprintf(" AND EXISTS (SELECT 1 FROM offer_details d WHERE d.offer_id = o.id AND d.delivery_time_in_days <= $%d)", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.MaxDeliveryTime)
		argIndex++
	}

	switch params.Ordering {
	case "updated_at":
		query += " ORDER BY o.updated_at ASC"
	case "min_price":
		query += " ORDER BY (SELECT MIN(d.price) FROM offer_details d WHERE d.offer_id = o.id) ASC"
	case "-min_price":
		query += " ORDER BY (SELECT MIN(d.price) FROM offer_details d WHERE d.offer_id = o.id) DESC"
	default: // "-updated_at"
		query += " ORDER BY o.updated_at DESC"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("offer repository: count %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	var offers []models.Offer
	if err := r.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("offer repository: list %w", err)
	}

	for i := range offers {
		details, err := r.listDetailsByOffer(ctx, offers[i].ID)
		if err != nil {
			return nil, err
		}
		offers[i].Details = details
	}

	return &OfferListResult{Offers: offers, Total: total}, nil
}

// Update обновляет поля самого оффера без тарифов.
func (r *OfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	query := `
		UPDATE offers
		SET title = $2, image = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, offer.ID, offer.Title, offer.Image, offer.Description,
	).Scan(&offer.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("offer repository: update %w", err)
	}
	return nil
}

// Delete удаляет оффер. Тарифы удаляются каскадно, а у зависимых заказов
// ссылка offer_detail_id обнуляется, снимок условий при этом сохраняется.
func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("offer repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("offer repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// CreateDetail добавляет отдельный тариф к существующему офферу.
// Уникальность пары (offer_id, offer_type) контролирует ограничение в БД.
func (r *OfferRepository) CreateDetail(ctx context.Context, detail *models.OfferDetail) error {
	query := `
		INSERT INTO offer_details (offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		detail.OfferID, detail.Title, detail.Revisions, detail.DeliveryTimeInDays,
		detail.Price, pq.Array(detail.Features), detail.OfferType,
	).Scan(&detail.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOfferDetail
		}
		return fmt.Errorf("offer repository: create detail %w", err)
	}
	return nil
}

// UpdateDetail обновляет поля тарифа.
func (r *OfferRepository) UpdateDetail(ctx context.Context, detail *models.OfferDetail) error {
	query := `
		UPDATE offer_details
		SET title = $2, revisions = $3, delivery_time_in_days = $4, price = $5, features = $6
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(
		ctx, query,
		detail.ID, detail.Title, detail.Revisions, detail.DeliveryTimeInDays,
		detail.Price, pq.Array(detail.Features),
	); err != nil {
		return fmt.Errorf("offer repository: update detail %w", err)
	}
	return nil
}

// GetDetailByID возвращает тариф по идентификатору.
func (r *OfferRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		WHERE id = $1
	`
	return r.getDetail(ctx, query, id)
}

// GetDetailForOffer возвращает тариф по идентификатору в рамках конкретного оффера.
func (r *OfferRepository) GetDetailForOffer(ctx context.Context, offerID, detailID uuid.UUID) (*models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		WHERE id = $1 AND offer_id = $2
	`
	return r.getDetail(ctx, query, detailID, offerID)
}

// GetDetailForOfferByType возвращает тариф оффера по его типу.
func (r *OfferRepository) GetDetailForOfferByType(ctx context.Context, offerID uuid.UUID, offerType string) (*models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		WHERE offer_id = $1 AND offer_type = $2
	`
	return r.getDetail(ctx, query, offerID, offerType)
}

// ListDetails возвращает все тарифы платформы.
func (r *OfferRepository) ListDetails(ctx context.Context, limit, offset int) ([]models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		ORDER BY offer_id, offer_type
		LIMIT $1 OFFSET $2
	`
	return r.selectDetails(ctx, query, limit, offset)
}

// listDetailsByOffer возвращает тарифы конкретного оффера.
func (r *OfferRepository) listDetailsByOffer(ctx context.Context, offerID uuid.UUID) ([]models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		WHERE offer_id = $1
		ORDER BY offer_type
	`
	return r.selectDetails(ctx, query, offerID)
}

func (r *OfferRepository) getDetail(ctx context.Context, query string, args ...interface{}) (*models.OfferDetail, error) {
	var detail models.OfferDetail
	var features pq.StringArray

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(
		&detail.ID, &detail.OfferID, &detail.Title, &detail.Revisions,
		&detail.DeliveryTimeInDays, &detail.Price, &features, &detail.OfferType,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferDetailNotFound
		}
		return nil, fmt.Errorf("offer repository: get detail %w", err)
	}

	detail.Features = []string(features)
	return &detail, nil
}

func (r *OfferRepository) selectDetails(ctx context.Context, query string, args ...interface{}) ([]models.OfferDetail, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("offer repository: select details %w", err)
	}
	defer rows.Close()

	var details []models.OfferDetail
	for rows.Next() {
		var detail models.OfferDetail
		var features pq.StringArray
		if err := rows.Scan(
			&detail.ID, &detail.OfferID, &detail.Title, &detail.Revisions,
			&detail.DeliveryTimeInDays, &detail.Price, &features, &detail.OfferType,
		); err != nil {
			return nil, fmt.Errorf("offer repository: scan detail %w", err)
		}
		detail.Features = []string(features)
		details = append(details, detail)
	}

	return details, rows.Err()
}
