package repositories

import (
	"context"

	"github.com/copydesk/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

func (r *ContentRepo) Create(ctx context.Context, c *models.ApprovedContent) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO approved_content (user_id, title, body, brand, campaign)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Title, c.Body, c.Brand, c.Campaign,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetOwned returns the row only when it belongs to userID. A foreign row scans
// as pgx.ErrNoRows, so nonexistence and wrong ownership are indistinguishable.
func (r *ContentRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.ApprovedContent, error) {
	var c models.ApprovedContent
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, body, brand, campaign, created_at, updated_at
		FROM approved_content WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Title, &c.Body, &c.Brand, &c.Campaign,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepo) List(ctx context.Context, userID uuid.UUID) ([]models.ApprovedContent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, body, brand, campaign, created_at, updated_at
		FROM approved_content WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ApprovedContent
	for rows.Next() {
		var c models.ApprovedContent
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Body, &c.Brand, &c.Campaign,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Update is owner-scoped; returns the number of rows affected so callers can
// treat a non-owner update (zero rows) as a not-found failure.
func (r *ContentRepo) Update(ctx context.Context, c *models.ApprovedContent) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE approved_content SET title = $1, body = $2, brand = $3, campaign = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
	`, c.Title, c.Body, c.Brand, c.Campaign, c.ID, c.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ContentRepo) Delete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM approved_content WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
