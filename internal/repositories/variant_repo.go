package repositories

import (
	"context"
	"fmt"

	"github.com/copydesk/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VariantRepo struct {
	pool *pgxpool.Pool
}

func NewVariantRepo(pool *pgxpool.Pool) *VariantRepo {
	return &VariantRepo{pool: pool}
}

// InsertBatch persists all rows in one batch round trip. Batches are not
// transactional; a mid-batch failure leaves earlier rows in place and is
// reported to the caller.
func (r *VariantRepo) InsertBatch(ctx context.Context, variants []models.ContentVariant) error {
	batch := &pgx.Batch{}
	for _, v := range variants {
		batch.Queue(`
			INSERT INTO content_variants (approved_content_id, channel, audience, tone, status, generated_text)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, v.ApprovedContentID, v.Channel, v.Audience, v.Tone, v.Status, v.GeneratedText)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range variants {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetOwned scopes the lookup through the parent content row.
func (r *VariantRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.ContentVariant, error) {
	var v models.ContentVariant
	err := r.pool.QueryRow(ctx, `
		SELECT v.id, v.approved_content_id, v.channel, v.audience, v.tone, v.status, v.generated_text, v.created_at
		FROM content_variants v
		JOIN approved_content c ON c.id = v.approved_content_id
		WHERE v.id = $1 AND c.user_id = $2
	`, id, userID).Scan(&v.ID, &v.ApprovedContentID, &v.Channel, &v.Audience, &v.Tone,
		&v.Status, &v.GeneratedText, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// StatusesByID returns the current status of every owned variant in ids.
// Unowned or missing ids are simply absent from the result.
func (r *VariantRepo) StatusesByID(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.status
		FROM content_variants v
		JOIN approved_content c ON c.id = v.approved_content_id
		WHERE v.id = ANY($1) AND c.user_id = $2
	`, ids, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(map[uuid.UUID]string, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		statuses[id] = status
	}
	return statuses, rows.Err()
}

func (r *VariantRepo) ListByOwner(ctx context.Context, userID uuid.UUID, status *string) ([]models.VariantWithSource, error) {
	query := `
		SELECT v.id, v.approved_content_id, v.channel, v.audience, v.tone, v.status, v.generated_text, v.created_at, c.title
		FROM content_variants v
		JOIN approved_content c ON c.id = v.approved_content_id
		WHERE c.user_id = $1
	`
	args := []any{userID}
	if status != nil {
		query += " AND v.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY v.created_at DESC"

	return r.queryWithSource(ctx, query, args...)
}

// ExportFilter narrows the approved-variant projection. Empty fields match
// everything; TitleQuery is a case-insensitive substring match.
type ExportFilter struct {
	Channel    string
	Audience   string
	Tone       string
	TitleQuery string
}

func (r *VariantRepo) ListApproved(ctx context.Context, userID uuid.UUID, f ExportFilter) ([]models.VariantWithSource, error) {
	query := `
		SELECT v.id, v.approved_content_id, v.channel, v.audience, v.tone, v.status, v.generated_text, v.created_at, c.title
		FROM content_variants v
		JOIN approved_content c ON c.id = v.approved_content_id
		WHERE c.user_id = $1 AND v.status = $2
	`
	args := []any{userID, models.VariantStatusApproved}
	argIdx := 3

	if f.Channel != "" {
		query += fmt.Sprintf(" AND v.channel = $%d", argIdx)
		args = append(args, f.Channel)
		argIdx++
	}
	if f.Audience != "" {
		query += fmt.Sprintf(" AND v.audience = $%d", argIdx)
		args = append(args, f.Audience)
		argIdx++
	}
	if f.Tone != "" {
		query += fmt.Sprintf(" AND v.tone = $%d", argIdx)
		args = append(args, f.Tone)
		argIdx++
	}
	if f.TitleQuery != "" {
		query += fmt.Sprintf(" AND c.title ILIKE $%d", argIdx)
		args = append(args, "%"+f.TitleQuery+"%")
		argIdx++
	}
	query += " ORDER BY v.created_at DESC"

	return r.queryWithSource(ctx, query, args...)
}

func (r *VariantRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE content_variants SET status = $1 WHERE id = $2
	`, status, id)
	return err
}

// UpdateStatusBulk applies one target status to every id in the set. Single
// statement, so each row update is atomic; the affected count lets callers
// detect partial application.
func (r *VariantRepo) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE content_variants SET status = $1 WHERE id = ANY($2)
	`, status, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *VariantRepo) queryWithSource(ctx context.Context, query string, args ...any) ([]models.VariantWithSource, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.VariantWithSource
	for rows.Next() {
		var v models.VariantWithSource
		if err := rows.Scan(&v.ID, &v.ApprovedContentID, &v.Channel, &v.Audience, &v.Tone,
			&v.Status, &v.GeneratedText, &v.CreatedAt, &v.SourceTitle); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
