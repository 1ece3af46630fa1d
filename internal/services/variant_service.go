package services

import (
	"context"
	"fmt"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/events"
	"github.com/copydesk/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type variantStore interface {
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.ContentVariant, error)
	StatusesByID(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]string, error)
	ListByOwner(ctx context.Context, userID uuid.UUID, status *string) ([]models.VariantWithSource, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status string) (int64, error)
}

// VariantService owns the review workflow: listing variants and moving them
// through the status graph, one row or many at a time.
type VariantService struct {
	variantRepo variantStore
	auditRepo   auditLogger
	publisher   events.Publisher
	log         *zap.Logger
}

func NewVariantService(variantRepo variantStore, auditRepo auditLogger, publisher events.Publisher, log *zap.Logger) *VariantService {
	return &VariantService{
		variantRepo: variantRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		log:         log,
	}
}

func (s *VariantService) ListForReview(ctx context.Context, userID uuid.UUID, status *string) ([]models.VariantWithSource, error) {
	if status != nil && !models.IsValidStatus(*status) {
		return nil, apperr.New(apperr.Validation, fmt.Sprintf("unknown status %q", *status))
	}
	items, err := s.variantRepo.ListByOwner(ctx, userID, status)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}
	return items, nil
}

// UpdateStatus moves one variant. Unknown target statuses and illegal
// transitions are rejected before any write; no row is mutated.
func (s *VariantService) UpdateStatus(ctx context.Context, userID, variantID uuid.UUID, status string) error {
	if !models.IsValidStatus(status) {
		return apperr.New(apperr.Validation, fmt.Sprintf("unknown status %q", status))
	}

	variant, err := s.variantRepo.GetOwned(ctx, variantID, userID)
	if err != nil {
		return apperr.New(apperr.Auth, "Variant not found or access denied.")
	}

	if !models.IsValidTransition(variant.Status, status) {
		return apperr.New(apperr.Validation,
			fmt.Sprintf("cannot move variant from %q to %q", variant.Status, status))
	}

	if err := s.variantRepo.UpdateStatus(ctx, variantID, status); err != nil {
		return apperr.Wrap(apperr.Persistence, err.Error(), err)
	}

	s.recordChange(ctx, userID, []uuid.UUID{variantID}, variant.Status, status)
	return nil
}

// UpdateStatusBulk applies one target status to a set of variants. The whole
// request is validated against every row's current status before any write,
// so an illegal pair rejects the batch. The store update itself is not
// transactional across rows; a short count is surfaced, not masked.
func (s *VariantService) UpdateStatusBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.New(apperr.Validation, "at least one variant id is required")
	}
	if !models.IsValidStatus(status) {
		return 0, apperr.New(apperr.Validation, fmt.Sprintf("unknown status %q", status))
	}

	current, err := s.variantRepo.StatusesByID(ctx, ids, userID)
	if err != nil {
		return 0, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}

	for _, id := range ids {
		from, ok := current[id]
		if !ok {
			return 0, apperr.New(apperr.Auth, "Variant not found or access denied.")
		}
		if !models.IsValidTransition(from, status) {
			return 0, apperr.New(apperr.Validation,
				fmt.Sprintf("cannot move variant %s from %q to %q", id, from, status))
		}
	}

	affected, err := s.variantRepo.UpdateStatusBulk(ctx, ids, status)
	if err != nil {
		return affected, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}
	if affected != int64(len(ids)) {
		return affected, apperr.New(apperr.Persistence,
			fmt.Sprintf("bulk update applied to %d of %d variants", affected, len(ids)))
	}

	s.recordChange(ctx, userID, ids, "", status)
	return affected, nil
}

func (s *VariantService) recordChange(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, from, to string) {
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	meta := map[string]any{"ids": idStrs, "to": to}
	if from != "" {
		meta["from"] = from
	}
	entityID := ids[0]
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "variant_status_changed",
		EntityType:  "content_variant",
		EntityID:    &entityID,
		Meta:        meta,
	})

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.StreamVariant, events.Event{
			Type: events.EventVariantStatusChanged,
			Payload: map[string]any{
				"user_id": userID.String(),
				"ids":     idStrs,
				"status":  to,
			},
		})
	}
}
