package services

import (
	"context"
	"strings"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/models"
	"github.com/copydesk/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type auditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

// ContentFields is the user-editable portion of an approved-content row.
type ContentFields struct {
	Title    string
	Body     string
	Brand    *string
	Campaign *string
}

type ContentService struct {
	contentRepo *repositories.ContentRepo
	auditRepo   auditLogger
	log         *zap.Logger
}

func NewContentService(contentRepo *repositories.ContentRepo, auditRepo auditLogger, log *zap.Logger) *ContentService {
	return &ContentService{contentRepo: contentRepo, auditRepo: auditRepo, log: log}
}

func (s *ContentService) Create(ctx context.Context, userID uuid.UUID, fields ContentFields) (*models.ApprovedContent, error) {
	title, body, err := trimRequired(fields)
	if err != nil {
		return nil, err
	}

	content := &models.ApprovedContent{
		UserID:   userID,
		Title:    title,
		Body:     body,
		Brand:    fields.Brand,
		Campaign: fields.Campaign,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "content_created",
		EntityType:  "approved_content",
		EntityID:    &content.ID,
	})
	return content, nil
}

func (s *ContentService) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.ApprovedContent, error) {
	content, err := s.contentRepo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, apperr.New(apperr.Auth, "Content not found or access denied.")
	}
	return content, nil
}

func (s *ContentService) List(ctx context.Context, userID uuid.UUID) ([]models.ApprovedContent, error) {
	items, err := s.contentRepo.List(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}
	return items, nil
}

func (s *ContentService) Update(ctx context.Context, id, userID uuid.UUID, fields ContentFields) error {
	title, body, err := trimRequired(fields)
	if err != nil {
		return err
	}

	affected, err := s.contentRepo.Update(ctx, &models.ApprovedContent{
		ID:       id,
		UserID:   userID,
		Title:    title,
		Body:     body,
		Brand:    fields.Brand,
		Campaign: fields.Campaign,
	})
	if err != nil {
		return apperr.Wrap(apperr.Persistence, err.Error(), err)
	}
	if affected == 0 {
		// Non-owner updates touch zero rows; never report success.
		return apperr.New(apperr.Auth, "Content not found or access denied.")
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "content_updated",
		EntityType:  "approved_content",
		EntityID:    &id,
	})
	return nil
}

func (s *ContentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := s.contentRepo.Delete(ctx, id, userID)
	if err != nil {
		return apperr.Wrap(apperr.Persistence, err.Error(), err)
	}
	if affected == 0 {
		return apperr.New(apperr.Auth, "Content not found or access denied.")
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      "content_deleted",
		EntityType:  "approved_content",
		EntityID:    &id,
	})
	return nil
}

func trimRequired(fields ContentFields) (title, body string, err error) {
	title = strings.TrimSpace(fields.Title)
	body = strings.TrimSpace(fields.Body)
	if title == "" || body == "" {
		return "", "", apperr.New(apperr.Validation, "Title and body are required.")
	}
	return title, body, nil
}
