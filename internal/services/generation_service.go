package services

import (
	"context"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/events"
	"github.com/copydesk/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contentGetter interface {
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.ApprovedContent, error)
}

type variantInserter interface {
	InsertBatch(ctx context.Context, variants []models.ContentVariant) error
}

// GenerateRequest carries user-chosen generation options.
type GenerateRequest struct {
	ApprovedContentID uuid.UUID
	Channel           string
	Audience          string
	Tone              string
}

type GenerationService struct {
	contentRepo contentGetter
	variantRepo variantInserter
	client      *WebhookClient
	publisher   events.Publisher
	log         *zap.Logger
}

func NewGenerationService(
	contentRepo contentGetter,
	variantRepo variantInserter,
	client *WebhookClient,
	publisher events.Publisher,
	log *zap.Logger,
) *GenerationService {
	return &GenerationService{
		contentRepo: contentRepo,
		variantRepo: variantRepo,
		client:      client,
		publisher:   publisher,
		log:         log,
	}
}

// Generate runs the full gateway pipeline: validate options, resolve the
// owned content row, call the webhook, normalize the reply into draft rows
// and persist them in one batch. Returns the number of rows inserted.
// Every successful call appends rows; there is no dedup key, so retries
// produce duplicates.
func (s *GenerationService) Generate(ctx context.Context, userID uuid.UUID, req GenerateRequest) (int, error) {
	if req.ApprovedContentID == uuid.Nil ||
		!models.IsValidChannel(req.Channel) ||
		!models.IsValidAudience(req.Audience) ||
		!models.IsValidTone(req.Tone) {
		return 0, apperr.New(apperr.Validation, "approved_content_id, channel, audience, and tone are required and valid.")
	}

	content, err := s.contentRepo.GetOwned(ctx, req.ApprovedContentID, userID)
	if err != nil {
		// Missing and foreign rows produce the same message.
		return 0, apperr.New(apperr.Auth, "Content not found or access denied.")
	}

	reply, err := s.client.Generate(ctx, WebhookRequest{
		BaseContent:    content.Title + "\n\n" + content.Body,
		TargetAudience: req.Audience,
		Channel:        req.Channel,
		Tone:           req.Tone,
	})
	if err != nil {
		return 0, err
	}

	var extracted []WebhookVariant
	switch reply.Kind {
	case ReplyError:
		return 0, apperr.New(apperr.Validation, reply.Message)
	case ReplySingle:
		extracted = []WebhookVariant{{Channel: req.Channel, Audience: req.Audience, Tone: req.Tone, Text: reply.Text}}
	case ReplyBatch:
		extracted = reply.Variants
	}

	rows := make([]models.ContentVariant, 0, len(extracted))
	for _, v := range extracted {
		row := models.ContentVariant{
			ApprovedContentID: req.ApprovedContentID,
			Channel:           v.Channel,
			Audience:          v.Audience,
			Tone:              v.Tone,
			Status:            models.VariantStatusDraft,
			GeneratedText:     v.Text,
		}
		// Missing per-variant options fall back to the request's values.
		if row.Channel == "" {
			row.Channel = req.Channel
		}
		if row.Audience == "" {
			row.Audience = req.Audience
		}
		if row.Tone == "" {
			row.Tone = req.Tone
		}
		rows = append(rows, row)
	}

	if err := s.variantRepo.InsertBatch(ctx, rows); err != nil {
		return 0, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.StreamVariant, events.Event{
			Type: events.EventVariantsGenerated,
			Payload: map[string]any{
				"user_id":             userID.String(),
				"approved_content_id": req.ApprovedContentID.String(),
				"count":               len(rows),
			},
		})
	}

	s.log.Info("variants generated",
		zap.String("approved_content_id", req.ApprovedContentID.String()),
		zap.Int("count", len(rows)))
	return len(rows), nil
}
