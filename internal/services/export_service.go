package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/models"
	"github.com/copydesk/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// textSeparator joins variant blocks in the plain-text export.
const textSeparator = "\n\n---\n\n"

// ExportService is the read-only projection of approved variants plus the
// TXT/CSV renderings. It never mutates anything.
type ExportService struct {
	variantRepo *repositories.VariantRepo
	log         *zap.Logger
}

func NewExportService(variantRepo *repositories.VariantRepo, log *zap.Logger) *ExportService {
	return &ExportService{variantRepo: variantRepo, log: log}
}

func (s *ExportService) List(ctx context.Context, userID uuid.UUID, f repositories.ExportFilter) ([]models.VariantWithSource, error) {
	items, err := s.variantRepo.ListApproved(ctx, userID, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err.Error(), err)
	}
	return items, nil
}

// RenderText formats each variant as "Source [channel/audience/tone]" plus
// its text, joined by the fixed separator.
func RenderText(variants []models.VariantWithSource) string {
	blocks := make([]string, len(variants))
	for i, v := range variants {
		blocks[i] = fmt.Sprintf("%s [%s/%s/%s]\n%s",
			v.SourceTitle, v.Channel, v.Audience, v.Tone, v.GeneratedText)
	}
	return strings.Join(blocks, textSeparator)
}

// RenderCSV writes the approved-variant projection with full RFC-4180
// quoting on every field, not just the text column.
func RenderCSV(variants []models.VariantWithSource) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Source", "Channel", "Audience", "Tone", "Text"}); err != nil {
		return nil, err
	}
	for _, v := range variants {
		if err := w.Write([]string{v.SourceTitle, v.Channel, v.Audience, v.Tone, v.GeneratedText}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
