package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/copydesk/backend/internal/apperr"
	"github.com/copydesk/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeContentGetter struct {
	content *models.ApprovedContent
	ownerID uuid.UUID
}

func (f *fakeContentGetter) GetOwned(_ context.Context, id, userID uuid.UUID) (*models.ApprovedContent, error) {
	if f.content != nil && f.content.ID == id && f.ownerID == userID {
		return f.content, nil
	}
	return nil, errors.New("no rows in result set")
}

type fakeVariantInserter struct {
	inserted []models.ContentVariant
	failWith error
}

func (f *fakeVariantInserter) InsertBatch(_ context.Context, variants []models.ContentVariant) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.inserted = append(f.inserted, variants...)
	return nil
}

func newGenerationFixture(t *testing.T, webhookBody string) (*GenerationService, *fakeVariantInserter, uuid.UUID, uuid.UUID) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(webhookBody))
	}))
	t.Cleanup(srv.Close)

	ownerID := uuid.New()
	contentID := uuid.New()
	contents := &fakeContentGetter{
		ownerID: ownerID,
		content: &models.ApprovedContent{
			ID:     contentID,
			UserID: ownerID,
			Title:  "Q1",
			Body:   "Use as directed.",
		},
	}
	inserter := &fakeVariantInserter{}
	client := NewWebhookClient(srv.URL, 5*time.Second, zap.NewNop())
	svc := NewGenerationService(contents, inserter, client, nil, zap.NewNop())
	return svc, inserter, ownerID, contentID
}

func validRequest(contentID uuid.UUID) GenerateRequest {
	return GenerateRequest{
		ApprovedContentID: contentID,
		Channel:           "email",
		Audience:          "patient",
		Tone:              "friendly",
	}
}

func TestGenerateInvalidOptions(t *testing.T) {
	svc, inserter, ownerID, contentID := newGenerationFixture(t, `{"text":"x"}`)

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{"nil content id", GenerateRequest{Channel: "email", Audience: "patient", Tone: "friendly"}},
		{"bad channel", GenerateRequest{ApprovedContentID: contentID, Channel: "fax", Audience: "patient", Tone: "friendly"}},
		{"bad audience", GenerateRequest{ApprovedContentID: contentID, Channel: "email", Audience: "everyone", Tone: "friendly"}},
		{"bad tone", GenerateRequest{ApprovedContentID: contentID, Channel: "email", Audience: "patient", Tone: "sassy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), ownerID, tt.req)
			if !apperr.IsKind(err, apperr.Validation) {
				t.Fatalf("expected Validation error, got %v", err)
			}
		})
	}
	if len(inserter.inserted) != 0 {
		t.Errorf("no rows should be inserted, got %d", len(inserter.inserted))
	}
}

func TestGenerateUniformNotFound(t *testing.T) {
	svc, _, ownerID, contentID := newGenerationFixture(t, `{"text":"x"}`)

	// Nonexistent id and a row owned by someone else must be
	// indistinguishable by message.
	var messages []string
	for _, tc := range []struct {
		userID    uuid.UUID
		contentID uuid.UUID
	}{
		{ownerID, uuid.New()},    // nonexistent
		{uuid.New(), contentID},  // foreign owner
	} {
		_, err := svc.Generate(context.Background(), tc.userID, validRequest(tc.contentID))
		if !apperr.IsKind(err, apperr.Auth) {
			t.Fatalf("expected Auth error, got %v", err)
		}
		messages = append(messages, apperr.UserMessage(err))
	}

	if messages[0] != messages[1] {
		t.Errorf("messages differ: %q vs %q", messages[0], messages[1])
	}
	if messages[0] != "Content not found or access denied." {
		t.Errorf("message = %q", messages[0])
	}
}

func TestGenerateSingleTextBecomesDraftRow(t *testing.T) {
	svc, inserter, ownerID, contentID := newGenerationFixture(t, `{"text":"Take care"}`)

	count, err := svc.Generate(context.Background(), ownerID, validRequest(contentID))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if count != 1 || len(inserter.inserted) != 1 {
		t.Fatalf("count = %d, inserted = %d, want 1", count, len(inserter.inserted))
	}

	row := inserter.inserted[0]
	if row.ApprovedContentID != contentID {
		t.Errorf("approved_content_id = %s, want %s", row.ApprovedContentID, contentID)
	}
	if row.Channel != "email" || row.Audience != "patient" || row.Tone != "friendly" {
		t.Errorf("options = %s/%s/%s, want email/patient/friendly", row.Channel, row.Audience, row.Tone)
	}
	if row.Status != models.VariantStatusDraft {
		t.Errorf("status = %q, want draft", row.Status)
	}
	if row.GeneratedText != "Take care" {
		t.Errorf("generated_text = %q", row.GeneratedText)
	}
}

func TestGenerateBatchDefaultsMissingOptions(t *testing.T) {
	svc, inserter, ownerID, contentID := newGenerationFixture(t,
		`{"variants":[{"text":"a"},{"channel":"sms","tone":"formal","text":"b"}]}`)

	count, err := svc.Generate(context.Background(), ownerID, validRequest(contentID))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	first, second := inserter.inserted[0], inserter.inserted[1]
	if first.Channel != "email" || first.Audience != "patient" || first.Tone != "friendly" {
		t.Errorf("first row should inherit request options, got %s/%s/%s", first.Channel, first.Audience, first.Tone)
	}
	if second.Channel != "sms" || second.Tone != "formal" {
		t.Errorf("second row should keep its own options, got %s/%s", second.Channel, second.Tone)
	}
	if second.Audience != "patient" {
		t.Errorf("second row audience should default to request, got %s", second.Audience)
	}
	for _, row := range inserter.inserted {
		if row.Status != models.VariantStatusDraft {
			t.Errorf("status = %q, want draft", row.Status)
		}
	}
}

func TestGenerateUpstreamErrorField(t *testing.T) {
	svc, inserter, ownerID, contentID := newGenerationFixture(t, `{"error":"model refused"}`)

	_, err := svc.Generate(context.Background(), ownerID, validRequest(contentID))
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation error, got %v", err)
	}
	if apperr.UserMessage(err) != "model refused" {
		t.Errorf("message = %q", apperr.UserMessage(err))
	}
	if len(inserter.inserted) != 0 {
		t.Errorf("no rows should be inserted, got %d", len(inserter.inserted))
	}
}

func TestGenerateWebhook404NothingPersisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ownerID := uuid.New()
	contentID := uuid.New()
	contents := &fakeContentGetter{
		ownerID: ownerID,
		content: &models.ApprovedContent{ID: contentID, UserID: ownerID, Title: "T", Body: "B"},
	}
	inserter := &fakeVariantInserter{}
	svc := NewGenerationService(contents, inserter, NewWebhookClient(srv.URL, 5*time.Second, zap.NewNop()), nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), ownerID, validRequest(contentID))
	if !apperr.IsKind(err, apperr.Upstream) {
		t.Fatalf("expected Upstream error, got %v", err)
	}
	if len(inserter.inserted) != 0 {
		t.Errorf("no rows should be inserted, got %d", len(inserter.inserted))
	}
}

func TestGenerateInsertFailureSurfaces(t *testing.T) {
	svc, inserter, ownerID, contentID := newGenerationFixture(t, `{"text":"x"}`)
	inserter.failWith = errors.New("disk full")

	_, err := svc.Generate(context.Background(), ownerID, validRequest(contentID))
	if !apperr.IsKind(err, apperr.Persistence) {
		t.Fatalf("expected Persistence error, got %v", err)
	}
}
