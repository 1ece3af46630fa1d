package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/copydesk/backend/internal/apperr"
	"go.uber.org/zap"
)

// WebhookClient calls the external variant-generation webhook.
type WebhookClient struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

func NewWebhookClient(url string, timeout time.Duration, log *zap.Logger) *WebhookClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &WebhookClient{
		url: strings.TrimSpace(url),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *WebhookClient) Configured() bool {
	return c.url != ""
}

// WebhookRequest is the payload shape the generation webhook expects.
type WebhookRequest struct {
	BaseContent    string `json:"baseContent"`
	TargetAudience string `json:"targetAudience"`
	Channel        string `json:"channel"`
	Tone           string `json:"tone"`
}

type WebhookVariant struct {
	Channel  string `json:"channel"`
	Audience string `json:"audience"`
	Tone     string `json:"tone"`
	Text     string `json:"text"`
}

type ReplyKind int

const (
	// ReplyBatch is a {variants: [...]} response.
	ReplyBatch ReplyKind = iota
	// ReplySingle is a scalar text under one of the accepted key names.
	ReplySingle
	// ReplyError is an application-level rejection: {error: "..."}.
	ReplyError
)

// Reply is the normalized webhook response. Exactly one of Variants, Text or
// Message is meaningful, selected by Kind.
type Reply struct {
	Kind     ReplyKind
	Variants []WebhookVariant
	Text     string
	Message  string
}

// rawReply holds every accepted response field; classify picks the winner in
// preference order: error, variants, then text/output/result.
type rawReply struct {
	Variants []WebhookVariant `json:"variants"`
	Text     string           `json:"text"`
	Output   string           `json:"output"`
	Result   string           `json:"result"`
	Error    string           `json:"error"`
}

func classify(raw rawReply) (*Reply, bool) {
	if raw.Error != "" {
		return &Reply{Kind: ReplyError, Message: raw.Error}, true
	}
	if len(raw.Variants) > 0 {
		return &Reply{Kind: ReplyBatch, Variants: raw.Variants}, true
	}
	for _, text := range []string{raw.Text, raw.Output, raw.Result} {
		if text != "" {
			return &Reply{Kind: ReplySingle, Text: text}, true
		}
	}
	return nil, false
}

// Generate posts the payload and normalizes the response. Transport failures,
// non-success statuses, undecodable bodies and empty results all come back as
// upstream-class errors; {error} bodies come back as a ReplyError for the
// caller to surface as a client error.
func (c *WebhookClient) Generate(ctx context.Context, req WebhookRequest) (*Reply, error) {
	if !c.Configured() {
		return nil, apperr.New(apperr.NotConfigured, "Variant generation is not configured (GENERATION_WEBHOOK_URL).")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "Failed to call variant service: "+err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("generation webhook returned non-success status",
			zap.Int("status", resp.StatusCode))
		return nil, apperr.New(apperr.Upstream, translateWebhookStatus(resp.StatusCode, respBody))
	}

	var raw rawReply
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "Invalid JSON response from variant service.", err)
	}

	reply, ok := classify(raw)
	if !ok {
		return nil, apperr.New(apperr.Upstream, "No variants returned from variant service.")
	}
	return reply, nil
}

// translateWebhookStatus turns known upstream statuses into actionable
// messages; anything else falls back to a generic line with a truncated body.
func translateWebhookStatus(status int, body []byte) string {
	switch status {
	case http.StatusNotFound:
		return "Generation webhook not found. Activate the workflow and ensure the webhook path matches GENERATION_WEBHOOK_URL."
	case http.StatusForbidden:
		return "Generation webhook returned Forbidden. Check the credentials configured in the workflow."
	case http.StatusUnauthorized:
		return "Generation webhook returned Unauthorized. Verify the API keys in the workflow."
	}

	var parsed struct {
		Message string `json:"message"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Hint != "" {
			return parsed.Hint
		}
	}

	snippet := string(body)
	if len(snippet) > 150 {
		snippet = snippet[:150]
	}
	return fmt.Sprintf("Variant service returned %d. %s", status, snippet)
}
