package models

import (
	"time"

	"github.com/google/uuid"
)

// ApprovedContent is a source copy blessed for variant generation. Rows are
// owned by the creating user; all mutations are owner-scoped.
type ApprovedContent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Brand     *string   `json:"brand,omitempty"`
	Campaign  *string   `json:"campaign,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
