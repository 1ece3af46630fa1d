package events

import "context"

// Event types
const (
	EventVariantStatusChanged = "variant_status_changed"
	EventVariantsGenerated    = "variants_generated"
)

// StreamVariant is the redis channel carrying variant lifecycle events.
const StreamVariant = "events:variant"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
