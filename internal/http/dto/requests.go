package dto

type GenerateRequest struct {
	ApprovedContentID string `json:"approved_content_id"`
	Channel           string `json:"channel"`
	Audience          string `json:"audience"`
	Tone              string `json:"tone"`
}

type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}
