package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type GenerateResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // ok / error
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	OK     bool          `json:"ok"`
	Checks []HealthCheck `json:"checks"`
}

type MetaOptionsResponse struct {
	Channels  []string `json:"channels"`
	Audiences []string `json:"audiences"`
	Tones     []string `json:"tones"`
}
