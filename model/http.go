package model

import "encoding/json"

// LayoutOptions overrides the server defaults for one request.
type LayoutOptions struct {
	Repetitions *bool    `json:"repetitions,omitempty"`
	MinRepeat   *int     `json:"min_repeat,omitempty"`
	LineWidth   *float64 `json:"line_width,omitempty"`
	StemPivot   *int     `json:"stem_pivot,omitempty"`
}

type LayoutRequestBody struct {
	// score document, in the same format as score files
	Score   json.RawMessage `json:"score"`
	Name    string          `json:"name,omitempty"`
	Options LayoutOptions   `json:"options,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
