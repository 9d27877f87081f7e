package model

// ScoreMetadata is what the metadata store knows about a score file.
type ScoreMetadata struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Release  string `json:"release,omitempty"`
	Year     uint   `json:"year,omitempty"`
}
