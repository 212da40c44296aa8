package model

// SummaryLengthAuto is stored in Summary.SummaryLength when the caller did not
// request an explicit line count and the length was derived from content size.
const SummaryLengthAuto = "auto"

type Summary struct {
	ID               string   `json:"id"`
	NoteID           string   `json:"note_id"`
	Content          string   `json:"content"`
	SummaryType      string   `json:"summary_type"`
	SummaryLength    string   `json:"summary_length"`
	AIProvider       string   `json:"ai_provider"`
	AIModel          string   `json:"ai_model"`
	GenerationTimeMs int64    `json:"generation_time_ms"`
	TokenCount       *int     `json:"token_count,omitempty"`
	CompressionRatio *float64 `json:"compression_ratio,omitempty"`
	Ctime            int64    `json:"ctime"`
}
