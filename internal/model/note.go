package model

const (
	NoteSourceText = "text"
	NoteSourcePDF  = "pdf"
)

type Note struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id,omitempty"`
	Title            string `json:"title"`
	Content          string `json:"content"`
	SourceType       string `json:"source_type"`
	OriginalFilename string `json:"original_filename,omitempty"`
	ContentHash      string `json:"content_hash,omitempty"`
	CharCount        int    `json:"char_count"`
	Ctime            int64  `json:"ctime"`
	Mtime            int64  `json:"mtime"`
}
