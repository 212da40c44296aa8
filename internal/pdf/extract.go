package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a document parses but yields no usable text,
// typically a scanned PDF with no text layer.
var ErrNoText = errors.New("no extractable text in pdf")

// ExtractText pulls the plain text out of a PDF page by page. Pages whose
// content streams cannot be decoded are skipped rather than failing the whole
// document.
func ExtractText(data []byte) (string, error) {
	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}
