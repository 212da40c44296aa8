package summarizer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ChunkText splits text into chunks of at most maxChunkSize characters without
// breaking sentences. A single sentence longer than the limit is hard-split
// into fixed-width slices. The function is pure; chunk order follows input
// order and concatenating the chunks reproduces the input's sentences.
func ChunkText(input string, maxChunkSize int) []string {
	if len(input) <= maxChunkSize {
		return []string{input}
	}

	var chunks []string
	appendChunk := func(chunk string) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	current := ""
	flat := strings.ReplaceAll(input, "\n", " ")
	for _, sentence := range strings.Split(flat, ". ") {
		switch {
		case len(sentence) > maxChunkSize:
			if current != "" {
				appendChunk(current)
				current = ""
			}
			for i := 0; i < len(sentence); i += maxChunkSize {
				end := i + maxChunkSize
				if end > len(sentence) {
					end = len(sentence)
				}
				appendChunk(sentence[i:end])
			}
		case len(current)+len(sentence)+2 <= maxChunkSize:
			current += sentence + ". "
		default:
			if current != "" {
				appendChunk(current)
			}
			current = sentence + ". "
		}
	}
	if current != "" {
		appendChunk(current)
	}
	return chunks
}

// PlainText strips markdown structure so notes written in markdown summarize
// as prose instead of markup. Non-markdown input passes through mostly
// unchanged.
func PlainText(markdown string) string {
	md := goldmark.New()
	reader := text.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		txt := extractText(node, reader.Source())
		if txt == "" {
			continue
		}
		parts = append(parts, txt)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(markdown)
	}
	return strings.Join(parts, "\n")
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Type() == ast.TypeBlock || node.Type() == ast.TypeInline {
			if node.Kind() == ast.KindText {
				sb.Write(node.(*ast.Text).Segment.Value(source))
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
