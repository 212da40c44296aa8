package summarizer

import "fmt"

const (
	maxTokenBudget = 2000
	tokensPerLine  = 30
)

var styleClauses = map[Style]string{
	StyleBestFit:   "Use the most appropriate tone based on the content. For academic/technical content use formal language, for casual content use conversational tone.",
	StyleTechnical: "Use formal, precise language. Preserve technical terminology and jargon. Be objective and detailed.",
	StyleCasual:    "Use conversational, easy-to-understand language. Simplify complex terms. Be engaging and accessible.",
}

func styleClause(style Style) string {
	if clause, ok := styleClauses[style]; ok {
		return clause
	}
	return styleClauses[StyleBestFit]
}

func systemPrompt(style Style) string {
	return "You are a helpful assistant that creates clear, accurate summaries. " + styleClause(style)
}

// lengthInstruction returns the human-readable length phrase and the token
// budget for one backend call. Without an explicit line count the length is
// picked from the content size.
func lengthInstruction(lineCount *int, textLen int) (string, int) {
	if lineCount == nil {
		switch {
		case textLen < 500:
			return "2-3 lines", 100
		case textLen < 2000:
			return "4-6 lines", 200
		case textLen < 5000:
			return "6-10 lines", 350
		case textLen < 15000:
			return "10-15 lines", 500
		default:
			return "15-20 lines", 700
		}
	}
	tokens := *lineCount * tokensPerLine
	if tokens < 50 {
		tokens = 50
	}
	if tokens > maxTokenBudget {
		tokens = maxTokenBudget
	}
	return fmt.Sprintf("exactly %d lines", *lineCount), tokens
}

// buildPrompt produces the per-call instruction text and token budget for the
// given summary kind, length and style. Unknown kinds degrade to a plain
// summary, unknown styles to best_fit. Pure and stateless.
func buildPrompt(kind Kind, lineCount *int, style Style, textLen int) (string, int) {
	length, budget := lengthInstruction(lineCount, textLen)
	clause := styleClause(style)

	switch kind {
	case KindKeyPoints:
		return fmt.Sprintf("Extract the key points from the following text as a bulleted list (%s worth of points). %s:", length, clause), budget
	case KindFlashcards:
		return fmt.Sprintf("Create study flashcards (Q&A format) from the following text (%s worth of cards). %s:", length, clause), budget
	default:
		return fmt.Sprintf("Summarize the following text in %s. %s\n\nCapture the main points concisely:", length, clause), budget
	}
}

func reducePrompt(lineCount *int, textLen int) string {
	length, _ := lengthInstruction(lineCount, textLen)
	return fmt.Sprintf("Combine and condense the following summaries into %s:", length)
}
